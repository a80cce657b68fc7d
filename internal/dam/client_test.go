package dam

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/five82/damview/internal/asset"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != "127.0.0.1:8080" {
		t.Fatalf("host = %q, want 127.0.0.1:8080", u.Host)
	}

	u, err = parseBaseURL("https://dam.example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("dam.local:9000")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != "http://dam.local:9000" {
		t.Fatalf("bare host = %q, want http://dam.local:9000", u.String())
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var gotAssetsQuery url.Values
	var gotBatch BatchStatusRequest
	var gotUserAgent, gotAuth, gotRequestID, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/app/api/assets" && r.Method == http.MethodGet:
			gotAssetsQuery = r.URL.Query()
			_, _ = w.Write([]byte(`{"assets":[{"id":"a1","mime_type":"image/png","thumbnail_version":3}],"total":40}`))
		case r.URL.Path == "/app/api/categories":
			_ = json.NewEncoder(w).Encode(CategoryListResponse{Categories: []Category{{ID: "c1", Name: "Photos", AssetCount: 2}}})
		case r.URL.Path == "/app/api/assets/a1/thumbnail-status":
			_, _ = w.Write([]byte(`{"thumbnail_status":"completed","thumbnail_url":"https://cdn/a1.png"}`))
		case r.URL.Path == "/app/api/assets/thumbnail-status/batch" && r.Method == http.MethodPost:
			gotContentType = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&gotBatch)
			_, _ = w.Write([]byte(`{"assets":[{"asset_id":"a1","thumbnail_status":"processing","preview_thumbnail_url":"https://cdn/p.png","final_thumbnail_url":null}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, " tok ")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	page, err := c.FetchAssets(ctx, AssetQuery{CategoryID: "c1", Search: " logo "})
	if err != nil {
		t.Fatalf("FetchAssets returned error: %v", err)
	}
	if len(page.Assets) != 1 || page.Assets[0].ID != "a1" || page.Total != 40 {
		t.Fatalf("FetchAssets payload = %#v, want one asset a1 total 40", page)
	}
	if v := page.Assets[0].ThumbnailVersion; v == nil || *v != "3" {
		t.Fatalf("numeric thumbnail_version not decoded: %v", v)
	}
	if gotAssetsQuery.Get("category") != "c1" || gotAssetsQuery.Get("search") != "logo" {
		t.Fatalf("FetchAssets query = %v, want params encoded", gotAssetsQuery)
	}

	categories, err := c.FetchCategories(ctx)
	if err != nil {
		t.Fatalf("FetchCategories returned error: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Photos" {
		t.Fatalf("FetchCategories = %#v, want Photos", categories)
	}

	status, err := c.FetchThumbnailStatus(ctx, "a1")
	if err != nil {
		t.Fatalf("FetchThumbnailStatus returned error: %v", err)
	}
	if status.ThumbnailStatus != asset.StatusCompleted || status.ThumbnailURL == nil || *status.ThumbnailURL != "https://cdn/a1.png" {
		t.Fatalf("FetchThumbnailStatus = %#v, want completed with url", status)
	}

	items, err := c.FetchBatchStatus(ctx, []string{"a1", "a2"})
	if err != nil {
		t.Fatalf("FetchBatchStatus returned error: %v", err)
	}
	if len(gotBatch.AssetIDs) != 2 || gotBatch.AssetIDs[1] != "a2" {
		t.Fatalf("batch body = %#v, want both ids", gotBatch)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	if len(items) != 1 {
		t.Fatalf("FetchBatchStatus items = %d, want 1", len(items))
	}
	item := items[0]
	if !item.PreviewThumbnailURL.Present || *item.PreviewThumbnailURL.Value != "https://cdn/p.png" {
		t.Fatalf("preview = %#v, want present url", item.PreviewThumbnailURL)
	}
	if !item.FinalThumbnailURL.Present || item.FinalThumbnailURL.Value != nil {
		t.Fatalf("final = %#v, want explicit null", item.FinalThumbnailURL)
	}
	if item.ThumbnailVersion.Present || item.ThumbnailError.Present {
		t.Fatalf("omitted keys reported present: %#v", item)
	}

	if !strings.HasPrefix(gotUserAgent, "damview/") {
		t.Fatalf("User-Agent = %q, want damview/*", gotUserAgent)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q, want Bearer tok", gotAuth)
	}
	if _, err := uuid.Parse(gotRequestID); err != nil {
		t.Fatalf("X-Request-ID = %q, want uuid: %v", gotRequestID, err)
	}
}

func TestClient_BatchWithNoIDsSkipsRequest(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	items, err := c.FetchBatchStatus(context.Background(), nil)
	if err != nil || items != nil {
		t.Fatalf("FetchBatchStatus(nil) = %v, %v; want nil, nil", items, err)
	}
	if calls != 0 {
		t.Fatalf("server called %d times, want 0", calls)
	}
}

func TestClient_FetchThumbnailStatusRequiresID(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchThumbnailStatus(context.Background(), "  ")
	if err == nil {
		t.Fatalf("FetchThumbnailStatus returned nil error, want error")
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/app/api/categories":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/app/api/assets":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchCategories(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchCategories error = %v, want decode response error", err)
	}

	_, err = c.FetchAssets(context.Background(), AssetQuery{})
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchAssets error = %v, want status 500 error", err)
	}
	if IsNotFound(err) {
		t.Fatalf("IsNotFound(500) = true, want false")
	}

	_, err = c.FetchThumbnailStatus(context.Background(), "gone")
	if !IsNotFound(err) {
		t.Fatalf("FetchThumbnailStatus error = %v, want not found", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Path != "/app/api/assets/gone/thumbnail-status" {
		t.Fatalf("APIError = %#v, want path of the status endpoint", apiErr)
	}
}

func TestIsNotFound_Wrapped(t *testing.T) {
	err := &APIError{Method: http.MethodGet, Path: "/x", Status: http.StatusNotFound}
	wrapped := errors.Join(errors.New("poll"), err)
	if !IsNotFound(wrapped) {
		t.Fatalf("IsNotFound(wrapped) = false, want true")
	}
	if IsNotFound(errors.New("plain")) || IsNotFound(nil) {
		t.Fatalf("IsNotFound on non-API errors = true, want false")
	}
}
