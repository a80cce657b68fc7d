package dam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AssetFetcher defines the DAM endpoints the host view and pollers use.
// This interface is implemented by *Client and can be used for testing.
type AssetFetcher interface {
	FetchAssets(ctx context.Context, query AssetQuery) (AssetListResponse, error)
	FetchCategories(ctx context.Context) ([]Category, error)
	FetchThumbnailStatus(ctx context.Context, assetID string) (*ThumbnailStatusResponse, error)
	FetchBatchStatus(ctx context.Context, assetIDs []string) ([]BatchStatusItem, error)
}

// Ensure Client implements AssetFetcher at compile time.
var _ AssetFetcher = (*Client)(nil)

// Client talks to the DAM HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
}

const (
	defaultAPIBase   = "http://127.0.0.1:8080"
	defaultUserAgent = "damview/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for apiBase. token is sent as a bearer token when
// non-empty.
func NewClient(apiBase, token string) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		token:     strings.TrimSpace(token),
	}, nil
}

// AssetQuery scopes a collection fetch.
type AssetQuery struct {
	CategoryID string
	Search     string
}

// FetchAssets retrieves the authoritative asset collection for a query.
func (c *Client) FetchAssets(ctx context.Context, query AssetQuery) (AssetListResponse, error) {
	if c == nil {
		return AssetListResponse{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if category := strings.TrimSpace(query.CategoryID); category != "" {
		values.Set("category", category)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		values.Set("search", search)
	}
	rel := &url.URL{Path: "/app/api/assets", RawQuery: values.Encode()}
	var payload AssetListResponse
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return AssetListResponse{}, err
	}
	return payload, nil
}

// FetchCategories retrieves the category navigation.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload CategoryListResponse
	if err := c.do(ctx, http.MethodGet, "/app/api/categories", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

// FetchThumbnailStatus retrieves the processing status of a single asset.
func (c *Client) FetchThumbnailStatus(ctx context.Context, assetID string) (*ThumbnailStatusResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	id := strings.TrimSpace(assetID)
	if id == "" {
		return nil, fmt.Errorf("asset id required")
	}
	var payload ThumbnailStatusResponse
	path := "/app/api/assets/" + url.PathEscape(id) + "/thumbnail-status"
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchBatchStatus retrieves rendition fields for many assets in one request.
func (c *Client) FetchBatchStatus(ctx context.Context, assetIDs []string) ([]BatchStatusItem, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if len(assetIDs) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(BatchStatusRequest{AssetIDs: assetIDs})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	var payload BatchStatusResponse
	if err := c.do(ctx, http.MethodPost, "/app/api/assets/thumbnail-status/batch", body, &payload); err != nil {
		return nil, err
	}
	return payload.Assets, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body []byte, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &APIError{Method: method, Path: rel.Path, Status: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
