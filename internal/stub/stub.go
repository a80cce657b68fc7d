// Package stub runs an in-memory DAM backend for local development and tests.
//
// Every seeded asset gets a uuid and a creation time. Its thumbnail fields are
// derived from the time elapsed since creation, so a client polling the stub
// observes the same pending → processing → completed progression a real
// rendition pipeline produces. Some assets fail and some have formats that
// never get a thumbnail.
package stub

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/damview/internal/asset"
	"github.com/five82/damview/internal/dam"
)

// DefaultReadyAfter is how long a seeded asset takes to finish rendering.
const DefaultReadyAfter = 12 * time.Second

// Outcome decides how an asset's rendition ends.
type Outcome int

const (
	OutcomeComplete Outcome = iota
	OutcomeFail
	OutcomeUnsupported
)

// Options configures a Server.
type Options struct {
	Assets     int
	ReadyAfter time.Duration
	Token      string
	CDNBase    string
	Now        func() time.Time
	Logger     *zap.Logger
}

// Spec describes an asset to add to the catalogue.
type Spec struct {
	Title      string
	Filename   string
	MimeType   string
	CategoryID string
	Outcome    Outcome
	PDFPages   int
}

type entry struct {
	id      string
	spec    Spec
	created time.Time
}

// Server is the simulated backend. It is safe for concurrent use.
type Server struct {
	mu         sync.RWMutex
	entries    []*entry
	categories []dam.Category

	readyAfter time.Duration
	token      string
	cdn        string
	now        func() time.Time
	logger     *zap.Logger
}

var seedCategories = []dam.Category{
	{ID: "photos", Name: "Photos", Slug: "photos"},
	{ID: "documents", Name: "Documents", Slug: "documents"},
	{ID: "video", Name: "Video", Slug: "video"},
	{ID: "archive", Name: "Archive", Slug: "archive"},
}

var seedKinds = []Spec{
	{Filename: "harbour.jpg", MimeType: "image/jpeg", CategoryID: "photos"},
	{Filename: "brand-guide.pdf", MimeType: "application/pdf", CategoryID: "documents", PDFPages: 12},
	{Filename: "logo.png", MimeType: "image/png", CategoryID: "photos"},
	{Filename: "teaser.mp4", MimeType: "video/mp4", CategoryID: "video"},
	{Filename: "assets.zip", MimeType: "application/zip", CategoryID: "archive", Outcome: OutcomeUnsupported},
	{Filename: "banner.webp", MimeType: "image/webp", CategoryID: "photos"},
	{Filename: "poster.psd", MimeType: "image/vnd.adobe.photoshop", CategoryID: "documents", Outcome: OutcomeFail},
}

// New builds a Server seeded with opts.Assets assets whose creation times are
// staggered one second apart.
func New(opts Options) *Server {
	s := &Server{
		readyAfter: opts.ReadyAfter,
		token:      strings.TrimSpace(opts.Token),
		cdn:        strings.TrimRight(opts.CDNBase, "/"),
		now:        opts.Now,
		logger:     opts.Logger,
	}
	if s.readyAfter <= 0 {
		s.readyAfter = DefaultReadyAfter
	}
	if s.cdn == "" {
		s.cdn = "https://cdn.invalid/thumbs"
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.categories = append([]dam.Category(nil), seedCategories...)

	start := s.now()
	for i := 0; i < opts.Assets; i++ {
		spec := seedKinds[i%len(seedKinds)]
		spec.Title = fmt.Sprintf("%s #%d", strings.TrimSuffix(spec.Filename, extOf(spec.Filename)), i+1)
		s.add(spec, start.Add(time.Duration(i)*time.Second))
	}
	return s
}

// Add inserts an asset created now and returns its id.
func (s *Server) Add(spec Spec) string {
	return s.add(spec, s.now())
}

func (s *Server) add(spec Spec, created time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &entry{id: uuid.NewString(), spec: spec, created: created}
	s.entries = append(s.entries, e)
	return e.id
}

// Remove deletes an asset; later status requests for it return 404.
func (s *Server) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Finish marks an asset's rendition as done immediately.
func (s *Server) Finish(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.id == id {
			e.created = s.now().Add(-s.readyAfter)
			return true
		}
	}
	return false
}

// Asset renders the current view of one asset.
func (s *Server) Asset(id string) (*asset.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	for _, e := range s.entries {
		if e.id == id {
			return s.render(e, now), true
		}
	}
	return nil, false
}

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	if s.token != "" {
		router.Use(s.requireToken())
	}

	api := router.Group("/app/api")
	{
		api.GET("/categories", s.listCategories)
		api.GET("/assets", s.listAssets)
		api.GET("/assets/:id/thumbnail-status", s.thumbnailStatus)
		api.POST("/assets/thumbnail-status/batch", s.batchStatus)
	}
	return router
}

func (s *Server) render(e *entry, now time.Time) *asset.Asset {
	a := &asset.Asset{
		ID:               e.id,
		Title:            e.spec.Title,
		MimeType:         e.spec.MimeType,
		OriginalFilename: e.spec.Filename,
		CategoryID:       e.spec.CategoryID,
		Lifecycle:        "active",
		Metadata:         map[string]any{"uploaded_at": e.created.UTC().Format(time.RFC3339)},
	}
	if e.spec.PDFPages > 0 {
		a.IsPDF = true
		a.PDFPageCount = asset.Int(e.spec.PDFPages)
		a.PDFPageAPIEndpoint = asset.String("/app/api/assets/" + e.id + "/pdf-page")
	}
	if e.spec.Outcome == OutcomeUnsupported {
		return a
	}

	elapsed := now.Sub(e.created)
	switch {
	case elapsed < s.readyAfter/3:
		a.ThumbnailStatus = asset.StatusPending
		a.Processing = true
	case e.spec.Outcome == OutcomeFail && elapsed >= s.readyAfter/2:
		a.ThumbnailStatus = asset.StatusFailed
		a.ThumbnailError = asset.String("renderer exited with status 1")
	case elapsed < s.readyAfter:
		a.ThumbnailStatus = asset.StatusProcessing
		a.Processing = true
		if elapsed >= 2*s.readyAfter/3 {
			a.PreviewThumbnailURL = asset.String(s.cdn + "/" + e.id + "/preview.jpg")
		}
	default:
		final := s.cdn + "/" + e.id + "/final.jpg"
		a.ThumbnailStatus = asset.StatusCompleted
		a.ThumbnailURL = asset.String(final)
		a.PreviewThumbnailURL = asset.String(s.cdn + "/" + e.id + "/preview.jpg")
		a.FinalThumbnailURL = asset.String(final)
		a.ThumbnailVersion = asset.V("1")
		a.ThumbnailsGeneratedAt = asset.String(e.created.Add(s.readyAfter).UTC().Format(time.RFC3339))
		if a.IsPDF {
			a.FirstPageURL = asset.String(s.cdn + "/" + e.id + "/page-1.jpg")
		}
	}
	return a
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}
