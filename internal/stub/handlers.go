package stub

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/five82/damview/internal/asset"
	"github.com/five82/damview/internal/dam"
)

func (s *Server) listCategories(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(s.categories))
	for _, e := range s.entries {
		counts[e.spec.CategoryID]++
	}
	out := make([]dam.Category, len(s.categories))
	for i, cat := range s.categories {
		cat.AssetCount = counts[cat.ID]
		out[i] = cat
	}
	c.JSON(http.StatusOK, dam.CategoryListResponse{Categories: out})
}

func (s *Server) listAssets(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	assets := make([]*asset.Asset, 0, len(s.entries))
	for _, e := range s.entries {
		if category != "" && e.spec.CategoryID != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.spec.Title+" "+e.spec.Filename), search) {
			continue
		}
		assets = append(assets, s.render(e, now))
	}
	c.JSON(http.StatusOK, dam.AssetListResponse{Assets: assets, Total: len(assets)})
}

func (s *Server) thumbnailStatus(c *gin.Context) {
	a, ok := s.Asset(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}
	c.JSON(http.StatusOK, dam.ThumbnailStatusResponse{
		ThumbnailStatus:       a.ThumbnailStatus,
		ThumbnailURL:          a.ThumbnailURL,
		ThumbnailsGeneratedAt: a.ThumbnailsGeneratedAt,
	})
}

// batchStatus leaves out the preview and version keys until they exist, so
// clients have to keep their local values for absent keys.
func (s *Server) batchStatus(c *gin.Context) {
	var req dam.BatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items := make([]dam.BatchStatusItem, 0, len(req.AssetIDs))
	for _, id := range req.AssetIDs {
		a, ok := s.Asset(id)
		if !ok {
			continue
		}
		item := dam.BatchStatusItem{
			AssetID:           a.ID,
			ThumbnailStatus:   a.ThumbnailStatus,
			FinalThumbnailURL: dam.Nullable[string]{Present: true, Value: a.FinalThumbnailURL},
		}
		if a.PreviewThumbnailURL != nil {
			item.PreviewThumbnailURL = dam.Some(*a.PreviewThumbnailURL)
		}
		if a.ThumbnailVersion != nil {
			item.ThumbnailVersion = dam.Some(*a.ThumbnailVersion)
		}
		if a.ThumbnailError != nil {
			item.ThumbnailError = dam.Some(*a.ThumbnailError)
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, dam.BatchStatusResponse{Assets: items})
}

func (s *Server) requireToken() gin.HandlerFunc {
	want := "Bearer " + s.token
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != want {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
			zap.Duration("took", time.Since(start)),
		)
	}
}
