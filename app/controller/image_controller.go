package controller

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"storefront/service"
	"storefront/web"
)

// ImageController serves proxied SKU thumbnails
type ImageController struct {
	images *service.ImageService
	logger *zap.Logger
}

// NewImageController creates a new ImageController
func NewImageController(images *service.ImageService, logger *zap.Logger) *ImageController {
	return &ImageController{images: images, logger: logger}
}

// GetSkuImage handles GET /images/sku/{code}
// Any failure serves the placeholder so the page never shows a broken image
func (c *ImageController) GetSkuImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	code, err := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), service.SkuImagePath))
	if err != nil || code == "" || strings.Contains(code, "/") {
		c.servePlaceholder(w)
		return
	}

	data, err := c.images.Thumbnail(r.Context(), code)
	if err != nil {
		c.logger.Warn("⚠️  SKU image unavailable, serving placeholder", zap.String("code", code), zap.Error(err))
		c.servePlaceholder(w)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (c *ImageController) servePlaceholder(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(web.Placeholder())
}
