package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"storefront/config"
	"storefront/utils"
)

// SkuImagePath is the storefront route of proxied SKU images
const SkuImagePath = "/images/sku/"

// maxSourceImageBytes bounds an image downloaded from the SKU image store
const maxSourceImageBytes = 16 << 20

// ImageService resolves SKU image URLs and serves cached thumbnails
type ImageService struct {
	template   string
	proxy      bool
	httpClient *http.Client
	cache      *imageCache
	logger     *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(httpClient *http.Client, skuImagesURL string, images config.ImagesConfig, logger *zap.Logger) *ImageService {
	return &ImageService{
		template:   skuImagesURL,
		proxy:      images.Proxy,
		httpClient: httpClient,
		cache:      newImageCache(images.CacheDir, logger),
		logger:     logger,
	}
}

// URLFor returns the image URL a page renders for a product code
func (s *ImageService) URLFor(code string) string {
	if s.proxy {
		return SkuImagePath + url.PathEscape(code)
	}
	return s.SourceURL(code)
}

// SourceURL returns the SKU image store URL of a product code
func (s *ImageService) SourceURL(code string) string {
	return utils.SkuImageURL(s.template, code)
}

// Thumbnail returns the JPEG thumbnail of a product code, from the disk
// cache when possible
func (s *ImageService) Thumbnail(ctx context.Context, code string) ([]byte, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("empty product code")
	}

	if data, ok := s.cache.read(code, "thumb"); ok {
		return data, nil
	}

	source := s.SourceURL(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image %s: status %d", source, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", source, err)
	}

	thumb, err := OptimizeImage(raw, s.logger)
	if err != nil {
		return nil, err
	}

	if err := s.cache.write(code, "thumb", thumb); err != nil {
		// serving still works without the cache
		s.logger.Warn("⚠️  Failed to cache thumbnail", zap.String("code", code), zap.Error(err))
	}
	return thumb, nil
}
