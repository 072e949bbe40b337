package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	thumbQuality = 60
	// thumbMaxSize is the max dimension of a thumbnail
	thumbMaxSize = 300
)

// imageCache stores optimized SKU images on disk
type imageCache struct {
	dir    string
	logger *zap.Logger
}

func newImageCache(dir string, logger *zap.Logger) *imageCache {
	return &imageCache{dir: dir, logger: logger}
}

// ensureDir creates the cache directory if it doesn't exist
func (c *imageCache) ensureDir() error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// path returns the cache file of a product code and size.
// Codes are hashed so any code is a safe file name.
func (c *imageCache) path(code, size string) string {
	sum := sha256.Sum256([]byte(code))
	filename := fmt.Sprintf("sku_%s_%s.jpg", hex.EncodeToString(sum[:8]), size)
	return filepath.Join(c.dir, filename)
}

// read returns the cached image, or false on a miss
func (c *imageCache) read(code, size string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(code, size))
	if err != nil {
		return nil, false
	}
	return data, true
}

// write saves an image to the cache
func (c *imageCache) write(code, size string, data []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}

	cachePath := c.path(code, size)
	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}

	c.logger.Debug("✓ Image cached", zap.String("path", cachePath))
	return nil
}

// OptimizeImage converts an image to a JPEG thumbnail that fits inside
// thumbMaxSize. Smaller images keep their dimensions.
func OptimizeImage(imageData []byte, logger *zap.Logger) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	logger.Debug("📸 Image decoded", zap.String("format", format), zap.Stringer("bounds", img.Bounds()))

	bounds := img.Bounds()
	if bounds.Dx() > thumbMaxSize || bounds.Dy() > thumbMaxSize {
		img = imaging.Fit(img, thumbMaxSize, thumbMaxSize, imaging.Lanczos)
		logger.Debug("🔄 Image resized", zap.Int("from_w", bounds.Dx()), zap.Int("from_h", bounds.Dy()),
			zap.Int("to_w", img.Bounds().Dx()), zap.Int("to_h", img.Bounds().Dy()))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(thumbQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	return buf.Bytes(), nil
}
