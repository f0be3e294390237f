package orders

import (
	"os"
	"path/filepath"
	"strings"
)

// ImageDir resolves product identifiers to image filenames stored on disk.
// Matching is by filename stem, case-insensitive.
type ImageDir struct {
	dir      string
	fallback string
}

func NewImageDir(dir, fallback string) *ImageDir {
	if fallback == "" {
		fallback = "placeholder.png"
	}
	return &ImageDir{dir: dir, fallback: fallback}
}

func (d *ImageDir) Resolve(productID string) string {
	if productID == "" || d.dir == "" {
		return d.fallback
	}

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return d.fallback
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if strings.EqualFold(stem, productID) {
			return name
		}
	}
	return d.fallback
}
