package services

import (
	"fmt"
	"os"
	"path"
	"strings"

	"bylines/internal/models"

	"gorm.io/gorm"
)

// PlaceholderAvatar is served when a contributor has no stored avatar.
const PlaceholderAvatar = "/static/person.svg"

// MediaService resolves stored media ids to public URLs by size variant.
type MediaService struct {
	db      *gorm.DB
	baseURL string
}

func NewMediaService(db *gorm.DB) *MediaService {
	baseURL := os.Getenv("MEDIA_BASE_URL")
	if baseURL == "" {
		baseURL = "/media"
	}
	return &MediaService{db: db, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Resolve returns the URL of the media asset at the given pixel size, or
// the placeholder when id is nil or unknown. Size 0 means the original.
func (s *MediaService) Resolve(id *int64, size int) string {
	if id == nil || *id <= 0 {
		return PlaceholderAvatar
	}

	var media models.Media
	if err := s.db.First(&media, *id).Error; err != nil {
		return PlaceholderAvatar
	}
	return s.baseURL + "/" + variantPath(media.Path, size)
}

// variantPath maps "portraits/jane.jpg" at size 150 to
// "portraits/jane-150.jpg". Variants are pre-generated at upload time.
func variantPath(p string, size int) string {
	if size <= 0 {
		return p
	}
	ext := path.Ext(p)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(p, ext), size, ext)
}
