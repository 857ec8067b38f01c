package services

import (
	"bylines/internal/models"

	"gorm.io/gorm"
)

// PostService is a thin lookup over the content table. The byline layer
// only ever needs the author id and existence checks.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// GetPost returns one post by id, or nil when absent.
func (s *PostService) GetPost(id int64) (*models.Post, error) {
	var post models.Post
	err := s.db.First(&post, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}
