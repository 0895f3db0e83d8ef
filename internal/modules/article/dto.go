package article

import (
	"time"

	"github.com/mwanaisha222/impala1/internal/models"
)

// ArticleDTO is the create/update payload.
type ArticleDTO struct {
	Title         string `json:"title"    binding:"required,max=200"`
	Body          string `json:"body"     binding:"required"`
	Keywords      string `json:"keywords" binding:"max=255"` // comma-separated
	FeaturedImage string `json:"featured_image"`
}

type articleResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Keywords      []string  `json:"keywords"`
	FeaturedImage string    `json:"featured_image,omitempty"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toResponse(a *models.ArticleModel) articleResponse {
	resp := articleResponse{
		ID:            a.ID,
		Title:         a.Title,
		Body:          a.Body,
		Keywords:      a.KeywordList(),
		FeaturedImage: a.FeaturedImage,
		AuthorID:      a.AuthorID,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.Author != nil {
		resp.AuthorName = a.Author.FullName()
	}
	return resp
}
