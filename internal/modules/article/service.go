package article

import (
	"errors"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mwanaisha222/impala1/internal/models"
	"github.com/mwanaisha222/impala1/internal/pkg/pagination"
	"github.com/mwanaisha222/impala1/internal/pkg/response"
	"gorm.io/gorm"
)

// bodyPolicy is the allow-list for rich-text article bodies.
var bodyPolicy = buildBodyPolicy()

func buildBodyPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"a", "abbr", "acronym", "b", "blockquote", "code", "em", "i", "li",
		"ol", "strong", "ul", "p", "br", "img", "h1", "h2", "h3", "h4", "h5",
		"h6", "pre", "table", "thead", "tbody", "tr", "th", "td", "hr",
		"video", "source",
	)
	p.AllowAttrs("style", "class", "id").Globally()
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	p.AllowAttrs("src", "controls", "width", "height").OnElements("video")
	p.AllowAttrs("src", "type").OnElements("source")
	return p
}

// Service handles article business logic.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Create stores a new article with a sanitized body.
func (s *Service) Create(authorID string, dto *ArticleDTO) (*models.ArticleModel, error) {
	a := models.ArticleModel{
		AuthorID:      authorID,
		Title:         dto.Title,
		Body:          bodyPolicy.Sanitize(dto.Body),
		Keywords:      dto.Keywords,
		FeaturedImage: dto.FeaturedImage,
	}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns a paginated list of articles, newest first.
func (s *Service) List(q pagination.Query) ([]models.ArticleModel, response.Pagination, error) {
	tx := s.db.Model(&models.ArticleModel{}).
		Preload("Author").
		Order("created_at DESC")
	var articles []models.ArticleModel
	pag, err := pagination.Paginate(tx, q, &articles)
	return articles, pag, err
}

// GetByID fetches a single article. Returns (nil, nil) when absent.
func (s *Service) GetByID(id string) (*models.ArticleModel, error) {
	var a models.ArticleModel
	if err := s.db.Preload("Author").First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Update overwrites the editable fields of an existing article.
func (s *Service) Update(a *models.ArticleModel, dto *ArticleDTO) error {
	return s.db.Model(a).Updates(map[string]interface{}{
		"title":          dto.Title,
		"body":           bodyPolicy.Sanitize(dto.Body),
		"keywords":       dto.Keywords,
		"featured_image": dto.FeaturedImage,
	}).Error
}

// Delete soft-deletes an article.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.ArticleModel{}, "id = ?", id).Error
}
