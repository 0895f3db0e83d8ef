package models

import "strings"

// ArticleModel is a published article.
type ArticleModel struct {
	Base
	AuthorID      string     `json:"author_id" gorm:"type:char(36);index;not null"`
	Author        *UserModel `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Title         string     `json:"title"     gorm:"not null"`
	Body          string     `json:"body"      gorm:"type:longtext"`
	FeaturedImage string     `json:"featured_image"`
	Keywords      string     `json:"keywords"` // comma-separated
}

func (ArticleModel) TableName() string { return "articles" }

// KeywordList splits the comma-separated keywords field, dropping blanks.
func (a ArticleModel) KeywordList() []string {
	var out []string
	for _, k := range strings.Split(a.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
