package models

import (
	"time"

	"botsales-backend/internal/domain"

	"gorm.io/datatypes"
)

// Article is a stored news item for the robotics news feed.
type Article struct {
	ID          string                      `gorm:"column:id;primaryKey" json:"id"`
	Title       string                      `gorm:"column:title;not null" json:"title"`
	Description string                      `gorm:"column:description" json:"description"`
	Content     string                      `gorm:"column:content" json:"content"`
	SourceName  string                      `gorm:"column:source_name" json:"source_name"`
	SourceURL   string                      `gorm:"column:source_url" json:"source_url"`
	Author      string                      `gorm:"column:author" json:"author"`
	URL         string                      `gorm:"column:url" json:"url"`
	ImageURL    string                      `gorm:"column:image_url" json:"image_url"`
	Category    string                      `gorm:"column:category;type:varchar(16)" json:"category"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	PublishedAt time.Time                   `gorm:"column:published_at;index" json:"published_at"`
}

func (Article) TableName() string {
	return "articles"
}

func (a Article) ToDomain() domain.NewsArticle {
	out := domain.NewsArticle{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		Source:      domain.NewsSource{Name: a.SourceName, URL: a.SourceURL},
		Author:      a.Author,
		URL:         a.URL,
		ImageURL:    a.ImageURL,
		PublishedAt: a.PublishedAt.UTC(),
		Category:    domain.NewsCategory(a.Category),
	}
	if a.Tags != nil {
		out.Tags = append([]string{}, a.Tags...)
	}
	return out
}

func ArticleFromDomain(a domain.NewsArticle) Article {
	return Article{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		SourceName:  a.Source.Name,
		SourceURL:   a.Source.URL,
		Author:      a.Author,
		URL:         a.URL,
		ImageURL:    a.ImageURL,
		Category:    string(a.Category),
		Tags:        datatypes.JSONSlice[string](a.Tags),
		PublishedAt: a.PublishedAt,
	}
}
