package domain

import "time"

// NewsCategory classifies robotics news articles.
type NewsCategory string

const (
	NewsIndustry   NewsCategory = "industry"
	NewsProduct    NewsCategory = "product"
	NewsReview     NewsCategory = "review"
	NewsTechnology NewsCategory = "technology"
	NewsBusiness   NewsCategory = "business"
)

type NewsSource struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type NewsArticle struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Content     string       `json:"content,omitempty"`
	Source      NewsSource   `json:"source"`
	Author      string       `json:"author,omitempty"`
	URL         string       `json:"url"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	PublishedAt time.Time    `json:"publishedAt"`
	Category    NewsCategory `json:"category"`
	Tags        []string     `json:"tags,omitempty"`
}
