package news

import (
	"sort"

	"botsales-backend/internal/domain"
)

const DefaultFeedLimit = 20

// Feed serves a fixed set of articles, newest first.
type Feed struct {
	articles []domain.NewsArticle
}

// NewFeed classifies every article that arrives without a category or tags.
func NewFeed(articles []domain.NewsArticle) *Feed {
	out := make([]domain.NewsArticle, len(articles))
	for i, a := range articles {
		c := Classify(a.Title, a.Description)
		if a.Category == "" {
			a.Category = c.Category
		}
		if a.Tags == nil {
			a.Tags = c.Tags
		}
		out[i] = a
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return &Feed{articles: out}
}

// List filters by category ("" or "all" means every category) and truncates to limit.
func (f *Feed) List(category string, limit int) []domain.NewsArticle {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	out := make([]domain.NewsArticle, 0)
	for _, a := range f.articles {
		if category != "" && category != "all" && string(a.Category) != category {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out
}
