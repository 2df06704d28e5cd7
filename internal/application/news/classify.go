package news

import (
	"strings"

	"botsales-backend/internal/domain"
)

type rule struct {
	category domain.NewsCategory
	keywords []string
}

// Rules are checked in order; the first hit wins.
var rules = []rule{
	{domain.NewsReview, []string{"review", "tested", "hands-on"}},
	{domain.NewsProduct, []string{"launch", "announce", "unveil", "release"}},
	{domain.NewsBusiness, []string{"acquire", "invest", "billion", "million", "market"}},
	{domain.NewsIndustry, []string{"industry", "standard", "regulation"}},
}

// TagVocabulary is the fixed set of tags, in the order they are reported.
var TagVocabulary = []string{
	"iRobot", "Roomba", "Roborock", "Ecovacs", "DJI", "Boston Dynamics",
	"Sony", "Amazon", "Xiaomi", "Samsung", "LG", "Husqvarna", "Skydio",
	"AI", "autonomous", "drone", "vacuum", "robot dog", "lawn mower",
	"smart home", "STEM", "education", "delivery", "security",
}

type Classification struct {
	Category domain.NewsCategory `json:"category"`
	Tags     []string            `json:"tags"`
}

// Categorize maps free text to a news category, defaulting to technology.
func Categorize(text string) domain.NewsCategory {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return domain.NewsTechnology
}

// ExtractTags returns the vocabulary entries contained in text, ignoring case.
// Matching is plain substring containment, so "AI" also hits "maintain".
func ExtractTags(text string) []string {
	lower := strings.ToLower(text)
	out := make([]string, 0)
	for _, tag := range TagVocabulary {
		if strings.Contains(lower, strings.ToLower(tag)) {
			out = append(out, tag)
		}
	}
	return out
}

// Classify categorizes and tags an article from its title and description.
func Classify(title, description string) Classification {
	text := title + " " + description
	return Classification{Category: Categorize(text), Tags: ExtractTags(text)}
}
