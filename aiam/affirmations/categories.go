package affirmations

import "strings"

var Categories = []Category{
	{ID: "housing-home", Title: "Housing & Home"},
	{ID: "finance-wealth", Title: "Finance & Wealth"},
	{ID: "health-wellbeing", Title: "Health & Wellbeing"},
	{ID: "travel-adventure", Title: "Travel & Adventure"},
	{ID: "relationships-love", Title: "Relationships & Love"},
	{ID: "creativity-expression", Title: "Creativity & Expression"},
	{ID: "career-employment", Title: "Career & Employment"},
	{ID: "education-knowledge", Title: "Education & Knowledge"},
	{ID: "spirituality-peace", Title: "Spirituality & Inner Peace"},
	{ID: "personal-growth", Title: "Personal Growth & Development"},
	{ID: "self-confidence", Title: "Self-Confidence & Empowerment"},
	{ID: "joy-happiness", Title: "Joy & Happiness"},
}

// resolves a category by id or, failing that, by title (case-insensitive)
func LookupCategory(key string) (Category, bool) {
	key = strings.TrimSpace(key)

	for _, c := range Categories {
		if c.ID == key {
			return c, true
		}
	}

	for _, c := range Categories {
		if strings.EqualFold(c.Title, key) {
			return c, true
		}
	}

	return Category{}, false
}
