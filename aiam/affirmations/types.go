package affirmations

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles affirmation database operations
type Repository struct {
	db *pgxpool.Pool
}

// voice identifier -> audio URL; entries are only ever added
type AudioURLs map[string]string

// one generated affirmation and its derived assets
type Affirmation struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Text              string    `json:"affirmation"`
	CategoryID        string    `json:"categoryId"`
	CategoryTitle     string    `json:"categoryTitle"`
	ImageURL          *string   `json:"imageUrl"`
	AudioURLs         AudioURLs `json:"audioUrls"`
	IsFavorite        bool      `json:"isFavorite"`
	VoiceCloneCharged bool      `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (a *Affirmation) HasImage() bool {
	return a.ImageURL != nil && *a.ImageURL != ""
}

type CreateParams struct {
	ID       string
	UserID   string
	Text     string
	Category Category
}

type ListFilter struct {
	FavoritesOnly bool
	CategoryID    string
	Limit         int
	Offset        int
}

// a browsable affirmation theme
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
