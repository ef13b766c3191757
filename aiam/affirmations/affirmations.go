package affirmations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAffirmationNotFound = errors.New("affirmation not found")
	ErrImageAlreadySet     = errors.New("affirmation already has an image")
)

// creates a new affirmation repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// inserts a freshly generated affirmation with no assets
func (r *Repository) Create(ctx context.Context, params CreateParams) (*Affirmation, error) {
	row := r.db.QueryRow(ctx, queryCreate,
		params.ID,
		params.UserID,
		params.Text,
		params.Category.ID,
		params.Category.Title,
	)

	a, err := scanAffirmation(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create affirmation: %w", err)
	}

	return a, nil
}

// fetches an affirmation owned by userID
func (r *Repository) Get(ctx context.Context, id, userID string) (*Affirmation, error) {
	a, err := scanAffirmation(r.db.QueryRow(ctx, queryGet, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAffirmationNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get affirmation: %w", err)
	}

	return a, nil
}

// lists a user's affirmations newest first, with the total matching the filter
func (r *Repository) List(ctx context.Context, userID string, filter ListFilter) ([]Affirmation, int, error) {
	var total int

	err := r.db.QueryRow(ctx, queryCount, userID, filter.FavoritesOnly, filter.CategoryID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count affirmations: %w", err)
	}

	rows, err := r.db.Query(ctx, queryList, userID, filter.FavoritesOnly, filter.CategoryID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list affirmations: %w", err)
	}
	defer rows.Close()

	items := []Affirmation{}

	for rows.Next() {
		a, err := scanAffirmation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan affirmation: %w", err)
		}

		items = append(items, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate affirmations: %w", err)
	}

	return items, total, nil
}

// distinct categories the user has generated in
func (r *Repository) ListCategories(ctx context.Context, userID string) ([]Category, error) {
	rows, err := r.db.Query(ctx, queryListCategories, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}

	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// flips the favorite flag; free of charge
func (r *Repository) ToggleFavorite(ctx context.Context, id, userID string) (*Affirmation, error) {
	a, err := scanAffirmation(r.db.QueryRow(ctx, queryToggleFavorite, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAffirmationNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return a, nil
}

// writes the image URL unless one is already present
func (r *Repository) SetImage(ctx context.Context, id, userID, url string) (*Affirmation, error) {
	a, err := scanAffirmation(r.db.QueryRow(ctx, querySetImageIfEmpty, id, userID, url))
	if err == nil {
		return a, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	// distinguish a missing row from an image that is already set
	if _, getErr := r.Get(ctx, id, userID); getErr != nil {
		return nil, getErr
	}

	return nil, ErrImageAlreadySet
}

// returns the cached audio URL for a voice, empty when absent
func (r *Repository) GetAudio(ctx context.Context, id, voiceID string) (string, error) {
	var url *string

	err := r.db.QueryRow(ctx, queryGetAudio, id, voiceID).Scan(&url)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrAffirmationNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to read audio cache: %w", err)
	}

	if url == nil {
		return "", nil
	}

	return *url, nil
}

// stores url for voiceID unless an entry exists; returns the stored (winning) URL
func (r *Repository) PutAudioIfAbsent(ctx context.Context, id, voiceID, url string) (string, error) {
	var stored string

	err := r.db.QueryRow(ctx, queryPutAudioIfAbsent, id, voiceID, url).Scan(&stored)
	if err == nil {
		return stored, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("failed to write audio cache: %w", err)
	}

	existing, getErr := r.GetAudio(ctx, id, voiceID)
	if getErr != nil {
		return "", getErr
	}

	return existing, nil
}

// marks the voice-clone surcharge as taken; false when it already was
func (r *Repository) ClaimVoiceCharge(ctx context.Context, id, userID string) (bool, error) {
	var claimed string

	err := r.db.QueryRow(ctx, queryClaimVoiceCharge, id, userID).Scan(&claimed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to claim voice charge: %w", err)
	}

	return true, nil
}

// undoes ClaimVoiceCharge when the debit did not go through
func (r *Repository) ReleaseVoiceCharge(ctx context.Context, id, userID string) error {
	if _, err := r.db.Exec(ctx, queryReleaseVoiceCharge, id, userID); err != nil {
		return fmt.Errorf("failed to release voice charge: %w", err)
	}

	return nil
}

// removes an affirmation that was never paid for
func (r *Repository) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.db.Exec(ctx, queryDelete, id, userID); err != nil {
		return fmt.Errorf("failed to delete affirmation: %w", err)
	}

	return nil
}

func scanAffirmation(row pgx.Row) (*Affirmation, error) {
	var a Affirmation

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Text,
		&a.CategoryID,
		&a.CategoryTitle,
		&a.ImageURL,
		&a.AudioURLs,
		&a.IsFavorite,
		&a.VoiceCloneCharged,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.AudioURLs == nil {
		a.AudioURLs = AudioURLs{}
	}

	return &a, nil
}
