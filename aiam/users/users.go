package users

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/aiam/server/internal/credits"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

// creates a new user repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// returns the profile for an authenticated identity, creating it with defaults on first sight
func (r *Repository) EnsureProfile(ctx context.Context, userID, email, name, avatarURL string) (*Profile, error) {
	profile, err := scanProfile(r.db.QueryRow(ctx, queryEnsureProfile, userID, email, name, avatarURL))
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	return profile, nil
}

// finds a profile by user ID
func (r *Repository) FindByID(ctx context.Context, userID string) (*Profile, error) {
	profile, err := scanProfile(r.db.QueryRow(ctx, queryFindByID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}

// applies a partial profile update
func (r *Repository) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*Profile, error) {
	row := r.db.QueryRow(ctx, queryUpdateProfile,
		userID,
		req.Name,
		req.AvatarURL,
		req.AgeRange,
		req.Gender,
		req.Ethnicity,
		req.Nationality,
		req.DefaultAspectRatio,
		req.AutoGenerateImages,
	)

	return r.mutated(row, "update profile")
}

// stores the URL of an uploaded reference photo
func (r *Repository) SetReferencePhoto(ctx context.Context, userID string, kind PhotoKind, url string) (*Profile, error) {
	query := queryUpdatePortraitImage
	if kind == PhotoFullBody {
		query = queryUpdateFullBodyImage
	}

	return r.mutated(r.db.QueryRow(ctx, query, userID, url), "set reference photo")
}

// records the provider voice created from the user's sample
func (r *Repository) SetVoiceClone(ctx context.Context, userID, voiceID, voiceName string) (*Profile, error) {
	return r.mutated(r.db.QueryRow(ctx, querySetVoiceClone, userID, voiceID, voiceName), "set voice clone")
}

// forgets the user's voice clone; cached audio already produced is kept
func (r *Repository) ClearVoiceClone(ctx context.Context, userID string) (*Profile, error) {
	return r.mutated(r.db.QueryRow(ctx, queryClearVoiceClone, userID), "clear voice clone")
}

// informational counter, bumped once per created affirmation
func (r *Repository) IncrementSavedCount(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, queryIncrementSavedCount, userID); err != nil {
		return fmt.Errorf("failed to increment saved count: %w", err)
	}

	return nil
}

// credits.Store

func (r *Repository) Balance(ctx context.Context, userID string) (int, error) {
	var balance int

	err := r.db.QueryRow(ctx, queryBalance, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrProfileNotFound
	}

	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}

	return balance, nil
}

func (r *Repository) DebitIfSufficient(ctx context.Context, userID string, amount int) (int, error) {
	var balance int

	err := r.db.QueryRow(ctx, queryDebitIfSufficient, userID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, credits.ErrNoFunds
	}

	if err != nil {
		return 0, fmt.Errorf("failed to debit balance: %w", err)
	}

	return balance, nil
}

func (r *Repository) Credit(ctx context.Context, userID string, amount int) (int, error) {
	var balance int

	if err := r.db.QueryRow(ctx, queryCredit, userID, amount).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to credit balance: %w", err)
	}

	return balance, nil
}

func (r *Repository) mutated(row pgx.Row, op string) (*Profile, error) {
	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	return profile, nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile

	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.AvatarURL,
		&p.PortraitImageURL,
		&p.FullBodyImageURL,
		&p.VoiceCloneID,
		&p.VoiceCloneName,
		&p.Demographics.AgeRange,
		&p.Demographics.Gender,
		&p.Demographics.Ethnicity,
		&p.Demographics.Nationality,
		&p.DefaultAspectRatio,
		&p.AutoGenerateImages,
		&p.Credits,
		&p.SavedCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
