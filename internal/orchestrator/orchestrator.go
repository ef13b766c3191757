package orchestrator

import (
	"context"
	"errors"

	"codeberg.org/aiam/server/aiam/affirmations"
	"codeberg.org/aiam/server/internal/credits"
	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/imagegen"
	"codeberg.org/aiam/server/internal/logger"
	"github.com/google/uuid"
)

func New(deps Dependencies) *Orchestrator {
	return &Orchestrator{
		affirmations: deps.Affirmations,
		profiles:     deps.Profiles,
		ledger:       deps.Ledger,
		text:         deps.Text,
		images:       deps.Images,
		speech:       deps.Speech,
		assets:       deps.Assets,
		audio:        deps.AudioCache,
		tasks:        deps.Tasks,
		sequencer:    NewSequencer(),
		pending:      NewPendingTexts(pendingTextTTL),
		newID:        uuid.NewString,
	}
}

// loads an owned affirmation, mapping absence to a not-found generation error
func (o *Orchestrator) owned(ctx context.Context, sess *Session, id, op string) (*affirmations.Affirmation, error) {
	aff, err := o.affirmations.Get(ctx, id, sess.UserID)
	if errors.Is(err, affirmations.ErrAffirmationNotFound) {
		return nil, apperrors.NewGeneration(apperrors.KindNotFound, op, "affirmation not found", err)
	}

	if err != nil {
		return nil, apperrors.Persistence(op, nil, err)
	}

	return aff, nil
}

func (o *Orchestrator) summary(ctx context.Context, userID string, balance int) credits.Summary {
	if balance < 0 {
		b, err := o.ledger.Balance(ctx, userID)
		if err != nil {
			logger.WarnErr(err, "failed to read balance for summary", "user_id", userID)
			b = 0
		}
		balance = b
	}

	return credits.Summarize(balance)
}

// the image request for an affirmation, personalized only when selected and available
func imageRequest(sess *Session, aff *affirmations.Affirmation, personal bool, aspectRatio string) imagegen.Request {
	p := sess.Profile

	return imagegen.Request{
		Affirmation: aff.Text,
		Category:    aff.CategoryTitle,
		Demographics: imagegen.Demographics{
			AgeRange:    p.Demographics.AgeRange,
			Gender:      p.Demographics.Gender,
			Ethnicity:   p.Demographics.Ethnicity,
			Nationality: p.Demographics.Nationality,
		},
		ReferencePhotos: imagegen.ReferencePhotos{
			Portrait: p.PortraitImageURL,
			FullBody: p.FullBodyImageURL,
		},
		UseUserImages: personal,
		AspectRatio:   p.AspectRatio(aspectRatio),
	}
}
