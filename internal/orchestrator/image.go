package orchestrator

import (
	"context"

	"codeberg.org/aiam/server/internal/credits"
	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/logger"
)

// generates the image for an existing affirmation that has none yet
func (o *Orchestrator) AddImage(ctx context.Context, sess *Session, affirmationID string, req AddImageRequest) (*AddImageResult, error) {
	aff, err := o.owned(ctx, sess, affirmationID, apperrors.OpImageGenerationFailed)
	if err != nil {
		return nil, err
	}

	if aff.HasImage() {
		return nil, apperrors.NewGeneration(apperrors.KindConflict, apperrors.OpImageGenerationFailed,
			"this affirmation already has an image", nil)
	}

	selection := credits.EffectiveSelection(
		credits.Selection{UsePersonalImage: req.UsePersonalImage},
		sess.Profile.Availability(),
	)

	if selection.UsePersonalImage {
		surcharge := credits.Calculation{PersonalImage: credits.PersonalImageSurcharge, Total: credits.PersonalImageSurcharge}
		if _, err := o.ledger.Check(ctx, sess.UserID, surcharge); err != nil {
			return nil, err
		}
	}

	updated, charged, balance, err := o.attachImage(ctx, sess, aff, selection.UsePersonalImage, req.AspectRatio)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("image added", "user_id", sess.UserID, "affirmation_id", aff.ID, "charged", charged)

	return &AddImageResult{
		Affirmation: updated,
		Charged:     charged,
		Credits:     o.summary(ctx, sess.UserID, balance),
	}, nil
}
