package orchestrator

import (
	"context"
	"errors"

	"codeberg.org/aiam/server/aiam/affirmations"
	"codeberg.org/aiam/server/internal/credits"
	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/logger"
)

// generates, stores and charges a new affirmation, with an optional image
func (o *Orchestrator) CreateAffirmation(ctx context.Context, sess *Session, req CreateRequest) (*CreateResult, error) {
	log := logger.FromContext(ctx).With("user_id", sess.UserID, "draft_id", req.DraftID)

	category, ok := affirmations.LookupCategory(req.Category)
	if !ok {
		return nil, apperrors.Invalid(apperrors.OpGenerationFailed, "unknown category")
	}

	selection := credits.EffectiveSelection(
		credits.Selection{UsePersonalImage: req.UsePersonalImage, UseVoiceClone: req.UseVoiceClone},
		sess.Profile.Availability(),
	)
	cost := credits.ComputeCost(selection)

	token := o.sequencer.Begin(ctx, sess.UserID, req.DraftID)
	defer token.Done()

	if _, err := o.ledger.Check(token.Context(), sess.UserID, cost); err != nil {
		return nil, err
	}

	text, reused := o.pending.Take(sess.UserID, req.RequestID)
	if !reused {
		generated, err := o.text.Generate(token.Context(), category.Title)
		if err != nil {
			if token.Superseded() {
				return nil, apperrors.Superseded(apperrors.OpGenerationFailed)
			}

			return nil, err
		}

		text = generated
	}

	if !token.Commit() {
		log.Info("affirmation discarded, superseded by a newer request")
		return nil, apperrors.Superseded(apperrors.OpGenerationFailed)
	}

	// past this point the request owns the draft; newer requests no longer cancel it
	persistCtx := context.WithoutCancel(ctx)

	aff, err := o.affirmations.Create(persistCtx, affirmations.CreateParams{
		ID:       o.newID(),
		UserID:   sess.UserID,
		Text:     text,
		Category: category,
	})
	if err != nil {
		o.pending.Park(sess.UserID, req.RequestID, text)
		log.Error("failed to save affirmation", "error", err, "retryable", req.RequestID != "")
		return nil, apperrors.Persistence(apperrors.OpPersist, map[string]string{"affirmation": text}, err)
	}

	balance, err := o.ledger.ReserveAndDebit(persistCtx, sess.UserID, cost.Base, credits.ReasonAffirmation)
	if err != nil {
		// an unpaid record must not survive
		if delErr := o.affirmations.Delete(persistCtx, aff.ID, sess.UserID); delErr != nil {
			log.Error("failed to remove unpaid affirmation", "affirmation_id", aff.ID, "error", delErr)
		}

		if apperrors.KindOf(err) == apperrors.KindPersistenceFailure {
			o.pending.Park(sess.UserID, req.RequestID, text)
		}

		return nil, err
	}

	if err := o.profiles.IncrementSavedCount(persistCtx, sess.UserID); err != nil {
		log.Warn("failed to bump saved count", "error", err)
	}

	result := &CreateResult{
		Affirmation: aff,
		Selection:   selection,
		Cost:        cost,
		Charged:     cost.Base,
	}

	generateImage := sess.Profile.AutoGenerateImages
	if req.GenerateImage != nil {
		generateImage = *req.GenerateImage
	}

	if generateImage {
		personal := selection.UsePersonalImage
		result.ImagePending = o.tasks.Go(ctx, "auto-image", func(taskCtx context.Context) error {
			_, charged, _, err := o.attachImage(taskCtx, sess, aff, personal, req.AspectRatio)
			if err != nil {
				// the affirmation stays usable; the image can be added later
				log.Warn("auto image failed, affirmation kept without one", "affirmation_id", aff.ID, "error", err)
				return nil
			}

			log.Info("auto image stored", "affirmation_id", aff.ID, "charged", charged)
			return nil
		})
	}

	result.Credits = credits.Summarize(balance)

	log.Info("affirmation created", "affirmation_id", aff.ID, "charged", result.Charged, "image_pending", result.ImagePending)

	return result, nil
}

// generates, rehosts and stores an image; the personal surcharge is only debited when the image is stored.
// returns the surcharge taken and the balance after it (-1 when unchanged).
func (o *Orchestrator) attachImage(ctx context.Context, sess *Session, aff *affirmations.Affirmation, personal bool, aspectRatio string) (*affirmations.Affirmation, int, int, error) {
	surcharge := 0
	if personal {
		surcharge = credits.PersonalImageSurcharge
	}

	generated, err := o.images.Generate(ctx, imageRequest(sess, aff, personal, aspectRatio))
	if err != nil {
		return nil, 0, -1, err
	}

	url := o.assets.RehostImage(ctx, generated.URL, sess.UserID, aff.ID)

	balance := -1
	if surcharge > 0 {
		balance, err = o.ledger.ReserveAndDebit(ctx, sess.UserID, surcharge, credits.ReasonPersonalImage)
		if err != nil {
			return nil, 0, -1, err
		}
	}

	updated, err := o.affirmations.SetImage(ctx, aff.ID, sess.UserID, url)
	if err != nil {
		o.refund(ctx, sess.UserID, surcharge, credits.ReasonPersonalImage)

		switch {
		case errors.Is(err, affirmations.ErrImageAlreadySet):
			return nil, 0, -1, apperrors.NewGeneration(apperrors.KindConflict, apperrors.OpImageGenerationFailed,
				"this affirmation already has an image", err)
		case errors.Is(err, affirmations.ErrAffirmationNotFound):
			return nil, 0, -1, apperrors.NewGeneration(apperrors.KindNotFound, apperrors.OpImageGenerationFailed,
				"affirmation not found", err)
		}

		return nil, 0, -1, apperrors.Persistence(apperrors.OpPersist, map[string]string{"imageUrl": url}, err)
	}

	return updated, surcharge, balance, nil
}

func (o *Orchestrator) refund(ctx context.Context, userID string, amount int, reason string) {
	if amount <= 0 {
		return
	}

	if _, err := o.ledger.Refund(ctx, userID, amount, reason); err != nil {
		logger.ErrorErr(err, "refund failed", "user_id", userID, "amount", amount, "reason", reason)
	}
}
