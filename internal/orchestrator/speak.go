package orchestrator

import (
	"context"
	"errors"
	"time"

	"codeberg.org/aiam/server/aiam/affirmations"
	"codeberg.org/aiam/server/internal/credits"
	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/logger"
	"codeberg.org/aiam/server/internal/rehost"
	"codeberg.org/aiam/server/internal/voice"
)

// the voice a request resolves to: explicit choice, else the user's clone, else the default preset
func ResolveVoice(sess *Session, requested string) (string, error) {
	p := sess.Profile

	switch {
	case requested == "" && p.HasVoiceClone():
		return p.VoiceCloneID, nil
	case requested == "":
		return voice.DefaultVoiceID, nil
	case voice.IsPreset(requested):
		return requested, nil
	case p.HasVoiceClone() && requested == p.VoiceCloneID:
		return requested, nil
	}

	return "", apperrors.Invalid(apperrors.OpSpeechSynthesisFailed, "unknown voice")
}

func isCloneVoice(sess *Session, voiceID string) bool {
	return sess.Profile.HasVoiceClone() && voiceID == sess.Profile.VoiceCloneID && !voice.IsPreset(voiceID)
}

// returns cached audio for (affirmation, voice) or synthesizes it; new audio is uploaded in the background
func (o *Orchestrator) Speak(ctx context.Context, sess *Session, affirmationID, requestedVoice string) (*SpeakResult, error) {
	voiceID, err := ResolveVoice(sess, requestedVoice)
	if err != nil {
		return nil, err
	}

	aff, err := o.owned(ctx, sess, affirmationID, apperrors.OpSpeechSynthesisFailed)
	if err != nil {
		return nil, err
	}

	if url, ok := o.cachedAudio(ctx, aff, voiceID); ok {
		return &SpeakResult{VoiceID: voiceID, AudioURL: url, Cached: true}, nil
	}

	chargeClone := isCloneVoice(sess, voiceID) && !aff.VoiceCloneCharged
	if chargeClone {
		calc := credits.Calculation{VoiceClone: credits.VoiceCloneSurcharge, Total: credits.VoiceCloneSurcharge}
		if _, err := o.ledger.Check(ctx, sess.UserID, calc); err != nil {
			return nil, err
		}
	}

	audio, err := o.synthesize(ctx, aff, voiceID)
	if err != nil {
		return nil, err
	}

	charged := 0
	if chargeClone {
		charged, err = o.chargeVoiceClone(ctx, sess, aff)
		if err != nil {
			return nil, err
		}
	}

	// cached only once paid for, so an unpaid render never becomes a free replay
	userID := sess.UserID
	o.tasks.Go(ctx, "audio-cache-fill", func(taskCtx context.Context) error {
		_, err := o.storeAudio(taskCtx, userID, aff.ID, voiceID, audio)
		return err
	})

	return &SpeakResult{VoiceID: voiceID, Audio: audio, ContentType: audioContentType, Charged: charged}, nil
}

// resolves audio URLs for a whole library in one voice; failures are reported per item
func (o *Orchestrator) PlayAll(ctx context.Context, sess *Session, req PlayAllRequest) (string, []PlayItem, error) {
	voiceID, err := ResolveVoice(sess, req.VoiceID)
	if err != nil {
		return "", nil, err
	}

	items, _, err := o.affirmations.List(ctx, sess.UserID, affirmations.ListFilter{
		FavoritesOnly: req.FavoritesOnly,
		Limit:         playAllLimit,
	})
	if err != nil {
		return "", nil, apperrors.Persistence(apperrors.OpSpeechSynthesisFailed, nil, err)
	}

	playlist := make([]PlayItem, 0, len(items))

	for i := range items {
		aff := &items[i]
		item := PlayItem{AffirmationID: aff.ID, Text: aff.Text}

		url, cached, err := o.audioURL(ctx, sess, aff, voiceID)
		switch {
		case err != nil && apperrors.KindOf(err) == apperrors.KindInsufficientCredits:
			// no point continuing once the balance is gone
			item.Error = apperrors.CodeInsufficientCredits
			playlist = append(playlist, item)
			return voiceID, playlist, nil
		case err != nil:
			item.Error = apperrors.OpSpeechSynthesisFailed
		default:
			item.AudioURL = url
			item.Cached = cached
		}

		playlist = append(playlist, item)
	}

	return voiceID, playlist, nil
}

// cache lookup, or synchronous synthesize + upload + cache put
func (o *Orchestrator) audioURL(ctx context.Context, sess *Session, aff *affirmations.Affirmation, voiceID string) (string, bool, error) {
	if url, ok := o.cachedAudio(ctx, aff, voiceID); ok {
		return url, true, nil
	}

	chargeClone := isCloneVoice(sess, voiceID) && !aff.VoiceCloneCharged
	if chargeClone {
		calc := credits.Calculation{VoiceClone: credits.VoiceCloneSurcharge, Total: credits.VoiceCloneSurcharge}
		if _, err := o.ledger.Check(ctx, sess.UserID, calc); err != nil {
			return "", false, err
		}
	}

	audio, err := o.synthesize(ctx, aff, voiceID)
	if err != nil {
		return "", false, err
	}

	if chargeClone {
		if _, err := o.chargeVoiceClone(ctx, sess, aff); err != nil {
			return "", false, err
		}
	}

	url, err := o.storeAudio(ctx, sess.UserID, aff.ID, voiceID, audio)
	if err != nil {
		return "", false, err
	}

	return url, false, nil
}

func (o *Orchestrator) cachedAudio(ctx context.Context, aff *affirmations.Affirmation, voiceID string) (string, bool) {
	if url := aff.AudioURLs[voiceID]; url != "" {
		return url, true
	}

	url, err := o.audio.Get(ctx, aff.ID, voiceID)
	if err != nil {
		logger.WarnErr(err, "audio cache lookup failed", "affirmation_id", aff.ID)
		return "", false
	}

	return url, url != ""
}

// synthesizes once per (affirmation, voice) across concurrent Speak and PlayAll callers
func (o *Orchestrator) synthesize(ctx context.Context, aff *affirmations.Affirmation, voiceID string) ([]byte, error) {
	v, err, _ := o.synthesis.Do(aff.ID+":"+voiceID, func() (any, error) {
		// shared by every waiter, so one caller going away must not cancel it
		return o.speech.Synthesize(context.WithoutCancel(ctx), aff.Text, voiceID)
	})
	if err != nil {
		return nil, err
	}

	return v.([]byte), nil
}

// uploads audio and records it in the cache; returns the URL that won
func (o *Orchestrator) storeAudio(ctx context.Context, userID, affirmationID, voiceID string, audio []byte) (string, error) {
	url, err := o.assets.StoreBytes(ctx, rehost.AudioPath(userID, affirmationID, voiceID, time.Now()), audio, audioContentType)
	if err != nil {
		return "", apperrors.Persistence(apperrors.OpPersist, nil, err)
	}

	winner, err := o.audio.Put(ctx, affirmationID, voiceID, url)
	if err != nil {
		return "", apperrors.Persistence(apperrors.OpPersist, map[string]string{"audioUrl": url}, err)
	}

	return winner, nil
}

// debits the clone surcharge once per affirmation; the claim flag makes concurrent callers pay at most once
func (o *Orchestrator) chargeVoiceClone(ctx context.Context, sess *Session, aff *affirmations.Affirmation) (int, error) {
	claimed, err := o.affirmations.ClaimVoiceCharge(ctx, aff.ID, sess.UserID)
	if err != nil {
		return 0, apperrors.Persistence(apperrors.OpCreditDebit, nil, err)
	}

	if !claimed {
		return 0, nil
	}

	if _, err := o.ledger.ReserveAndDebit(ctx, sess.UserID, credits.VoiceCloneSurcharge, credits.ReasonVoiceClone); err != nil {
		if relErr := o.affirmations.ReleaseVoiceCharge(context.WithoutCancel(ctx), aff.ID, sess.UserID); relErr != nil && !errors.Is(relErr, context.Canceled) {
			logger.ErrorErr(relErr, "failed to release voice charge claim", "affirmation_id", aff.ID)
		}

		return 0, err
	}

	aff.VoiceCloneCharged = true

	return credits.VoiceCloneSurcharge, nil
}
