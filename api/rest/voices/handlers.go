package voices

import (
	"io"
	"net/http"
	"unicode/utf8"

	"codeberg.org/aiam/server/api/rest/caller"
	"codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/logger"
	"codeberg.org/aiam/server/internal/voice"
	"github.com/gin-gonic/gin"
)

// ListHandler godoc
// @Summary List preset voices
// @Tags voices
// @Produce json
// @Success 200 {object} ListResponse
// @Router /api/v1/voices [get]
func ListHandler(c *gin.Context) {
	c.JSON(http.StatusOK, ListResponse{Voices: voice.Catalog})
}

// CloneHandler godoc
// @Summary Clone the caller's voice
// @Description Accepts a multipart form with an audio "file" (30+ seconds) and an optional "name"
// @Tags voices
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} CloneResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/v1/voices/clone [post]
// @Security BearerAuth
func CloneHandler(cloner Cloner, profiles ProfileVoices) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSampleBytes)

		file, err := c.FormFile("file")
		if err != nil {
			errors.BadRequest(c, "a valid audio file is required", err)
			return
		}

		f, err := file.Open()
		if err != nil {
			errors.BadRequest(c, "could not read the audio file", err)
			return
		}
		defer f.Close()

		sample, err := io.ReadAll(f)
		if err != nil {
			errors.BadRequest(c, "could not read the audio file", err)
			return
		}

		clone, err := cloner.Clone(c.Request.Context(), sample, c.PostForm("name"))
		if err != nil {
			errors.RespondGeneration(c, err)
			return
		}

		if _, err := profiles.SetVoiceClone(c.Request.Context(), sess.UserID, clone.VoiceID, clone.VoiceName); err != nil {
			artifact := CloneResponse{VoiceID: clone.VoiceID, VoiceName: clone.VoiceName}
			errors.RespondGeneration(c, errors.Persistence(errors.OpVoiceCloneFailed, artifact, err))
			return
		}

		logger.Info("voice clone created", "user_id", sess.UserID, "voice_id", clone.VoiceID)

		c.JSON(http.StatusOK, CloneResponse{VoiceID: clone.VoiceID, VoiceName: clone.VoiceName})
	}
}

// DeleteCloneHandler godoc
// @Summary Forget the caller's voice clone
// @Description Audio already produced in the cloned voice stays cached
// @Tags voices
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/v1/voices/clone [delete]
// @Security BearerAuth
func DeleteCloneHandler(profiles ProfileVoices) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		if _, err := profiles.ClearVoiceClone(c.Request.Context(), sess.UserID); err != nil {
			errors.InternalError(c, "failed to remove voice clone", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "voice clone removed"})
	}
}

// SpeechHandler godoc
// @Summary Synthesize speech
// @Description Returns audio/mpeg for text in a preset voice; nothing is cached or charged
// @Tags voices
// @Accept json
// @Produce audio/mpeg
// @Param request body SpeechRequest true "Text and voice"
// @Success 200 {file} binary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/v1/voices/speech [post]
// @Security BearerAuth
func SpeechHandler(synth Synthesizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		var req SpeechRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if utf8.RuneCountInString(req.Text) > maxSpeechChars {
			errors.BadRequest(c, "text is too long to synthesize", nil)
			return
		}

		voiceID := req.VoiceID
		if voiceID == "" {
			voiceID = voice.DefaultVoiceID
		}

		if !voice.IsPreset(voiceID) {
			if voiceID == sess.Profile.VoiceCloneID {
				// clone playback is metered per affirmation
				errors.Forbidden(c, "your personal voice plays through an affirmation")
				return
			}

			errors.RespondGeneration(c, errors.Invalid(errors.OpSpeechSynthesisFailed, "unknown voice"))
			return
		}

		audio, err := synth.Synthesize(c.Request.Context(), req.Text, voiceID)
		if err != nil {
			errors.RespondGeneration(c, err)
			return
		}

		c.Header("X-Voice-Id", voiceID)
		c.Data(http.StatusOK, "audio/mpeg", audio)
	}
}
