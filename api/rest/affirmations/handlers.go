package affirmations

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"codeberg.org/aiam/server/aiam/affirmations"
	"codeberg.org/aiam/server/api/rest/caller"
	"codeberg.org/aiam/server/api/rest/pagination"
	"codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/orchestrator"
	"github.com/gin-gonic/gin"
)

// CatalogHandler godoc
// @Summary List affirmation categories
// @Tags affirmations
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /api/v1/categories [get]
func CatalogHandler(c *gin.Context) {
	c.JSON(http.StatusOK, CategoriesResponse{Categories: affirmations.Categories})
}

// CreateHandler godoc
// @Summary Generate a new affirmation
// @Description Generates, saves and charges an affirmation, with an optional image
// @Tags affirmations
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Generation options"
// @Success 201 {object} orchestrator.CreateResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 402 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/affirmations [post]
// @Security BearerAuth
func CreateHandler(flows Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		result, err := flows.CreateAffirmation(c.Request.Context(), sess, orchestrator.CreateRequest{
			Category:         req.Category,
			UsePersonalImage: req.UsePersonalImage,
			UseVoiceClone:    req.UseVoiceClone,
			GenerateImage:    req.GenerateImage,
			AspectRatio:      req.AspectRatio,
			DraftID:          req.DraftID,
			RequestID:        req.RequestID,
		})
		if err != nil {
			errors.RespondGeneration(c, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

// ListHandler godoc
// @Summary List the caller's affirmations
// @Tags affirmations
// @Produce json
// @Param favorites query bool false "Only favorites"
// @Param category query string false "Category id or title"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} ListResponse
// @Router /api/v1/affirmations [get]
// @Security BearerAuth
func ListHandler(library Library) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		params := pagination.FromQuery(c, defaultPageSize, maxPageSize)

		filter := affirmations.ListFilter{
			FavoritesOnly: c.Query("favorites") == "true",
			Limit:         params.Limit,
			Offset:        params.Offset,
		}

		if key := c.Query("category"); key != "" {
			category, ok := affirmations.LookupCategory(key)
			if !ok {
				errors.BadRequest(c, "unknown category", nil)
				return
			}

			filter.CategoryID = category.ID
		}

		items, total, err := library.List(c.Request.Context(), sess.UserID, filter)
		if err != nil {
			errors.InternalError(c, "failed to list affirmations", err)
			return
		}

		c.JSON(http.StatusOK, ListResponse{
			Affirmations: items,
			Pagination:   pagination.NewMeta(params, total),
		})
	}
}

// ListCategoriesHandler godoc
// @Summary Categories the caller has generated in
// @Tags affirmations
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /api/v1/affirmations/categories [get]
// @Security BearerAuth
func ListCategoriesHandler(library Library) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		categories, err := library.ListCategories(c.Request.Context(), sess.UserID)
		if err != nil {
			errors.InternalError(c, "failed to list categories", err)
			return
		}

		c.JSON(http.StatusOK, CategoriesResponse{Categories: categories})
	}
}

// GetHandler godoc
// @Summary Get one affirmation
// @Tags affirmations
// @Produce json
// @Param id path string true "Affirmation ID"
// @Success 200 {object} affirmations.Affirmation
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/affirmations/{id} [get]
// @Security BearerAuth
func GetHandler(library Library) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		id, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		aff, err := library.Get(c.Request.Context(), id, sess.UserID)
		if stderrors.Is(err, affirmations.ErrAffirmationNotFound) {
			errors.NotFound(c, "affirmation")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to get affirmation", err)
			return
		}

		c.JSON(http.StatusOK, aff)
	}
}

// ToggleFavoriteHandler godoc
// @Summary Toggle the favorite flag
// @Tags affirmations
// @Produce json
// @Param id path string true "Affirmation ID"
// @Success 200 {object} affirmations.Affirmation
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/affirmations/{id}/favorite [post]
// @Security BearerAuth
func ToggleFavoriteHandler(library Library) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		id, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		aff, err := library.ToggleFavorite(c.Request.Context(), id, sess.UserID)
		if stderrors.Is(err, affirmations.ErrAffirmationNotFound) {
			errors.NotFound(c, "affirmation")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to update favorite", err)
			return
		}

		c.JSON(http.StatusOK, aff)
	}
}

// AddImageHandler godoc
// @Summary Add an image to an existing affirmation
// @Tags affirmations
// @Accept json
// @Produce json
// @Param id path string true "Affirmation ID"
// @Param request body ImageRequest true "Image options"
// @Success 200 {object} orchestrator.AddImageResult
// @Failure 402 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/v1/affirmations/{id}/image [post]
// @Security BearerAuth
func AddImageHandler(flows Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		id, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		var req ImageRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		result, err := flows.AddImage(c.Request.Context(), sess, id, orchestrator.AddImageRequest{
			UsePersonalImage: req.UsePersonalImage,
			AspectRatio:      req.AspectRatio,
		})
		if err != nil {
			errors.RespondGeneration(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// SpeakHandler godoc
// @Summary Speak an affirmation
// @Description Cached audio comes back as JSON with its URL; otherwise the freshly synthesized audio/mpeg is streamed
// @Tags affirmations
// @Accept json
// @Produce json,audio/mpeg
// @Param id path string true "Affirmation ID"
// @Param request body SpeakRequest false "Voice"
// @Success 200 {object} SpeakResponse
// @Failure 402 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/v1/affirmations/{id}/speak [post]
// @Security BearerAuth
func SpeakHandler(flows Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		id, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		var req SpeakRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		result, err := flows.Speak(c.Request.Context(), sess, id, req.VoiceID)
		if err != nil {
			errors.RespondGeneration(c, err)
			return
		}

		if result.Cached {
			c.JSON(http.StatusOK, SpeakResponse{
				VoiceID:  result.VoiceID,
				AudioURL: result.AudioURL,
				Cached:   true,
				Charged:  result.Charged,
			})
			return
		}

		c.Header("X-Voice-Id", result.VoiceID)
		c.Header("X-Aiams-Charged", strconv.Itoa(result.Charged))
		c.Data(http.StatusOK, result.ContentType, result.Audio)
	}
}

// PlayAllHandler godoc
// @Summary Resolve audio for the whole library
// @Tags affirmations
// @Accept json
// @Produce json
// @Param request body PlayAllRequest false "Voice and filter"
// @Success 200 {object} PlayAllResponse
// @Router /api/v1/affirmations/play-all [post]
// @Security BearerAuth
func PlayAllHandler(flows Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		var req PlayAllRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		voiceID, items, err := flows.PlayAll(c.Request.Context(), sess, orchestrator.PlayAllRequest{
			VoiceID:       req.VoiceID,
			FavoritesOnly: req.FavoritesOnly,
		})
		if err != nil {
			errors.RespondGeneration(c, err)
			return
		}

		c.JSON(http.StatusOK, PlayAllResponse{VoiceID: voiceID, Items: items})
	}
}

// an empty body means all defaults
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}

	return c.ShouldBindJSON(dst)
}
