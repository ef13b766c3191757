package generate

import (
	"net/http"

	"codeberg.org/aiam/server/api/rest/caller"
	"codeberg.org/aiam/server/internal/credits"
	"codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/imagegen"
	"github.com/gin-gonic/gin"
)

// TextHandler godoc
// @Summary Generate affirmation text
// @Description Generates one affirmation for a category without saving or charging for it
// @Tags generate
// @Accept json
// @Produce json
// @Param request body TextRequest true "Category"
// @Success 200 {object} TextResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/generate/text [post]
// @Security BearerAuth
func TextHandler(text TextGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		affirmation, err := text.Generate(c.Request.Context(), req.Category)
		if err != nil {
			errors.RespondGeneration(c, err)
			return
		}

		c.JSON(http.StatusOK, TextResponse{Affirmation: affirmation})
	}
}

// ImageHandler godoc
// @Summary Generate an image for an affirmation
// @Description Runs prompt synthesis and image generation; reference photos default to the caller's profile.
// @Description Using reference photos costs the personal-image surcharge, taken only when an image comes back.
// @Tags generate
// @Accept json
// @Produce json
// @Param request body ImageRequest true "Image request"
// @Success 200 {object} ImageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 402 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/generate/image [post]
// @Security BearerAuth
func ImageHandler(images ImageGenerator, ledger Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		var req ImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		profile := sess.Profile

		imageReq := imagegen.Request{
			Affirmation: req.Affirmation,
			Category:    req.Category,
			Demographics: imagegen.Demographics{
				AgeRange:    profile.Demographics.AgeRange,
				Gender:      profile.Demographics.Gender,
				Ethnicity:   profile.Demographics.Ethnicity,
				Nationality: profile.Demographics.Nationality,
			},
			ReferencePhotos: imagegen.ReferencePhotos{
				Portrait: profile.PortraitImageURL,
				FullBody: profile.FullBodyImageURL,
			},
			UseUserImages: req.UseUserImages,
			AspectRatio:   profile.AspectRatio(req.AspectRatio),
		}

		if req.UserImages != nil {
			imageReq.ReferencePhotos = imagegen.ReferencePhotos{
				Portrait: req.UserImages.Portrait,
				FullBody: req.UserImages.FullBody,
			}
		}

		if d := req.Demographics; d != nil {
			imageReq.Demographics = imagegen.Demographics{
				AgeRange:    d.AgeRange,
				Gender:      d.Gender,
				Ethnicity:   d.Ethnicity,
				Nationality: d.Nationality,
			}
		}

		ctx := c.Request.Context()

		surcharge := 0
		if imageReq.Personal() {
			surcharge = credits.PersonalImageSurcharge
			calc := credits.Calculation{PersonalImage: surcharge, Total: surcharge}
			if _, err := ledger.Check(ctx, sess.UserID, calc); err != nil {
				errors.RespondGeneration(c, err)
				return
			}
		}

		result, err := images.Generate(ctx, imageReq)
		if err != nil {
			errors.RespondGeneration(c, err)
			return
		}

		if surcharge > 0 {
			if _, err := ledger.ReserveAndDebit(ctx, sess.UserID, surcharge, credits.ReasonPersonalImage); err != nil {
				errors.RespondGeneration(c, err)
				return
			}
		}

		c.JSON(http.StatusOK, ImageResponse{ImageURL: result.URL, Prompt: result.Prompt, Charged: surcharge})
	}
}
