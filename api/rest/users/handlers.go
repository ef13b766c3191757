package users

import (
	"io"
	"net/http"

	"codeberg.org/aiam/server/aiam/users"
	"codeberg.org/aiam/server/api/rest/caller"
	"codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// GetMe godoc
// @Summary Get the caller's profile
// @Description Creates the profile with the starting balance on first call
// @Tags users
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/users/me [get]
// @Security BearerAuth
func GetMe(c *gin.Context) {
	sess, ok := caller.Require(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, MeResponse{Profile: sess.Profile, Credits: sess.Profile.Summary()})
}

// UpdateMe godoc
// @Summary Update the caller's profile
// @Description Partial update; omitted fields keep their value
// @Tags users
// @Accept json
// @Produce json
// @Param request body users.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} MeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/users/me [put]
// @Security BearerAuth
func UpdateMe(profiles ProfileWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		var req users.UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		profile, err := profiles.UpdateProfile(c.Request.Context(), sess.UserID, req)
		if err != nil {
			errors.InternalError(c, "failed to update profile", err)
			return
		}

		c.JSON(http.StatusOK, MeResponse{Profile: profile, Credits: profile.Summary()})
	}
}

// UploadPhoto godoc
// @Summary Upload a reference photo
// @Description Multipart "file" (jpeg, png or webp); kind is portrait or full-body
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param kind path string true "portrait or full-body"
// @Success 200 {object} MeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/users/me/photos/{kind} [post]
// @Security BearerAuth
func UploadPhoto(profiles ProfileWriter, photos PhotoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := caller.Require(c)
		if !ok {
			return
		}

		kind := c.Param("kind")
		if !users.IsPhotoKind(kind) {
			errors.BadRequest(c, "photo kind must be portrait or full-body", nil)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes)

		file, err := c.FormFile("file")
		if err != nil {
			errors.BadRequest(c, "a photo file is required", err)
			return
		}

		f, err := file.Open()
		if err != nil {
			errors.BadRequest(c, "could not read the photo", err)
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			errors.BadRequest(c, "could not read the photo", err)
			return
		}

		contentType := http.DetectContentType(data)
		if !photoTypes[contentType] {
			errors.BadRequest(c, "photos must be jpeg, png or webp", nil)
			return
		}

		url, err := photos.StoreProfilePhoto(c.Request.Context(), sess.UserID, kind, data, contentType)
		if err != nil {
			errors.InternalError(c, "failed to store photo", err)
			return
		}

		profile, err := profiles.SetReferencePhoto(c.Request.Context(), sess.UserID, users.PhotoKind(kind), url)
		if err != nil {
			errors.InternalError(c, "failed to save photo", err)
			return
		}

		logger.Info("reference photo updated", "user_id", sess.UserID, "kind", kind)

		c.JSON(http.StatusOK, MeResponse{Profile: profile, Credits: profile.Summary()})
	}
}
