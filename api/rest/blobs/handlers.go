package blobs

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"codeberg.org/aiam/server/internal/blobstore"
	"codeberg.org/aiam/server/internal/errors"
	"github.com/gin-gonic/gin"
)

type Getter interface {
	Get(ctx context.Context, key string) (*blobstore.Object, error)
}

// Handler godoc
// @Summary Serve a stored asset
// @Tags blobs
// @Produce octet-stream
// @Param key path string true "Object key"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/blobs/{key} [get]
func Handler(store Getter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		if key == "" || strings.Contains(key, "..") {
			errors.NotFound(c, "object")
			return
		}

		obj, err := store.Get(c.Request.Context(), key)
		if stderrors.Is(err, blobstore.ErrObjectNotFound) {
			errors.NotFound(c, "object")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to read object", err)
			return
		}

		contentType := obj.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		// keys are never overwritten with different content
		c.Header("Cache-Control", "public, max-age=31536000, immutable")
		c.Data(http.StatusOK, contentType, obj.Data)
	}
}
