package credits

import (
	"net/http"

	"codeberg.org/aiam/server/api/rest/caller"
	"codeberg.org/aiam/server/internal/credits"
	"codeberg.org/aiam/server/internal/errors"
	"github.com/gin-gonic/gin"
)

// SummaryHandler godoc
// @Summary Get the caller's aiam balance
// @Tags credits
// @Produce json
// @Success 200 {object} credits.Summary
// @Router /api/v1/credits [get]
// @Security BearerAuth
func SummaryHandler(c *gin.Context) {
	sess, ok := caller.Require(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, sess.Profile.Summary())
}

// PacksHandler godoc
// @Summary List aiam packs
// @Tags credits
// @Produce json
// @Success 200 {object} PacksResponse
// @Router /api/v1/credits/packs [get]
func PacksHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PacksResponse{Packs: credits.Packs})
}

// PurchaseHandler godoc
// @Summary Purchase a pack
// @Description Payments are not available; always answers invalid_operation
// @Tags credits
// @Accept json
// @Produce json
// @Param request body PurchaseRequest true "Pack"
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/credits/purchase [post]
// @Security BearerAuth
func PurchaseHandler(c *gin.Context) {
	if _, ok := caller.Require(c); !ok {
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.ValidationError(c, err)
		return
	}

	errors.InvalidOperation(c, "purchases are not available yet")
}
