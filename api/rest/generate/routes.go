package generate

import (
	"github.com/gin-gonic/gin"
)

// registers provider passthrough routes; the group must already carry auth, session and rate limiting
func RegisterRoutes(router *gin.RouterGroup, text TextGenerator, images ImageGenerator, ledger Ledger) {
	generate := router.Group("/generate")
	{
		generate.POST("/text", TextHandler(text))
		generate.POST("/image", ImageHandler(images, ledger))
	}
}
