package credits

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/credits/packs", PacksHandler)

	protected.GET("/credits", SummaryHandler)
	protected.POST("/credits/purchase", PurchaseHandler)
}
