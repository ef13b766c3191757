package affirmations

import (
	"github.com/gin-gonic/gin"
)

// catalog routes are public; generate marks the billed provider flows that need rate limiting
func RegisterRoutes(public, protected *gin.RouterGroup, flows Flows, library Library, generate gin.HandlerFunc) {
	public.GET("/categories", CatalogHandler)

	affirmations := protected.Group("/affirmations")
	{
		affirmations.GET("", ListHandler(library))
		affirmations.GET("/categories", ListCategoriesHandler(library))
		affirmations.GET("/:id", GetHandler(library))
		affirmations.POST("/:id/favorite", ToggleFavoriteHandler(library))

		affirmations.POST("", generate, CreateHandler(flows))
		affirmations.POST("/play-all", generate, PlayAllHandler(flows))
		affirmations.POST("/:id/image", generate, AddImageHandler(flows))
		affirmations.POST("/:id/speak", generate, SpeakHandler(flows))
	}
}
