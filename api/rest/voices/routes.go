package voices

import (
	"github.com/gin-gonic/gin"
)

// the catalog is public; clone and speech expect an authenticated, rate-limited group
func RegisterRoutes(public, protected *gin.RouterGroup, cloner Cloner, synth Synthesizer, profiles ProfileVoices) {
	public.GET("/voices", ListHandler)

	voices := protected.Group("/voices")
	{
		voices.POST("/clone", CloneHandler(cloner, profiles))
		voices.DELETE("/clone", DeleteCloneHandler(profiles))
		voices.POST("/speech", SpeechHandler(synth))
	}
}
