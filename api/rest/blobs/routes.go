package blobs

import (
	"github.com/gin-gonic/gin"
)

// public so stored URLs work in img and audio tags
func RegisterRoutes(router *gin.RouterGroup, store Getter) {
	router.GET("/blobs/*key", Handler(store))
}
