package users

import (
	"github.com/gin-gonic/gin"
)

// the group must carry auth and the caller session
func RegisterRoutes(rg *gin.RouterGroup, profiles ProfileWriter, photos PhotoStore) {
	me := rg.Group("/users/me")
	{
		me.GET("", GetMe)
		me.PUT("", UpdateMe(profiles))
		me.POST("/photos/:kind", UploadPhoto(profiles, photos))
	}
}
