package router

import "github.com/gin-gonic/gin"

// Module mounts the routes of one resource. pub is the public /api group,
// authed is the same prefix behind the auth middleware.
type Module interface {
	Mount(pub, authed *gin.RouterGroup)
}

// MountAll 依次挂载所有模块
func MountAll(pub, authed *gin.RouterGroup, mods ...Module) {
	for _, m := range mods {
		m.Mount(pub, authed)
	}
}
