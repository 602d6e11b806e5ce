package controllers

import "github.com/gin-gonic/gin"

// currentUserID reads the authenticated user id set by the auth
// middleware. Zero means unauthenticated.
func currentUserID(c *gin.Context) uint {
	v, ok := c.Get("user_id")
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}
