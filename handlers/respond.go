package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
)

// respondError translates a service error into the structured error shape
// every endpoint uses: a stable machine-readable code plus a human message.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{
		"code":    apperrors.KindOf(err),
		"message": apperrors.Message(err),
	})
}

func currentUserID(c *gin.Context) (string, bool) {
	userID, ok := c.Get("UserID")
	if !ok {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}
