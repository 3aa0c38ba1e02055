package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/services"
)

func GetUserProfileHandler(c *gin.Context, users *services.UserService) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.Unauthorized, "authentication required"))
		return
	}

	user, err := users.FindByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile loaded",
		"user":    user,
	})
}

func UpdateUserProfileHandler(c *gin.Context, users *services.UserService) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.Unauthorized, "authentication required"))
		return
	}

	var req services.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	user, err := users.UpdateProfile(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated",
		"user":    user,
	})
}

func ChangePasswordHandler(c *gin.Context, users *services.UserService) {
	username := c.GetString("Username")
	if username == "" {
		respondError(c, apperrors.New(apperrors.Unauthorized, "authentication required"))
		return
	}

	var req struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	if err := users.ChangePassword(username, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "password changed",
	})
}

func GetUserListHandler(c *gin.Context, users *services.UserService) {
	list, err := users.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}

	userList := make([]gin.H, 0, len(list))
	for _, user := range list {
		userList = append(userList, gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"isActive": user.IsActive,
			"role":     user.PrimaryRole(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "user list loaded",
		"userList": userList,
	})
}
