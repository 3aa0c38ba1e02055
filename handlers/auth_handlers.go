package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/services"
)

func RegisterHandler(c *gin.Context, users *services.UserService) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	user, err := users.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "registered successfully, please check your email to activate your account",
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func ActivateHandler(c *gin.Context, users *services.UserService) {
	activationToken := c.Query("token")
	if activationToken == "" {
		respondError(c, apperrors.New(apperrors.Validation, "token is required"))
		return
	}

	if err := users.Activate(activationToken); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "account activated successfully",
	})
}

func LoginHandler(c *gin.Context, auth *services.AuthService) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	result, err := auth.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+result.AccessToken)
	c.JSON(http.StatusOK, gin.H{
		"message":      "login successful",
		"id":           result.User.ID,
		"username":     result.User.Username,
		"email":        result.User.Email,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	tok := strings.TrimPrefix(authHeader, "Bearer ")
	if tok == "" || tok == authHeader {
		return "", false
	}
	return tok, true
}

func RefreshTokenHandler(c *gin.Context, auth *services.AuthService) {
	tok, ok := bearerToken(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.Unauthorized, "authorization header missing or invalid"))
		return
	}

	newToken, err := auth.Refresh(tok)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "token refreshed",
		"token":   newToken,
	})
}

func LogoutHandler(c *gin.Context, auth *services.AuthService) {
	tok, ok := bearerToken(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.Unauthorized, "authorization header missing or invalid"))
		return
	}

	if err := auth.Logout(tok); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Authorization", "")
	c.JSON(http.StatusOK, gin.H{
		"message": "logout successful",
	})
}

func ForgotPasswordHandler(c *gin.Context, users *services.UserService) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	if err := users.ForgotPassword(req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "a new password has been sent to your email",
	})
}
