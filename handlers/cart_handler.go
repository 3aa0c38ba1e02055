package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/services"
)

func AddToCartHandler(c *gin.Context, carts *services.CartService) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.Unauthorized, "authentication required"))
		return
	}

	var req struct {
		ProductID string `json:"productID" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	cart, err := carts.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "item added to cart",
		"cart":    cart,
	})
}

func UpdateCartHandler(c *gin.Context, carts *services.CartService) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.Unauthorized, "authentication required"))
		return
	}

	var req struct {
		Items []services.CartItemUpdate `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	cart, err := carts.UpdateItems(userID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "cart updated",
		"cart":    cart,
	})
}

func GetCartHandler(c *gin.Context, carts *services.CartService) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.Unauthorized, "authentication required"))
		return
	}

	cart, err := carts.GetByUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "cart loaded",
		"cart":    cart,
	})
}
