package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/services"
)

func CreateOrderHandler(c *gin.Context, orders *services.OrderService) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.Unauthorized, "authentication required"))
		return
	}

	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	order, err := orders.CreateFromCart(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "order created",
		"order":   order,
	})
}

func orderListFilter(c *gin.Context) services.OrderListFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if size > 50 {
		size = 50
	}
	return services.OrderListFilter{
		OrderStatus:   c.Query("orderStatus"),
		PaymentStatus: c.Query("paymentStatus"),
		Page:          page,
		Size:          size,
		SortBy:        c.DefaultQuery("sortBy", "createdAt"),
		Descending:    c.DefaultQuery("direction", "desc") != "asc",
	}
}

func GetMyOrdersHandler(c *gin.Context, orders *services.OrderService) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.Unauthorized, "authentication required"))
		return
	}

	list, err := orders.List(userID, orderListFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "order list loaded",
		"orderList": list,
	})
}

func GetOrderHandler(c *gin.Context, orders *services.OrderService) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.Unauthorized, "authentication required"))
		return
	}

	order, err := orders.GetByID(c.Param("orderID"))
	if err != nil {
		respondError(c, err)
		return
	}

	// Owners see their own orders; admins see all of them.
	if c.GetString("Role") != models.RoleAdmin && order.UserID != userID {
		respondError(c, apperrors.New(apperrors.NotFound, "order not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "order loaded",
		"order":   order,
	})
}

func GetAllOrdersHandler(c *gin.Context, orders *services.OrderService) {
	list, err := orders.List("", orderListFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "order list loaded",
		"orderList": list,
	})
}

func UpdateOrderStatusHandler(c *gin.Context, orders *services.OrderService) {
	var req services.UpdateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	order, err := orders.UpdateStatus(c.Param("orderID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "order updated",
		"order":   order,
	})
}
