package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/services"
)

func GetProductListHandler(c *gin.Context, products *services.ProductService) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if size > 100 {
		size = 100
	}

	list, err := products.List(services.ProductListFilter{
		Name:       c.Query("name"),
		CategoryID: c.Query("categoryID"),
		Page:       page,
		Size:       size,
		Descending: c.DefaultQuery("direction", "asc") == "desc",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "product list loaded",
		"productList": list,
	})
}

func GetProductDataHandler(c *gin.Context, products *services.ProductService) {
	product, err := products.GetByID(c.Param("productID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "product loaded",
		"product": product,
	})
}

func GetCategoryListHandler(c *gin.Context, categories *services.CategoryService) {
	list, err := categories.List()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "category list loaded",
		"categoryList": list,
	})
}

func GetCategoriesByTypeHandler(c *gin.Context, categories *services.CategoryService) {
	categoryType := c.Param("type")
	if categoryType == "" {
		respondError(c, apperrors.New(apperrors.Validation, "category type is required"))
		return
	}

	list, err := categories.FindByType(categoryType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "category list loaded",
		"categoryList": list,
	})
}
