package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/services"
)

func isValidImageExtension(file *multipart.FileHeader) bool {
	allowExtensions := []string{".jpg", ".jpeg", ".png"}
	fileExt := strings.ToLower(filepath.Ext(file.Filename))
	for _, allowExt := range allowExtensions {
		if fileExt == allowExt {
			return true
		}
	}
	return false
}

func makeUniqueFileName(file *multipart.FileHeader) string {
	fileExt := filepath.Ext(file.Filename)
	fileBase := strings.TrimSuffix(file.Filename, fileExt)
	return fmt.Sprintf("%s_%d%s", fileBase, time.Now().UnixNano(), fileExt)
}

func UploadImageHandler(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind image file", err))
		return
	}

	if !isValidImageExtension(file) {
		respondError(c, apperrors.New(apperrors.Validation, "image must be jpg, jpeg or png"))
		return
	}

	uploadsDir := "./uploads"
	if _, err := os.Stat(uploadsDir); os.IsNotExist(err) {
		if err := os.Mkdir(uploadsDir, 0755); err != nil {
			respondError(c, apperrors.Wrap(apperrors.Internal, "cannot create uploads directory", err))
			return
		}
	}

	imageName := makeUniqueFileName(file)
	filePath := filepath.Join(uploadsDir, imageName)
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Internal, "cannot save image", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "image uploaded",
		"imagePath": "/" + filepath.ToSlash(filePath),
	})
}

func CreateProductHandler(c *gin.Context, products *services.ProductService) {
	var req services.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	product, err := products.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "product created",
		"product": product,
	})
}

func UpdateProductHandler(c *gin.Context, products *services.ProductService) {
	var req services.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	product, err := products.Update(c.Param("productID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "product updated",
		"product": product,
	})
}

func DeleteProductHandler(c *gin.Context, products *services.ProductService) {
	if err := products.Delete(c.Param("productID")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "product deleted",
	})
}

func CreateCategoryHandler(c *gin.Context, categories *services.CategoryService) {
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	category, err := categories.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "category created",
		"category": category,
	})
}

func UpdateCategoryHandler(c *gin.Context, categories *services.CategoryService) {
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, "cannot bind request data", err))
		return
	}

	category, err := categories.Update(c.Param("categoryID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "category updated",
		"category": category,
	})
}

func DeleteCategoryHandler(c *gin.Context, categories *services.CategoryService) {
	if err := categories.Delete(c.Param("categoryID")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "category deleted",
	})
}

func statisticsWindow(c *gin.Context) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	start, err := time.ParseInLocation(layout, c.Query("startDate"), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.New(apperrors.Validation, "startDate must be formatted as 2006-01-02")
	}
	end, err := time.ParseInLocation(layout, c.Query("endDate"), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.New(apperrors.Validation, "endDate must be formatted as 2006-01-02")
	}
	return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func GetTopSellingProductsHandler(c *gin.Context, statistics *services.StatisticsService) {
	start, end, err := statisticsWindow(c)
	if err != nil {
		respondError(c, err)
		return
	}

	sales, err := statistics.TopSellingProducts(start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "top selling products loaded",
		"productList": sales,
	})
}

func GetRevenueByDateHandler(c *gin.Context, statistics *services.StatisticsService) {
	day, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		respondError(c, apperrors.New(apperrors.Validation, "date must be formatted as 2006-01-02"))
		return
	}

	revenue, err := statistics.RevenueByDate(day)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "revenue loaded",
		"revenue": revenue,
	})
}

func GetRevenueByPeriodHandler(c *gin.Context, statistics *services.StatisticsService) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondError(c, apperrors.New(apperrors.Validation, "year must be a number"))
		return
	}
	value, err := strconv.Atoi(c.DefaultQuery("value", "1"))
	if err != nil {
		respondError(c, apperrors.New(apperrors.Validation, "value must be a number"))
		return
	}

	revenue, err := statistics.RevenueByPeriod(c.Query("period"), year, value)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "revenue loaded",
		"revenue": revenue,
	})
}
