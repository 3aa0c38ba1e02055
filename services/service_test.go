package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

type fakeMailer struct {
	activationTokens []string
	resetPasswords   []string
}

func (m *fakeMailer) SendActivationEmail(to, username, activationToken string) error {
	m.activationTokens = append(m.activationTokens, activationToken)
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(to, username, newPassword string) error {
	m.resetPasswords = append(m.resetPasswords, newPassword)
	return nil
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name, Type: "laptop"}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID, name string, price float64, quantity int) *models.Product {
	t.Helper()
	product := models.Product{
		Name:       name,
		SKU:        "SKU-" + name,
		Price:      price,
		Quantity:   quantity,
		CategoryID: categoryID,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func currentStock(t *testing.T, db *gorm.DB, productID string) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.Where("id = ?", productID).First(&product).Error)
	return product.Quantity
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
