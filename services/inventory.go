package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

// Inventory performs the stock check and decrement of order placement. Both
// calls must run inside the order-creation transaction; on their own they
// guarantee nothing.
type Inventory struct{}

// ReserveStock loads the product and verifies it can cover the requested
// quantity. It is a pure check; the decrement is a separate guarded write.
func (Inventory) ReserveStock(tx *gorm.DB, productID string, quantity int) (*models.Product, error) {
	var product models.Product
	err := tx.Where("id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up product stock", err)
	}
	if product.Quantity < quantity {
		return nil, apperrors.New(apperrors.InsufficientStock, "product not enough: "+product.Name)
	}
	return &product, nil
}

// Decrement subtracts quantity with a conditional update guarded on the
// current stock, so two concurrent orders can never jointly oversell: the
// losing transaction affects zero rows and aborts.
func (Inventory) Decrement(tx *gorm.DB, product *models.Product, quantity int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", product.ID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return apperrors.Wrap(apperrors.Internal, "cannot update product stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.InsufficientStock, "product not enough: "+product.Name)
	}
	return nil
}
