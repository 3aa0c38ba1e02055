package services

import (
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

type CartService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewCartService(db *gorm.DB, log zerolog.Logger) *CartService {
	return &CartService{db: db, log: log}
}

// AddItem puts quantity of a product into the user's cart, creating the cart
// on first use. An existing line keeps its captured unit price; its total is
// recomputed as quantity times unit price.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperrors.New(apperrors.Validation, "quantity must be at least 1")
	}

	var product models.Product
	err := s.db.Where("id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up product", err)
	}
	if product.Quantity < quantity {
		return nil, apperrors.New(apperrors.InsufficientStock, "product not enough: "+product.Name)
	}

	var cart models.Cart
	err = s.db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up cart", err)
	}

	var item models.CartItem
	err = s.db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
	switch {
	case err == nil:
		item.Quantity += quantity
		item.TotalPrice = float64(item.Quantity) * item.UnitPrice
		if err := s.db.Save(&item).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.Internal, "cannot update cart item", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			CartID:      cart.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Thumbnail:   product.Thumbnail,
			Quantity:    quantity,
			UnitPrice:   product.Price,
			TotalPrice:  float64(quantity) * product.Price,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.Internal, "cannot add cart item", err)
		}
	default:
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up cart item", err)
	}

	return s.GetByUser(userID)
}

type CartItemUpdate struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateItems applies quantity changes per product. Zero or negative quantity
// removes the line; otherwise the line is re-snapshotted against the live
// product price and its total recomputed.
func (s *CartService) UpdateItems(userID string, updates []CartItemUpdate) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "cart not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up cart", err)
	}

	itemsByProduct := make(map[string]*models.CartItem, len(cart.Items))
	for i := range cart.Items {
		itemsByProduct[cart.Items[i].ProductID] = &cart.Items[i]
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			item, exists := itemsByProduct[update.ProductID]

			if update.Quantity <= 0 {
				if exists {
					if err := tx.Delete(item).Error; err != nil {
						return apperrors.Wrap(apperrors.Internal, "cannot remove cart item", err)
					}
				}
				continue
			}

			var product models.Product
			if err := tx.Where("id = ?", update.ProductID).First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.New(apperrors.NotFound, "product not found: "+update.ProductID)
				}
				return apperrors.Wrap(apperrors.Internal, "cannot look up product", err)
			}

			if exists {
				item.Quantity = update.Quantity
				item.UnitPrice = product.Price
				item.TotalPrice = float64(update.Quantity) * product.Price
				if err := tx.Save(item).Error; err != nil {
					return apperrors.Wrap(apperrors.Internal, "cannot update cart item", err)
				}
			} else {
				newItem := models.CartItem{
					CartID:      cart.ID,
					ProductID:   product.ID,
					ProductName: product.Name,
					Thumbnail:   product.Thumbnail,
					Quantity:    update.Quantity,
					UnitPrice:   product.Price,
					TotalPrice:  float64(update.Quantity) * product.Price,
				}
				if err := tx.Create(&newItem).Error; err != nil {
					return apperrors.Wrap(apperrors.Internal, "cannot add cart item", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByUser(userID)
}

func (s *CartService) GetByUser(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "cart not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up cart", err)
	}
	return &cart, nil
}
