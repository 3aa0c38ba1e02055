package services

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

type OrderService struct {
	db        *gorm.DB
	inventory Inventory
	log       zerolog.Logger
}

func NewOrderService(db *gorm.DB, log zerolog.Logger) *OrderService {
	return &OrderService{db: db, log: log}
}

type CreateOrderInput struct {
	CartItemIDs     []string `json:"cartItemIds" binding:"required"`
	ShippingAddress string   `json:"shippingAddress" binding:"required"`
	Note            string   `json:"note"`
}

// OrderView is the result of order creation and lookups. TotalAmount is
// derived from the frozen items at read time, never stored.
type OrderView struct {
	ID              string             `json:"id"`
	UserID          string             `json:"-"`
	UserEmail       string             `json:"userEmail"`
	OrderStatus     string             `json:"orderStatus"`
	PaymentStatus   string             `json:"paymentStatus"`
	Note            string             `json:"note"`
	ShippingAddress string             `json:"shippingAddress"`
	Items           []models.OrderItem `json:"items"`
	TotalAmount     float64            `json:"totalAmount"`
	CreatedAt       time.Time          `json:"createdAt"`
}

func toOrderView(order *models.Order, email string) *OrderView {
	return &OrderView{
		ID:              order.ID,
		UserID:          order.UserID,
		UserEmail:       email,
		OrderStatus:     order.OrderStatus,
		PaymentStatus:   order.PaymentStatus,
		Note:            order.Note,
		ShippingAddress: order.ShippingAddress,
		Items:           order.Items,
		TotalAmount:     order.TotalAmount(),
		CreatedAt:       order.CreatedAt,
	}
}

// CreateFromCart converts the selected cart lines into a PENDING/UNPAID order
// in a single transaction: stock checks, frozen item snapshots, guarded stock
// decrements, the order insert and the cart-line cleanup either all commit or
// all roll back.
func (s *OrderService) CreateFromCart(userID string, in CreateOrderInput) (*OrderView, error) {
	var order models.Order
	var buyer models.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", userID).First(&buyer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.NotFound, "user not found")
			}
			return apperrors.Wrap(apperrors.Internal, "cannot look up user", err)
		}

		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.NotFound, "cart not found for user "+userID)
			}
			return apperrors.Wrap(apperrors.Internal, "cannot look up cart", err)
		}

		var cartItems []models.CartItem
		if err := tx.Where("id IN ? AND cart_id = ?", in.CartItemIDs, cart.ID).Find(&cartItems).Error; err != nil {
			return apperrors.Wrap(apperrors.Internal, "cannot load cart items", err)
		}
		if len(cartItems) == 0 {
			return apperrors.New(apperrors.NotFound, "cart is empty")
		}
		if len(cartItems) != len(uniqueIDs(in.CartItemIDs)) {
			return apperrors.New(apperrors.NotFound, "some cart items do not belong to this cart")
		}

		order = models.Order{
			UserID:          userID,
			OrderStatus:     models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusUnpaid,
			Note:            in.Note,
			ShippingAddress: in.ShippingAddress,
		}

		consumedIDs := make([]string, 0, len(cartItems))
		for _, cartItem := range cartItems {
			product, err := s.inventory.ReserveStock(tx, cartItem.ProductID, cartItem.Quantity)
			if err != nil {
				return err
			}

			// Snapshot copied verbatim from the cart line, no recompute.
			order.Items = append(order.Items, models.OrderItem{
				ProductID:   cartItem.ProductID,
				ProductName: cartItem.ProductName,
				Thumbnail:   cartItem.Thumbnail,
				Quantity:    cartItem.Quantity,
				UnitPrice:   cartItem.UnitPrice,
				TotalPrice:  cartItem.TotalPrice,
			})

			if err := s.inventory.Decrement(tx, product, cartItem.Quantity); err != nil {
				return err
			}
			consumedIDs = append(consumedIDs, cartItem.ID)
		}

		if err := tx.Create(&order).Error; err != nil {
			return apperrors.Wrap(apperrors.Internal, "cannot save order", err)
		}
		if err := tx.Where("id IN ?", consumedIDs).Delete(&models.CartItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.Internal, "cannot clear consumed cart items", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("orderID", order.ID).Str("userID", userID).Float64("total", order.TotalAmount()).Msg("order created")
	return toOrderView(&order, buyer.Email), nil
}

type UpdateOrderInput struct {
	OrderStatus   *string `json:"orderStatus"`
	PaymentStatus *string `json:"paymentStatus"`
}

// UpdateStatus applies a partial status update. Order status must follow the
// transition graph; payment status accepts any known value so admins can
// override reconciliation.
func (s *OrderService) UpdateStatus(orderID string, in UpdateOrderInput) (*OrderView, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("User").Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up order", err)
	}

	updates := map[string]interface{}{}
	if in.OrderStatus != nil {
		if !models.IsOrderStatus(*in.OrderStatus) {
			return nil, apperrors.New(apperrors.Validation, "unknown order status: "+*in.OrderStatus)
		}
		if !models.CanTransitionOrderStatus(order.OrderStatus, *in.OrderStatus) {
			return nil, apperrors.New(apperrors.Validation,
				"order status cannot change from "+order.OrderStatus+" to "+*in.OrderStatus)
		}
		updates["order_status"] = *in.OrderStatus
		order.OrderStatus = *in.OrderStatus
	}
	if in.PaymentStatus != nil {
		if !models.IsPaymentStatus(*in.PaymentStatus) {
			return nil, apperrors.New(apperrors.Validation, "unknown payment status: "+*in.PaymentStatus)
		}
		updates["payment_status"] = *in.PaymentStatus
		order.PaymentStatus = *in.PaymentStatus
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.Internal, "cannot update order", err)
		}
	}
	return toOrderView(&order, order.User.Email), nil
}

func (s *OrderService) GetByID(orderID string) (*OrderView, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("User").Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up order", err)
	}
	return toOrderView(&order, order.User.Email), nil
}

var orderSortColumns = map[string]string{
	"createdAt":     "created_at",
	"orderStatus":   "order_status",
	"paymentStatus": "payment_status",
	"id":            "id",
}

type OrderListFilter struct {
	OrderStatus   string
	PaymentStatus string
	Page          int
	Size          int
	SortBy        string
	Descending    bool
}

// List returns orders matching the filter. Unknown sort fields fall back to
// createdAt instead of reaching the SQL layer.
func (s *OrderService) List(userID string, filter OrderListFilter) ([]OrderView, error) {
	query := s.db.Model(&models.Order{}).Preload("Items").Preload("User")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if filter.OrderStatus != "" {
		query = query.Where("order_status = ?", filter.OrderStatus)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	column, ok := orderSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	if filter.Descending {
		column += " DESC"
	}
	query = query.Order(column)

	if filter.Size > 0 {
		query = query.Limit(filter.Size).Offset(filter.Page * filter.Size)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot list orders", err)
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, *toOrderView(&orders[i], orders[i].User.Email))
	}
	return views, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
