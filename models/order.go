package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipping  = "SHIPPING"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCompleted = "COMPLETED"

	PaymentStatusUnpaid = "UNPAID"
	PaymentStatusPaid   = "PAID"
)

// orderTransitions is the allowed order-status graph. CANCELLED and COMPLETED
// are terminal.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:  {OrderStatusDelivered},
	OrderStatusDelivered: {OrderStatusCompleted},
	OrderStatusCancelled: {},
	OrderStatusCompleted: {},
}

// CanTransitionOrderStatus reports whether an order may move from -> to.
func CanTransitionOrderStatus(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

func IsPaymentStatus(s string) bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPaid
}

type Order struct {
	ID              string      `gorm:"type:char(36);primaryKey" json:"id"`
	UserID          string      `gorm:"type:char(36);not null;index" json:"userID"`
	User            User        `json:"-"`
	OrderStatus     string      `gorm:"size:20;not null;default:PENDING" json:"orderStatus"`
	PaymentStatus   string      `gorm:"size:20;not null;default:UNPAID" json:"paymentStatus"`
	Note            string      `gorm:"size:512" json:"note"`
	ShippingAddress string      `gorm:"size:255" json:"shippingAddress"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time   `json:"createdAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// TotalAmount is always derived from the frozen line items, never stored, so
// it cannot drift from them.
func (o *Order) TotalAmount() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.TotalPrice
	}
	return total
}
