package jobs

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

// Ledger columns, matching the bank-export sheet layout.
const (
	minLedgerColumns = 8
	referenceColumn  = 5
	amountColumn     = 7

	amountTolerance = 0.001
)

// LedgerSource yields the rows of the external payment ledger.
type LedgerSource interface {
	FetchRows(ctx context.Context) ([][]string, error)
}

// PaymentReconciler matches ledger rows against unpaid orders by the order id
// embedded in the payment reference and the paid amount, and marks matches
// PAID. The whole job is idempotent: re-processing a row after its order is
// already PAID is a no-op.
type PaymentReconciler struct {
	db     *gorm.DB
	source LedgerSource
	log    zerolog.Logger
}

func NewPaymentReconciler(db *gorm.DB, source LedgerSource, log zerolog.Logger) *PaymentReconciler {
	return &PaymentReconciler{db: db, source: source, log: log}
}

// Schedule registers the job on a 30 second interval. Panics and errors in a
// run are contained to that tick.
func (r *PaymentReconciler) Schedule(c *cron.Cron) error {
	_, err := c.AddFunc("@every 30s", func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error().Interface("panic", rec).Msg("payment reconciliation panicked")
			}
		}()
		if err := r.Run(context.Background()); err != nil {
			r.log.Error().Err(err).Msg("payment reconciliation failed")
		}
	})
	return err
}

// Run executes one reconciliation pass. Unparsable rows are skipped, never
// fatal to the batch.
func (r *PaymentReconciler) Run(ctx context.Context) error {
	rows, err := r.source.FetchRows(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if len(row) < minLedgerColumns {
			continue
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(row[amountColumn]), 64)
		if err != nil {
			continue
		}

		orderID, ok := NormalizePaymentReference(row[referenceColumn])
		if !ok {
			continue
		}

		if err := r.settle(orderID, amount); err != nil {
			r.log.Error().Err(err).Str("orderID", orderID).Msg("cannot settle ledger row")
		}
	}
	return nil
}

// settle marks the order PAID when it exists, is unpaid and its derived total
// matches the paid amount within tolerance. The status flip is guarded on
// payment_status so concurrent runs cannot double-apply it.
func (r *PaymentReconciler) settle(orderID string, amount float64) error {
	var order models.Order
	err := r.db.Preload("Items").Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if order.PaymentStatus != models.PaymentStatusUnpaid {
		return nil
	}
	if math.Abs(order.TotalAmount()-amount) >= amountTolerance {
		return nil
	}

	result := r.db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", orderID, models.PaymentStatusUnpaid).
		Update("payment_status", models.PaymentStatusPaid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		r.log.Info().Str("orderID", orderID).Float64("amount", amount).Msg("order marked paid")
	}
	return nil
}

// NormalizePaymentReference rebuilds a canonical order id from a free-text
// payment reference: the text is truncated at the first '-' or at 32
// characters, and an exactly-32-hex remainder gets the id separators
// re-inserted at offsets 8, 13, 18 and 23. References that do not round-trip
// through id parsing are rejected.
func NormalizePaymentReference(reference string) (string, bool) {
	ref := strings.TrimSpace(reference)
	if idx := strings.IndexByte(ref, '-'); idx != -1 && idx < 32 {
		ref = ref[:idx]
	} else if len(ref) > 32 {
		ref = ref[:32]
	}

	if len(ref) != 32 || !isHex(ref) {
		return "", false
	}

	candidate := ref[0:8] + "-" + ref[8:12] + "-" + ref[12:16] + "-" + ref[16:20] + "-" + ref[20:32]
	parsed, err := uuid.Parse(candidate)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
