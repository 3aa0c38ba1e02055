package services

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

// StatisticsService aggregates revenue from completed, paid orders. Amounts
// are always summed from the frozen order items.
type StatisticsService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewStatisticsService(db *gorm.DB, log zerolog.Logger) *StatisticsService {
	return &StatisticsService{db: db, log: log}
}

type ProductSales struct {
	ProductID    string  `json:"productID"`
	ProductName  string  `json:"productName"`
	Thumbnail    string  `json:"thumbnail"`
	QuantitySold int     `json:"quantitySold"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

func (s *StatisticsService) completedOrders(start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("created_at BETWEEN ? AND ?", start, end).
		Where("order_status = ? AND payment_status = ?", models.OrderStatusCompleted, models.PaymentStatusPaid).
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot load completed orders", err)
	}
	return orders, nil
}

// TopSellingProducts ranks products by quantity sold in the window.
func (s *StatisticsService) TopSellingProducts(start, end time.Time) ([]ProductSales, error) {
	orders, err := s.completedOrders(start, end)
	if err != nil {
		return nil, err
	}

	salesByProduct := map[string]*ProductSales{}
	for _, order := range orders {
		for _, item := range order.Items {
			sales, ok := salesByProduct[item.ProductID]
			if !ok {
				sales = &ProductSales{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Thumbnail:   item.Thumbnail,
				}
				salesByProduct[item.ProductID] = sales
			}
			sales.QuantitySold += item.Quantity
			sales.TotalRevenue += item.TotalPrice
		}
	}

	out := make([]ProductSales, 0, len(salesByProduct))
	for _, sales := range salesByProduct {
		out = append(out, *sales)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantitySold != out[j].QuantitySold {
			return out[i].QuantitySold > out[j].QuantitySold
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

// RevenueByDate aggregates one day.
func (s *StatisticsService) RevenueByDate(day time.Time) ([]RevenuePoint, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.revenueBetween(start, start.AddDate(0, 0, 1).Add(-time.Nanosecond))
}

// RevenueByPeriod aggregates an ISO week, a month or a whole year of the
// given year.
func (s *StatisticsService) RevenueByPeriod(period string, year, value int) ([]RevenuePoint, error) {
	switch period {
	case "week":
		start := isoWeekStart(year, value)
		return s.revenueBetween(start, start.AddDate(0, 0, 7).Add(-time.Nanosecond))
	case "month":
		if value < 1 || value > 12 {
			return nil, apperrors.New(apperrors.Validation, "month must be between 1 and 12")
		}
		start := time.Date(year, time.Month(value), 1, 0, 0, 0, 0, time.Local)
		return s.revenueBetween(start, start.AddDate(0, 1, 0).Add(-time.Nanosecond))
	case "year":
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
		return s.revenueBetween(start, start.AddDate(1, 0, 0).Add(-time.Nanosecond))
	default:
		return nil, apperrors.New(apperrors.Validation, "period must be week, month or year")
	}
}

func (s *StatisticsService) revenueBetween(start, end time.Time) ([]RevenuePoint, error) {
	orders, err := s.completedOrders(start, end)
	if err != nil {
		return nil, err
	}

	revenueByDay := map[string]float64{}
	for _, order := range orders {
		day := order.CreatedAt.Format("2006-01-02")
		revenueByDay[day] += order.TotalAmount()
	}

	days := make([]string, 0, len(revenueByDay))
	for day := range revenueByDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]RevenuePoint, 0, len(days))
	for _, day := range days {
		out = append(out, RevenuePoint{Date: day, Revenue: revenueByDay[day]})
	}
	return out, nil
}

func isoWeekStart(year, week int) time.Time {
	// January 4th is always in ISO week 1.
	t := time.Date(year, time.January, 4, 0, 0, 0, 0, time.Local)
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, -1)
	}
	return t.AddDate(0, 0, (week-1)*7)
}
