package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/roboadmin/internal/domain"
)

// orderAPI is the subset of robotics.Client that OrderService requires.
type orderAPI interface {
	ListQuotes(ctx context.Context) ([]domain.Quote, error)
	DeleteQuote(ctx context.Context, id string) error
	UpdateOrderStatus(ctx context.Context, id, status string) error
}

// OrderStatuses is every status an admin can set, in workflow order.
var OrderStatuses = []string{"Pending", "Confirmed", "Shipped", "Delivered", "Cancelled"}

const statusAll = "All"

// OrderFilter narrows the order list. From and To are inclusive YYYY-MM-DD
// bounds; malformed bounds are ignored.
type OrderFilter struct {
	Query  string `schema:"q"`
	Status string `schema:"status"`
	From   string `schema:"from"`
	To     string `schema:"to"`
	Page   int    `schema:"page"`
}

// OrderStats summarises the whole, unfiltered order list.
type OrderStats struct {
	Total     int
	Pending   int
	Confirmed int
	Shipped   int
	Delivered int
	Cancelled int
	Revenue   float64
}

type OrderList struct {
	Page  Page[domain.Quote]
	Stats OrderStats
}

type OrderService struct {
	api      orderAPI
	activity *Recorder
	pageSize int
	logger   *slog.Logger
}

func NewOrderService(api orderAPI, activity *Recorder, pageSize int, logger *slog.Logger) *OrderService {
	return &OrderService{api: api, activity: activity, pageSize: pageSize, logger: logger}
}

func (s *OrderService) List(ctx context.Context, f OrderFilter) (*OrderList, error) {
	all, err := s.api.ListQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &OrderList{
		Page:  Paginate(FilterOrders(all, f), f.Page, s.pageSize),
		Stats: ComputeOrderStats(all),
	}, nil
}

// Export returns every order matching f, unpaged.
func (s *OrderService) Export(ctx context.Context, f OrderFilter) ([]domain.Quote, error) {
	all, err := s.api.ListQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return FilterOrders(all, f), nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Quote, error) {
	all, err := s.api.ListQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return find(all, id, func(q *domain.Quote) string { return q.ID })
}

func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) error {
	status = strings.TrimSpace(status)
	if !validOrderStatus(status) {
		return ValidationErrors{"status": "Unknown order status."}
	}

	if err := s.api.UpdateOrderStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info("order status updated", "id", id, "status", status)
	s.activity.Record(ctx, "order", "status", "#"+id+" "+status)
	return nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteQuote(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info("order deleted", "id", id)
	s.activity.Record(ctx, "order", "delete", "#"+id)
	return nil
}

// FilterOrders applies the search, status and date-range filters.
func FilterOrders(quotes []domain.Quote, f OrderFilter) []domain.Quote {
	status := strings.TrimSpace(f.Status)
	from := validDate(f.From)
	to := validDate(f.To)

	return filter(quotes, func(q *domain.Quote) bool {
		if !matchesAny(f.Query, q.ID, q.Name, q.Email) {
			return false
		}
		if status != "" && status != statusAll && q.Status != status {
			return false
		}
		if from != "" && q.Date < from {
			return false
		}
		if to != "" && q.Date > to {
			return false
		}
		return true
	})
}

func ComputeOrderStats(quotes []domain.Quote) OrderStats {
	stats := OrderStats{Total: len(quotes)}
	for _, q := range quotes {
		switch q.Status {
		case "Pending", "pending", "active":
			stats.Pending++
		case "Confirmed":
			stats.Confirmed++
		case "Shipped":
			stats.Shipped++
		case "Delivered":
			stats.Delivered++
		case "Cancelled":
			stats.Cancelled++
		}
		stats.Revenue += q.Amount
	}
	return stats
}

var csvHeader = []string{
	"Order ID", "Customer", "Email", "Phone", "Amount (AED)", "Quantity", "Status",
	"Payment", "Date", "Address", "Street/Area", "Landmark", "City", "Country",
}

// WriteOrdersCSV writes quotes as CSV with a header row.
func WriteOrdersCSV(w io.Writer, quotes []domain.Quote) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, q := range quotes {
		row := []string{
			csvCell(q.ID), csvCell(q.Name), csvCell(q.Email), csvCell(q.Mobile),
			strconv.FormatFloat(q.Amount, 'f', 2, 64), csvCell(q.Quantity), csvCell(q.Status),
			csvCell(q.PaymentStatus), csvCell(q.Date), csvCell(q.Address), csvCell(q.StreetArea),
			csvCell(q.HouseLandmark), csvCell(q.City), csvCell(q.Country),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// csvCell quotes values a spreadsheet would evaluate as a formula.
func csvCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func validOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func validDate(s string) string {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}
