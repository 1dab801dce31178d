package robotics

import (
	"context"
	"strings"

	"github.com/vbonduro/roboadmin/internal/domain"
)

type quoteRecord struct {
	ID            text   `json:"q_id"`
	Name          text   `json:"q_name"`
	Email         text   `json:"q_email"`
	Mobile        text   `json:"q_mobile"`
	Amount        number `json:"q_amount"`
	Quantity      text   `json:"q_quantity"`
	Status        text   `json:"q_status"`
	PaymentStatus text   `json:"q_payment_status"`
	Date          text   `json:"q_date"`
	Address       text   `json:"q_address"`
	StreetArea    text   `json:"q_street_area"`
	HouseLandmark text   `json:"q_house_landmark"`
	City          text   `json:"q_city"`
	Country       text   `json:"q_contry"`
}

// ListQuotes returns purchase quotes. Dates are cut to YYYY-MM-DD and a
// missing email reads "N/A".
func (c *Client) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	var recs []quoteRecord
	if err := c.list(ctx, "list/quote", nil, &recs); err != nil {
		return nil, err
	}

	out := make([]domain.Quote, 0, len(recs))
	for _, rec := range recs {
		email := rec.Email.String()
		if email == "" {
			email = "N/A"
		}
		out = append(out, domain.Quote{
			ID:            rec.ID.String(),
			Name:          rec.Name.String(),
			Email:         email,
			Mobile:        rec.Mobile.String(),
			Amount:        float64(rec.Amount),
			Quantity:      rec.Quantity.String(),
			Status:        rec.Status.String(),
			PaymentStatus: rec.PaymentStatus.String(),
			Date:          dateOnly(rec.Date.String()),
			Address:       rec.Address.String(),
			StreetArea:    rec.StreetArea.String(),
			HouseLandmark: rec.HouseLandmark.String(),
			City:          rec.City.String(),
			Country:       rec.Country.String(),
		})
	}
	return out, nil
}

func (c *Client) DeleteQuote(ctx context.Context, id string) error {
	_, err := c.call(ctx, "delete/quote", map[string]string{"q_id": id})
	return err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) error {
	_, err := c.call(ctx, "update/order_status", map[string]string{"Order_id": id, "order_status": status})
	return err
}

func dateOnly(s string) string {
	date, _, _ := strings.Cut(s, "T")
	return date
}
