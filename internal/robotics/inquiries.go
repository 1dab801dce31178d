package robotics

import (
	"context"

	"github.com/vbonduro/roboadmin/internal/domain"
)

type contactRecord struct {
	ID        text `json:"c_id"`
	FirstName text `json:"c_first_name"`
	LastName  text `json:"c_last_name"`
	Email     text `json:"c_email"`
	Phone     text `json:"c_phone"`
	Message   text `json:"c_message"`
	Date      text `json:"c_date"`
}

func (c *Client) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	var recs []contactRecord
	if err := c.list(ctx, "list/contactus", nil, &recs); err != nil {
		return nil, err
	}

	out := make([]domain.Contact, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.Contact{
			ID:        rec.ID.String(),
			FirstName: rec.FirstName.String(),
			LastName:  rec.LastName.String(),
			Email:     rec.Email.String(),
			Phone:     rec.Phone.String(),
			Message:   rec.Message.String(),
			Date:      dateOnly(rec.Date.String()),
		})
	}
	return out, nil
}

func (c *Client) DeleteContact(ctx context.Context, id string) error {
	_, err := c.call(ctx, "delete/contactus", map[string]string{"c_id": id})
	return err
}

type rentRecord struct {
	ID       text `json:"rn_id"`
	Name     text `json:"rn_name"`
	Email    text `json:"rn_email"`
	Mobile   text `json:"rn_mobile"`
	Quantity text `json:"rn_quantity"`
	Purpose  text `json:"rn_purpose"`
	Message  text `json:"rn_message"`
	Date     text `json:"rn_date"`
}

func (c *Client) ListRentQuotes(ctx context.Context) ([]domain.RentQuote, error) {
	var recs []rentRecord
	if err := c.list(ctx, "list/rent", nil, &recs); err != nil {
		return nil, err
	}

	out := make([]domain.RentQuote, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.RentQuote{
			ID:       rec.ID.String(),
			Name:     rec.Name.String(),
			Email:    rec.Email.String(),
			Mobile:   rec.Mobile.String(),
			Quantity: rec.Quantity.String(),
			Purpose:  rec.Purpose.String(),
			Message:  rec.Message.String(),
			Date:     dateOnly(rec.Date.String()),
		})
	}
	return out, nil
}

func (c *Client) DeleteRentQuote(ctx context.Context, id string) error {
	_, err := c.call(ctx, "delete/rent", map[string]string{"rn_id": id})
	return err
}
