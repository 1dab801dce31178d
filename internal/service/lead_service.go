package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/roboadmin/internal/domain"
)

// leadAPI is the subset of robotics.Client that LeadService requires.
type leadAPI interface {
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	DeleteContact(ctx context.Context, id string) error
	ListRentQuotes(ctx context.Context) ([]domain.RentQuote, error)
	DeleteRentQuote(ctx context.Context, id string) error
}

// LeadService covers the two inbound inquiry lists: contact-form leads and
// rental requests. Both are read, searched, paged and deleted.
type LeadService struct {
	api      leadAPI
	activity *Recorder
	pageSize int
	logger   *slog.Logger
}

func NewLeadService(api leadAPI, activity *Recorder, pageSize int, logger *slog.Logger) *LeadService {
	return &LeadService{api: api, activity: activity, pageSize: pageSize, logger: logger}
}

func (s *LeadService) Contacts(ctx context.Context, query string, page int) (Page[domain.Contact], error) {
	all, err := s.api.ListContacts(ctx)
	if err != nil {
		return Page[domain.Contact]{}, fmt.Errorf("failed to list contacts: %w", err)
	}
	matched := filter(all, func(c *domain.Contact) bool {
		return matchesAny(query, c.FirstName, c.LastName, c.Email, c.Phone, c.Message)
	})
	return Paginate(matched, page, s.pageSize), nil
}

func (s *LeadService) Contact(ctx context.Context, id string) (*domain.Contact, error) {
	all, err := s.api.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return find(all, id, func(c *domain.Contact) string { return c.ID })
}

// CountContacts returns the total number of leads.
func (s *LeadService) CountContacts(ctx context.Context) (int, error) {
	all, err := s.api.ListContacts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	return len(all), nil
}

func (s *LeadService) DeleteContact(ctx context.Context, id string) error {
	if err := s.api.DeleteContact(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	s.logger.Info("contact deleted", "id", id)
	s.activity.Record(ctx, "lead", "delete", "#"+id)
	return nil
}

func (s *LeadService) RentQuotes(ctx context.Context, query string, page int) (Page[domain.RentQuote], error) {
	all, err := s.api.ListRentQuotes(ctx)
	if err != nil {
		return Page[domain.RentQuote]{}, fmt.Errorf("failed to list rent quotes: %w", err)
	}
	matched := filter(all, func(q *domain.RentQuote) bool {
		return matchesAny(query, q.Name, q.Email, q.Mobile, q.Message)
	})
	return Paginate(matched, page, s.pageSize), nil
}

func (s *LeadService) RentQuote(ctx context.Context, id string) (*domain.RentQuote, error) {
	all, err := s.api.ListRentQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rent quotes: %w", err)
	}
	return find(all, id, func(q *domain.RentQuote) string { return q.ID })
}

func (s *LeadService) DeleteRentQuote(ctx context.Context, id string) error {
	if err := s.api.DeleteRentQuote(ctx, id); err != nil {
		return fmt.Errorf("failed to delete rent quote: %w", err)
	}

	s.logger.Info("rent quote deleted", "id", id)
	s.activity.Record(ctx, "rent_quote", "delete", "#"+id)
	return nil
}
