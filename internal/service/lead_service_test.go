package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/logging"
)

func manyContacts(n int) []domain.Contact {
	out := make([]domain.Contact, n)
	for i := range out {
		out[i] = domain.Contact{ID: fmt.Sprint(i + 1), FirstName: "Lead", LastName: fmt.Sprint(i + 1), Email: fmt.Sprintf("lead%d@x.com", i+1)}
	}
	return out
}

func TestLeadServiceContactsPaged(t *testing.T) {
	svc := NewLeadService(&stubAPI{contacts: manyContacts(45)}, nil, 20, logging.Discard())

	page, err := svc.Contacts(context.Background(), "", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pages)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, "41", page.Items[0].ID)
}

func TestLeadServiceContactsSearch(t *testing.T) {
	contacts := []domain.Contact{
		{ID: "1", FirstName: "Sara", LastName: "Khan", Phone: "+971 50 111", Message: "Need a demo"},
		{ID: "2", FirstName: "Omar", Email: "omar@dewa.ae", Message: "Pricing?"},
	}
	svc := NewLeadService(&stubAPI{contacts: contacts}, nil, 20, logging.Discard())

	for query, want := range map[string]string{"khan": "1", "DEWA": "2", "971": "1", "pricing": "2"} {
		page, err := svc.Contacts(context.Background(), query, 1)
		require.NoError(t, err)
		require.Len(t, page.Items, 1, query)
		assert.Equal(t, want, page.Items[0].ID, query)
	}
}

func TestLeadServiceContactAndDelete(t *testing.T) {
	api := &stubAPI{contacts: manyContacts(2)}
	recorder, activity := newTestRecorder(t)
	svc := NewLeadService(api, recorder, 20, logging.Discard())

	c, err := svc.Contact(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Lead 2", c.FullName())

	n, err := svc.CountContacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, svc.DeleteContact(actorCtx(), "2"))
	entries, err := activity.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "lead", entries[0].Entity)
}

func TestLeadServiceRentQuotes(t *testing.T) {
	rents := []domain.RentQuote{
		{ID: "1", Name: "Expo Team", Mobile: "0501234", Message: "Two weeks"},
		{ID: "2", Name: "Mall", Email: "ops@mall.ae"},
	}
	api := &stubAPI{rents: rents}
	svc := NewLeadService(api, nil, 20, logging.Discard())

	page, err := svc.RentQuotes(context.Background(), "mall.ae", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2", page.Items[0].ID)

	rq, err := svc.RentQuote(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Expo Team", rq.Name)

	_, err = svc.RentQuote(context.Background(), "9")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteRentQuote(context.Background(), "1"))
	assert.Contains(t, api.calls, "delete rent 1")
}
