package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/roboadmin/internal/service"
	"github.com/vbonduro/roboadmin/internal/session"
)

// pageParam reads ?page=, defaulting to the first page.
func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page, err := s.svc.Leads.Contacts(r.Context(), q, pageParam(r))
	if err != nil {
		s.fail(w, r, "failed to list leads", err)
		return
	}
	s.list(w, r, "leads", map[string]any{"Page": page, "Query": q, "Base": "/leads"},
		"pages/leads.html", "partials/lead_rows.html")
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	contact, err := s.svc.Leads.Contact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "failed to load lead", err)
		return
	}
	if err := s.renderPage(w,
		s.page(w, r, "leads", map[string]any{"Contact": contact}),
		"base.html", "pages/lead_detail.html",
	); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Leads.DeleteContact(r.Context(), chi.URLParam(r, "id"))
	s.afterDelete(w, r, "lead", "/leads", err)
}

func (s *Server) handleListRentQuotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page, err := s.svc.Leads.RentQuotes(r.Context(), q, pageParam(r))
	if err != nil {
		s.fail(w, r, "failed to list rent quotes", err)
		return
	}
	s.list(w, r, "rent-quotes", map[string]any{"Page": page, "Query": q, "Base": "/rent-quotes"},
		"pages/rent_quotes.html", "partials/rent_quote_rows.html")
}

func (s *Server) handleGetRentQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.svc.Leads.RentQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "failed to load rent quote", err)
		return
	}
	if err := s.renderPage(w,
		s.page(w, r, "rent-quotes", map[string]any{"Quote": quote}),
		"base.html", "pages/rent_quote_detail.html",
	); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handleDeleteRentQuote(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Leads.DeleteRentQuote(r.Context(), chi.URLParam(r, "id"))
	s.afterDelete(w, r, "rent quote", "/rent-quotes", err)
}

func orderFilter(r *http.Request) service.OrderFilter {
	var f service.OrderFilter
	// Malformed values leave their field zero; the rest still apply.
	_ = decoder.Decode(&f, r.URL.Query())
	if f.Status == "" {
		f.Status = "All"
	}
	if f.Page < 1 {
		f.Page = 1
	}
	return f
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	f := orderFilter(r)
	orders, err := s.svc.Orders.List(r.Context(), f)
	if err != nil {
		s.fail(w, r, "failed to list orders", err)
		return
	}

	s.list(w, r, "orders", map[string]any{
		"Page":     orders.Page,
		"Orders":   orders.Page.Items,
		"Stats":    orders.Stats,
		"Filter":   f,
		"Statuses": service.OrderStatuses,
		"Base":     "/orders",
	}, "pages/orders.html", "partials/order_rows.html")
}

func (s *Server) handleExportOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.svc.Orders.Export(r.Context(), orderFilter(r))
	if err != nil {
		s.fail(w, r, "failed to export orders", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	if err := service.WriteOrdersCSV(w, orders); err != nil {
		s.logger.Error("write orders csv failed", "error", err)
	}
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.svc.Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "failed to load order", err)
		return
	}
	if err := s.renderPage(w,
		s.page(w, r, "orders", map[string]any{"Order": order, "Statuses": service.OrderStatuses}),
		"base.html", "pages/order_detail.html",
	); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")

	err := s.svc.Orders.UpdateStatus(r.Context(), id, r.PostFormValue("status"))
	switch {
	case service.AsValidation(err) != nil:
		s.sessions.AddFlash(w, r, session.FlashError, service.AsValidation(err)["status"])
	case err != nil:
		s.logger.Error("update order status failed", "id", id, "error", err)
		s.sessions.AddFlash(w, r, session.FlashError, "Failed to update the order status.")
	default:
		s.sessions.AddFlash(w, r, session.FlashSuccess, "Order status updated.")
	}

	target := r.PostFormValue("return")
	if !strings.HasPrefix(target, "/orders") {
		target = "/orders/" + id
	}
	redirect(w, r, target)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Orders.Delete(r.Context(), chi.URLParam(r, "id"))
	s.afterDelete(w, r, "order", "/orders", err)
}
