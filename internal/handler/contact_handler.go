package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/banddevs/backend/internal/metrics"
	"github.com/banddevs/backend/internal/model"
	"github.com/banddevs/backend/internal/service"
	"github.com/banddevs/backend/internal/validation"
)

const (
	msgThankYou      = "Thank you for your message! We'll get back to you soon."
	msgNotConfigured = "Email service not configured"
	msgSubmitFailed  = "Sorry, there was an error sending your message. Please try again."
	msgInvalidBody   = "Invalid request body"
	msgInvalidFields = "Validation failed"
)

// ContactHandler handles contact form submission and admin listing.
type ContactHandler struct {
	contactService service.ContactService
	metrics        *metrics.Metrics
}

// NewContactHandler creates a ContactHandler with the given service.
// m may be nil.
func NewContactHandler(contactService service.ContactService, m *metrics.Metrics) *ContactHandler {
	return &ContactHandler{contactService: contactService, metrics: m}
}

// Submit handles POST /api/contact.
// name, email and message (>= 10 chars) are required; company and service are optional.
// The body is validated before the service is called.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.ContactSubmission
	if err := validation.Decode(r.Body, &req); err != nil {
		h.metrics.ObserveContact(metrics.OutcomeInvalid)
		writeJSON(w, http.StatusBadRequest, model.ContactResponse{Message: msgInvalidBody})
		return
	}
	if errs := validation.Struct(&req); errs != nil {
		h.metrics.ObserveContact(metrics.OutcomeInvalid)
		writeJSON(w, http.StatusBadRequest, model.ContactResponse{Message: msgInvalidFields, Errors: errs})
		return
	}

	msg := req.ToMessage()

	err := h.contactService.Submit(r.Context(), msg)
	switch {
	case errors.Is(err, service.ErrEmailNotConfigured):
		slog.Error("contact form: email service not configured")
		h.metrics.ObserveContact(metrics.OutcomeNotConfigured)
		writeJSON(w, http.StatusInternalServerError, model.ContactResponse{Message: msgNotConfigured})
	case err != nil:
		slog.Error("contact form error", "error", err, "contact_id", msg.ID, "request_id", RequestIDFromContext(r.Context()))
		h.metrics.ObserveContact(metrics.OutcomeFailed)
		writeJSON(w, http.StatusInternalServerError, model.ContactResponse{Message: msgSubmitFailed})
	default:
		h.metrics.ObserveContact(metrics.OutcomeSuccess)
		writeJSON(w, http.StatusOK, model.ContactResponse{Success: true, Message: msgThankYou})
	}
}

// adminListResponse is the JSON response for GET /api/admin/contacts.
type adminListResponse struct {
	Messages []*model.ContactMessage `json:"messages"`
}

// AdminList handles GET /api/admin/contacts.
// Supports query params: limit (1-100, default 20), offset.
// Authorization is enforced by the auth.RequireToken middleware.
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	opts := model.ContactListOptions{
		Limit:  20,
		Offset: 0,
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	messages, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		slog.Error("list contacts failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list_failed"})
		return
	}

	// Return [] not null for empty lists
	if messages == nil {
		messages = []*model.ContactMessage{}
	}

	writeJSON(w, http.StatusOK, adminListResponse{Messages: messages})
}
