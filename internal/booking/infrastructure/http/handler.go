package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/bookit/internal/booking/application"
	"github.com/dmehra2102/bookit/internal/booking/domain"
	inventory "github.com/dmehra2102/bookit/internal/inventory/domain"
	"github.com/dmehra2102/bookit/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("booking-http"),
	}
}

// Register mounts the booking routes. create is wrapped by mw, which is
// where idempotent replay is plugged in.
func (h *Handler) Register(r chi.Router, mw ...func(http.Handler) http.Handler) {
	r.With(mw...).Post("/bookings", h.createBooking)
	r.Get("/bookings/{id}", h.getBooking)
}

type bookingResponse struct {
	ID           string          `json:"id"`
	ExperienceID int64           `json:"experience_id"`
	SlotID       int64           `json:"slot_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        *string         `json:"phone"`
	Guests       int             `json:"guests"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	PromoCode    *string         `json:"promo_code"`
	Status       domain.Status   `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	Title        string          `json:"title"`
	Location     string          `json:"location"`
	Date         string          `json:"date"`
	Time         string          `json:"time"`
}

func toResponse(d domain.BookingDetails) bookingResponse {
	return bookingResponse{
		ID:           d.ID,
		ExperienceID: d.ExperienceID,
		SlotID:       d.SlotID,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Guests:       d.Guests,
		TotalPrice:   d.TotalPrice,
		PromoCode:    d.PromoCode,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
		Title:        d.ExperienceTitle,
		Location:     d.ExperienceLocation,
		Date:         d.SlotDate.Format(inventory.DateLayout),
		Time:         d.SlotTime,
	}
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateBooking")
	defer span.End()

	var req application.ReserveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}

	d, err := h.service.Reserve(ctx, req)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	span.SetAttributes(attribute.String("booking.id", d.ID))
	httpx.WriteJSON(w, http.StatusCreated, toResponse(d))
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetBooking")
	defer span.End()

	d, err := h.service.GetBooking(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponse(d))
}
