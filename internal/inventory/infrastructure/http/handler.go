package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/bookit/internal/inventory/application"
	"github.com/dmehra2102/bookit/internal/inventory/domain"
	"github.com/dmehra2102/bookit/pkg/apperr"
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
		tracer:  otel.Tracer("inventory-http"),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/experiences/{id}/slots", h.listSlots)
}

type slotResponse struct {
	ID           int64  `json:"id"`
	ExperienceID int64  `json:"experience_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Available    int    `json:"available"`
	Total        int    `json:"total"`
}

func toResponse(s domain.Slot) slotResponse {
	return slotResponse{
		ID:           s.ID,
		ExperienceID: s.ExperienceID,
		Date:         s.Date.Format(domain.DateLayout),
		Time:         s.Time,
		Available:    s.Available,
		Total:        s.Total,
	}
}

func (h *Handler) listSlots(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListSlots")
	defer span.End()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, r, h.log, apperr.New(apperr.InvalidRequest, "experience id must be a positive integer"))
		return
	}
	span.SetAttributes(attribute.Int64("experience.id", id))

	var date *time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.Parse(domain.DateLayout, v)
		if err != nil {
			httpx.WriteError(w, r, h.log, apperr.Wrap(apperr.InvalidRequest, "date must be YYYY-MM-DD", err))
			return
		}
		date = &d
	}

	slots, err := h.service.ListSlots(ctx, id, date)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toResponse(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
