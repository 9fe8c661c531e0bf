package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/bookit/internal/promo/application"
	"github.com/dmehra2102/bookit/internal/promo/domain"
	"github.com/dmehra2102/bookit/pkg/apperr"
	"github.com/dmehra2102/bookit/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/promo/validate", h.validate)
}

type validateRequest struct {
	Code string `json:"code"`
}

type validateResponse struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	Type     domain.Kind     `json:"type"`
	Valid    bool            `json:"valid"`
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	if req.Code == "" {
		httpx.WriteError(w, r, h.log, apperr.New(apperr.InvalidRequest, "code is required"))
		return
	}

	d, err := h.service.Validate(r.Context(), req.Code)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, validateResponse{
		Code:     d.Code,
		Discount: d.Amount,
		Type:     d.Kind,
		Valid:    true,
	})
}
