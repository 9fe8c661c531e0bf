package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/bookit/internal/booking/application"
	bookingpg "github.com/dmehra2102/bookit/internal/booking/infrastructure/postgres"
	catalog "github.com/dmehra2102/bookit/internal/catalog/domain"
	inventorypg "github.com/dmehra2102/bookit/internal/inventory/infrastructure/postgres"
	promoapp "github.com/dmehra2102/bookit/internal/promo/application"
	"github.com/dmehra2102/bookit/pkg/outbox"
)

type experiences map[int64]catalog.Experience

func (e experiences) GetExperience(_ context.Context, id int64) (catalog.Experience, error) {
	if exp, ok := e[id]; ok {
		return exp, nil
	}
	return catalog.Experience{}, catalog.ErrExperienceNotFound
}

var slotColumns = []string{"id", "experience_id", "date", "time", "available", "total"}

func setup(t *testing.T) (http.Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := application.NewService(log, application.Deps{
		Tx:          bookingpg.NewTransactor(mock, 0),
		Slots:       inventorypg.NewRepository(log, mock),
		Bookings:    bookingpg.NewRepository(log, mock),
		Outbox:      outbox.NewPostgresStore(log, mock),
		Experiences: experiences{1: {ID: 1, Title: "Sunrise Kayak", Location: "Goa", Price: decimal.NewFromInt(100)}},
		Promos:      promoapp.NewService(),
	}, 10)

	r := chi.NewRouter()
	NewHandler(log, svc).Register(r)
	return r, mock
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
}

const validBody = `{"experience_id":1,"slot_id":7,"name":"Asha Rao","email":"asha@example.com","guests":2,"total_price":200,"promo_code":"SAVE10"}`

func TestCreateBooking(t *testing.T) {
	router, mock := setup(t)
	date := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery(`FROM slots WHERE id = \$1 FOR UPDATE`).WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(slotColumns).AddRow(int64(7), int64(1), date, "09:00 AM", 3, 15))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(pgxmock.AnyArg(), int64(1), int64(7), "Asha Rao", "asha@example.com", pgxmock.AnyArg(), 2,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE slots SET available = available - \$1`).WithArgs(2, int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO outbox`).
		WithArgs("booking", pgxmock.AnyArg(), "BookingConfirmed", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, post(validBody))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "confirmed", body["status"])
	assert.Equal(t, "180", body["total_price"])
	assert.Equal(t, "SAVE10", body["promo_code"])
	assert.Equal(t, "2025-11-10", body["date"])
	assert.Equal(t, "Sunrise Kayak", body["title"])
	assert.NotEmpty(t, body["id"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_SoldOut(t *testing.T) {
	router, mock := setup(t)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(slotColumns).AddRow(int64(7), int64(1), time.Now(), "09:00 AM", 1, 15))
	mock.ExpectRollback()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, post(validBody))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":{"kind":"insufficient_capacity","message":"only 1 places left in this slot"}}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_Invalid(t *testing.T) {
	router, mock := setup(t)

	for _, body := range []string{
		`{"experience_id":1,"slot_id":7,"name":"A","email":"a@example.com","guests":0,"total_price":0}`,
		`{"experience_id":1,"slot_id":7,"name":"A","guests":1,"total_price":100}`,
		`{"experience_id":1,"slot_id":7,"name":"A","email":"a@example.com","guests":1}`,
		`{"experience_id":1,"slot_id":7,"unknown":true}`,
		`not json`,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, post(body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), `"invalid_request"`, body)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBooking_NotFound(t *testing.T) {
	router, _ := setup(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"booking_not_found"`)
}
