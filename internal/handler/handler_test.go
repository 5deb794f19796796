package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/readar/marketplace-service/internal/errs"
	"github.com/readar/marketplace-service/internal/handler"
	service_mocks "github.com/readar/marketplace-service/internal/handler/mocks"
	"github.com/readar/marketplace-service/internal/model"
	"github.com/readar/marketplace-service/pkg/auth"
	"github.com/readar/marketplace-service/pkg/validate"
)

// withAuth injects the authenticated profile the way JwtAuthentication does,
// without minting tokens in every test.
func withAuth(userID int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := auth.SetAuthContext(c.Request().Context(), userID, "user@test.local")
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func TestHandler_CreateReservation(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockReservationService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"bookId":1,"kind":"purchase"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					Reserve(gomock.Any(), model.CreateReservationRequest{
						BookID:  1,
						Kind:    model.KindPurchase,
						BuyerID: 42,
					}).
					Return(model.ReserveResponse{
						ReservationID:   10,
						MerchantOrderID: "RES-1A2B3C",
						PaymentURL:      "https://pay.local/checkout/RES-1A2B3C",
						Amount:          500,
						Currency:        "INR",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"reservationId":10,"merchantOrderId":"RES-1A2B3C","paymentUrl":"https://pay.local/checkout/RES-1A2B3C","amount":500,"currency":"INR"}`,
			},
		},
		{
			name:         "err. unknown kind",
			body:         `{"bookId":1,"kind":"lease"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name:         "err. rental weeks out of range",
			body:         `{"bookId":1,"kind":"rental","rentalWeeks":4}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "err. book already reserved",
			body: `{"bookId":1,"kind":"purchase"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					Reserve(gomock.Any(), gomock.Any()).
					Return(model.ReserveResponse{}, errs.ErrConflict)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"conflict"}`,
			},
		},
		{
			name: "err. gateway down",
			body: `{"bookId":1,"kind":"purchase"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					Reserve(gomock.Any(), gomock.Any()).
					Return(model.ReserveResponse{}, errs.ErrGatewayUnavailable)
			},
			response: response{
				expectedCode: http.StatusBadGateway,
				expectedBody: `{"message":"payment gateway unavailable"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockReservationService(c)
			h := handler.New(svc, zap.NewNop())

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/reservations", h.CreateReservation, withAuth(42))

			r := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_PaymentCallback(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name          string
		target        string
		reservationID int
		redirect      string
	}{
		{
			name:          "known reservation",
			target:        "/payments/callback?reservationId=10",
			reservationID: 10,
			redirect:      "http://front.local/payment-success?reservationId=10",
		},
		{
			name:          "garbage id falls back to the failure page",
			target:        "/payments/callback?reservationId=abc",
			reservationID: 0,
			redirect:      "http://front.local/payment-failed",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockReservationService(c)
			svc.EXPECT().
				HandleCallback(gomock.Any(), tt.reservationID).
				Return(tt.redirect)
			h := handler.New(svc, zap.NewNop())

			e := echo.New()
			e.GET("/payments/callback", h.PaymentCallback)

			r := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, http.StatusFound, w.Code)
			require.Equal(t, tt.redirect, w.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestHandler_CheckStatus(t *testing.T) {
	t.Parallel()
	expiresAt := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockReservationService)

	var tests = []struct {
		name         string
		target       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok",
			target: "/reservations/10/status",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					CheckStatus(gomock.Any(), 10, 42).
					Return(model.StatusSnapshot{
						ReservationID: 10,
						BookID:        1,
						Status:        model.StatusConfirmed,
						PaymentStatus: model.PaymentPaid,
						Kind:          model.KindPurchase,
						Amount:        500,
						ExpiresAt:     expiresAt,
						TransactionID: "TXN-1",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"reservationId":10,"bookId":1,"status":"CONFIRMED","paymentStatus":"PAID","kind":"purchase","amount":500,"expiresAt":"2025-06-02T12:00:00Z","isOverdue":false,"transactionId":"TXN-1"}`,
			},
		},
		{
			name:   "err. not the buyer or owner",
			target: "/reservations/10/status",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					CheckStatus(gomock.Any(), 10, 42).
					Return(model.StatusSnapshot{}, errs.ErrForbidden)
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"forbidden"}`,
			},
		},
		{
			name:         "err. bad id",
			target:       "/reservations/zero/status",
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid reservationId"}`,
			},
		},
		{
			name:   "err. not found",
			target: "/reservations/99/status",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					CheckStatus(gomock.Any(), 99, 42).
					Return(model.StatusSnapshot{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockReservationService(c)
			h := handler.New(svc, zap.NewNop())

			e := echo.New()
			e.GET("/reservations/:reservationId/status", h.CheckStatus, withAuth(42))

			r := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_MarkCollected(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockReservationService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().MarkCollected(gomock.Any(), 10, 7).Return(nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"book marked as collected"}`,
			},
		},
		{
			name: "err. not confirmed yet",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().MarkCollected(gomock.Any(), 10, 7).Return(errs.ErrInvalidState)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"invalid state"}`,
			},
		},
		{
			name: "err. not the owner",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().MarkCollected(gomock.Any(), 10, 7).Return(errs.ErrForbidden)
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"forbidden"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockReservationService(c)
			h := handler.New(svc, zap.NewNop())

			e := echo.New()
			e.POST("/reservations/:reservationId/collected", h.MarkCollected, withAuth(7))

			r := httptest.NewRequest(http.MethodPost, "/reservations/10/collected", http.NoBody)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_CancelReservation(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockReservationService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().Cancel(gomock.Any(), 10, 42).Return(nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"reservation cancelled"}`,
			},
		},
		{
			name: "err. already terminal",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().Cancel(gomock.Any(), 10, 42).Return(errs.ErrInvalidState)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"invalid state"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockReservationService(c)
			h := handler.New(svc, zap.NewNop())

			e := echo.New()
			e.POST("/reservations/:reservationId/cancel", h.CancelReservation, withAuth(42))

			r := httptest.NewRequest(http.MethodPost, "/reservations/10/cancel", http.NoBody)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_GetMyReservations(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockReservationService(c)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.EXPECT().
		ListBuyerReservations(gomock.Any(), 42).
		Return([]model.ReservationView{
			{
				ID:            10,
				BookID:        1,
				BookTitle:     "The Go Programming Language",
				BookAuthor:    "Donovan, Kernighan",
				BuyerID:       42,
				Kind:          model.KindPurchase,
				Fee:           500,
				Status:        model.StatusPending,
				PaymentStatus: model.PaymentPending,
				ExpiresAt:     created.AddDate(0, 0, 1),
				CreatedAt:     created,
			},
		}, nil)
	h := handler.New(svc, zap.NewNop())

	e := echo.New()
	e.GET("/reservations", h.GetMyReservations, withAuth(42))

	r := httptest.NewRequest(http.MethodGet, "/reservations", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`[{"id":10,"bookId":1,"bookTitle":"The Go Programming Language","bookAuthor":"Donovan, Kernighan","buyerId":42,"kind":"purchase","fee":500,"status":"PENDING","paymentStatus":"PENDING","expiresAt":"2025-06-02T12:00:00Z","isOverdue":false,"createdAt":"2025-06-01T12:00:00Z"}]`,
		strings.Trim(w.Body.String(), "\n"))
}
