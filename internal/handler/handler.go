package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readar/marketplace-service/internal/errs"
	"github.com/readar/marketplace-service/internal/model"
	"github.com/readar/marketplace-service/pkg/auth"
	"github.com/readar/marketplace-service/pkg/validate"
)

type Handler struct {
	reservationSvc ReservationService
	log            *zap.Logger
}

func New(reservationSvc ReservationService, log *zap.Logger) *Handler {
	return &Handler{
		reservationSvc: reservationSvc,
		log:            log,
	}
}

func (h *Handler) NewRouter(jwtSecret []byte) *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig(h.log)),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	// the gateway redirects the buyer's browser here; deliberately
	// unauthenticated and treated only as a hint to re-poll
	api.GET("/payments/callback", h.PaymentCallback)

	authed := api.Group("", JwtAuthentication(jwtSecret))
	authed.POST("/reservations", h.CreateReservation)
	authed.GET("/reservations", h.GetMyReservations)
	authed.GET("/reservations/seller", h.GetSellerReservations)
	authed.GET("/reservations/:reservationId/status", h.CheckStatus)
	authed.POST("/reservations/:reservationId/collected", h.MarkCollected)
	authed.POST("/reservations/:reservationId/cancel", h.CancelReservation)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateReservation(c echo.Context) error {
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID, err := auth.UserID(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.BuyerID = userID

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.reservationSvc.Reserve(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) PaymentCallback(c echo.Context) error {
	reservationID, err := strconv.Atoi(c.QueryParam("reservationId"))
	if err != nil {
		reservationID = 0 // resolves to the generic failure redirect
	}
	redirect := h.reservationSvc.HandleCallback(c.Request().Context(), reservationID)
	return c.Redirect(http.StatusFound, redirect)
}

func (h *Handler) CheckStatus(c echo.Context) error {
	reservationID, err := reservationParam(c)
	if err != nil {
		return err
	}
	userID, err := auth.UserID(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	snap, err := h.reservationSvc.CheckStatus(c.Request().Context(), reservationID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) MarkCollected(c echo.Context) error {
	reservationID, err := reservationParam(c)
	if err != nil {
		return err
	}
	userID, err := auth.UserID(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err := h.reservationSvc.MarkCollected(c.Request().Context(), reservationID, userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book marked as collected"})
}

func (h *Handler) CancelReservation(c echo.Context) error {
	reservationID, err := reservationParam(c)
	if err != nil {
		return err
	}
	userID, err := auth.UserID(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err := h.reservationSvc.Cancel(c.Request().Context(), reservationID, userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled"})
}

func (h *Handler) GetMyReservations(c echo.Context) error {
	userID, err := auth.UserID(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	views, err := h.reservationSvc.ListBuyerReservations(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) GetSellerReservations(c echo.Context) error {
	userID, err := auth.UserID(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	views, err := h.reservationSvc.ListSellerReservations(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

func reservationParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("reservationId"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid reservationId")
	}
	return id, nil
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrVersionConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrGatewayUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
