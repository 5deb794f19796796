package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readar/marketplace-service/internal/errs"
	"github.com/readar/marketplace-service/internal/gateway"
	"github.com/readar/marketplace-service/internal/model"
	"github.com/readar/marketplace-service/internal/repository"
)

type Config struct {
	FrontendURL    string        `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	CallbackURL    string        `envconfig:"PAYMENT_CALLBACK_URL" default:"http://localhost:8080/api/v1/payments/callback"`
	ReservationTTL time.Duration `envconfig:"RESERVATION_TTL" default:"24h"`
	Currency       string        `envconfig:"PAYMENT_CURRENCY" default:"INR"`
}

// Service is the reconciliation orchestrator: the single writer path for the
// reservation/payment pair and the book's availability flag. Synchronous API
// calls, gateway callbacks and the expiry sweeper all converge on the same
// transition logic here.
type Service struct {
	log  *zap.Logger
	repo repository.Repository
	gw   gateway.Gateway
	pub  EventPublisher
	cfg  Config

	now func() time.Time
}

func NewService(repo repository.Repository, gw gateway.Gateway, pub EventPublisher, cfg Config, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("orchestrator"),
		repo: repo,
		gw:   gw,
		pub:  pub,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Reserve creates the PENDING reservation/payment pair atomically, then
// creates the gateway order. A gateway failure compensates with a delete so
// a reservation that never reached the gateway leaves no trace.
func (s *Service) Reserve(ctx context.Context, req model.CreateReservationRequest) (model.ReserveResponse, error) {
	book, err := s.repo.GetBook(ctx, req.BookID)
	if err != nil {
		return model.ReserveResponse{}, err
	}
	if err := validateReserve(book, req); err != nil {
		return model.ReserveResponse{}, err
	}

	now := s.now()
	merchantOrderID := newMerchantOrderID()
	rsv := model.Reservation{
		BookID:          book.ID,
		BuyerID:         req.BuyerID,
		Kind:            req.Kind,
		Fee:             computeFee(book, req),
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentPending,
		MerchantOrderID: merchantOrderID,
		ExpiresAt:       now.Add(s.cfg.ReservationTTL),
	}
	if req.Kind == model.KindRental {
		rsv.RentalWeeks.Int64, rsv.RentalWeeks.Valid = int64(req.RentalWeeks), true
	}
	pmt := model.Payment{
		MerchantOrderID: merchantOrderID,
		Amount:          rsv.Fee,
		Currency:        s.cfg.Currency,
		Status:          model.PaymentPending,
	}

	rsv, pmt, err = s.repo.CreateReservationWithPayment(ctx, rsv, pmt)
	if err != nil {
		return model.ReserveResponse{}, err
	}

	order, err := s.gw.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:          rsv.Fee,
		RedirectURL:     fmt.Sprintf("%s?reservationId=%d", s.cfg.CallbackURL, rsv.ID),
		MerchantOrderID: merchantOrderID,
		Metadata: map[string]string{
			"udf1": fmt.Sprint(rsv.ID),
			"udf2": fmt.Sprint(book.ID),
			"udf3": fmt.Sprint(req.BuyerID),
			"udf4": string(req.Kind),
			"udf5": book.Title,
		},
	})
	if err != nil {
		if delErr := s.repo.DeleteReservationWithPayment(ctx, rsv.ID); delErr != nil {
			s.log.Error("compensating delete failed", withID(rsv.ID, delErr)...)
		}
		return model.ReserveResponse{}, errors.Wrap(errs.ErrGatewayUnavailable, err.Error())
	}

	if err := s.repo.SetGatewayOrder(ctx, pmt, order.OrderID); err != nil {
		// non-fatal: the merchant order id is the reconciliation key
		s.log.Warn("store gateway order id", withID(rsv.ID, err)...)
	}
	s.publish(eventCreated, rsv)

	return model.ReserveResponse{
		ReservationID:   rsv.ID,
		MerchantOrderID: merchantOrderID,
		PaymentURL:      order.PaymentURL,
		Amount:          rsv.Fee,
		Currency:        pmt.Currency,
	}, nil
}

// HandleCallback treats the unauthenticated callback purely as a hint to
// look now: it re-derives truth from the gateway and never trusts the
// inbound payload. It always yields a redirect target, never an error.
func (s *Service) HandleCallback(ctx context.Context, reservationID int) string {
	rsv, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		s.log.Warn("callback for unknown reservation", withID(reservationID, err)...)
		return s.cfg.FrontendURL + "/payment-failed"
	}

	rsv, err = s.reconcile(ctx, rsv)
	if err != nil {
		s.log.Warn("callback reconcile", withID(reservationID, err)...)
	}
	return s.redirectFor(rsv)
}

// CheckStatus returns the reservation snapshot for its buyer or the book
// owner, polling and applying any pending transition first.
func (s *Service) CheckStatus(ctx context.Context, reservationID, requesterID int) (model.StatusSnapshot, error) {
	rsv, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return model.StatusSnapshot{}, err
	}
	book, err := s.repo.GetBook(ctx, rsv.BookID)
	if err != nil {
		return model.StatusSnapshot{}, err
	}
	if requesterID != rsv.BuyerID && requesterID != book.OwnerID {
		return model.StatusSnapshot{}, errs.ErrForbidden
	}

	if rsv.Status == model.StatusPending {
		if refreshed, err := s.reconcile(ctx, rsv); err != nil {
			// degraded: status temporarily unknown, report what we hold
			s.log.Warn("status reconcile", withID(reservationID, err)...)
		} else {
			rsv = refreshed
		}
	}

	pmt, err := s.repo.GetPaymentByReservation(ctx, rsv.ID)
	if err != nil {
		return model.StatusSnapshot{}, err
	}
	return s.snapshot(rsv, pmt), nil
}

// MarkCollected is the owner's hand-over acknowledgement:
// CONFIRMED -> COMPLETED, book SOLD.
func (s *Service) MarkCollected(ctx context.Context, reservationID, ownerID int) error {
	rsv, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	book, err := s.repo.GetBook(ctx, rsv.BookID)
	if err != nil {
		return err
	}
	if book.OwnerID != ownerID {
		return errs.ErrForbidden
	}
	if rsv.Status != model.StatusConfirmed {
		return errs.ErrInvalidState
	}

	if err := s.repo.CompleteReservation(ctx, rsv, book.ID); err != nil {
		if !errors.Is(err, errs.ErrVersionConflict) {
			return err
		}
		// one retry after re-reading; a prior writer may have finished it
		rsv, err = s.repo.GetReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if rsv.Status != model.StatusConfirmed {
			return errs.ErrInvalidState
		}
		if err := s.repo.CompleteReservation(ctx, rsv, book.ID); err != nil {
			return err
		}
	}
	s.publish(eventCompleted, rsv)
	return nil
}

// Cancel is the buyer-initiated path. A pending reservation is verified
// against the gateway first so a payment that just completed is never thrown
// away; a confirmed one is refunded before its book returns to the market.
func (s *Service) Cancel(ctx context.Context, reservationID, buyerID int) error {
	rsv, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	if rsv.BuyerID != buyerID {
		return errs.ErrForbidden
	}
	if rsv.Status.Terminal() {
		return errs.ErrInvalidState
	}

	pmt, err := s.repo.GetPaymentByReservation(ctx, rsv.ID)
	if err != nil {
		return err
	}

	switch rsv.Status {
	case model.StatusPending:
		st, err := s.gw.PollStatus(ctx, rsv.MerchantOrderID)
		if err != nil {
			return errors.Wrap(errs.ErrGatewayUnavailable, err.Error())
		}
		if st.State == gateway.StateCompleted {
			// the money arrived first; confirm and let the buyer
			// cancel the confirmed reservation explicitly
			if err := s.apply(ctx, rsv, pmt, st); err != nil {
				s.log.Warn("cancel: late confirm", withID(rsv.ID, err)...)
			}
			return errs.ErrInvalidState
		}
		if err := s.repo.CancelReservation(ctx, rsv, pmt, model.PaymentFailed, false); err != nil {
			return err
		}
		s.publish(eventCancelled, rsv)
		return nil

	case model.StatusConfirmed:
		refundID := newRefundID()
		if _, err := s.gw.Refund(ctx, rsv.MerchantOrderID, rsv.Fee, refundID); err != nil {
			s.log.Error("refund failed, manual intervention required",
				zap.Int("reservation_id", rsv.ID),
				zap.String("merchant_order_id", rsv.MerchantOrderID),
				zap.String("refund_id", refundID),
				zap.Error(err))
			return errors.Wrap(errs.ErrGatewayUnavailable, err.Error())
		}
		if err := s.repo.CancelReservation(ctx, rsv, pmt, model.PaymentRefunded, true); err != nil {
			return err
		}
		s.publish(eventCancelled, rsv)
		return nil
	}
	return errs.ErrInvalidState
}

// Reconcile drives one reservation through a poll-and-apply cycle. The
// sweeper uses it as its per-reservation transition path.
func (s *Service) Reconcile(ctx context.Context, reservationID int) error {
	rsv, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	_, err = s.reconcile(ctx, rsv)
	return err
}

func (s *Service) ListBuyerReservations(ctx context.Context, buyerID int) ([]model.ReservationView, error) {
	views, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return s.deriveOverdue(views), nil
}

func (s *Service) ListSellerReservations(ctx context.Context, ownerID int) ([]model.ReservationView, error) {
	views, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.deriveOverdue(views), nil
}

// reconcile polls the gateway for a non-terminal reservation and applies the
// resulting transition, returning the refreshed record.
func (s *Service) reconcile(ctx context.Context, rsv model.Reservation) (model.Reservation, error) {
	if rsv.Status != model.StatusPending {
		return rsv, nil
	}
	pmt, err := s.repo.GetPaymentByReservation(ctx, rsv.ID)
	if err != nil {
		return rsv, err
	}
	if pmt.Status != model.PaymentPending {
		// a prior writer already settled the pair
		s.log.Debug("reconcile no-op, payment already settled", zap.Int("reservation_id", rsv.ID))
		return s.repo.GetReservation(ctx, rsv.ID)
	}

	st, err := s.gw.PollStatus(ctx, rsv.MerchantOrderID)
	if err != nil {
		// status temporarily unknown; the next poll/sweep/callback retries
		return rsv, errors.Wrap(errs.ErrGatewayUnavailable, err.Error())
	}

	if err := s.apply(ctx, rsv, pmt, st); err != nil {
		return rsv, err
	}
	return s.repo.GetReservation(ctx, rsv.ID)
}

// apply executes the decided transition, retrying once on an optimistic
// write race. A second conflict means a concurrent writer applied the
// authoritative outcome; the event is dropped and logged.
func (s *Service) apply(ctx context.Context, rsv model.Reservation, pmt model.Payment, st gateway.OrderStatus) error {
	err := s.applyOnce(ctx, rsv, pmt, st)
	if !errors.Is(err, errs.ErrVersionConflict) {
		return err
	}

	rsv, err = s.repo.GetReservation(ctx, rsv.ID)
	if err != nil {
		return err
	}
	pmt, err = s.repo.GetPaymentByReservation(ctx, rsv.ID)
	if err != nil {
		return err
	}
	if err := s.applyOnce(ctx, rsv, pmt, st); err != nil {
		if errors.Is(err, errs.ErrVersionConflict) {
			s.log.Info("transition already applied by concurrent writer",
				zap.Int("reservation_id", rsv.ID))
			return nil
		}
		return err
	}
	return nil
}

func (s *Service) applyOnce(ctx context.Context, rsv model.Reservation, pmt model.Payment, st gateway.OrderStatus) error {
	now := s.now()
	switch decide(rsv, pmt, st.State, now) {
	case outcomeConfirm:
		start, due := rentalDates(rsv, now)
		if err := s.repo.ConfirmReservation(ctx, rsv, pmt, st.TransactionID, st.Raw, start, due); err != nil {
			return err
		}
		s.publish(eventConfirmed, rsv)
		return nil

	case outcomeCancel:
		if err := s.repo.CancelReservation(ctx, rsv, pmt, model.PaymentFailed, false); err != nil {
			return err
		}
		if st.State == gateway.StatePending {
			s.publish(eventExpired, rsv)
		} else {
			s.publish(eventCancelled, rsv)
		}
		return nil

	case outcomeNone:
		if rsv.Status.Terminal() && st.State == gateway.StateCompleted {
			// late success after terminal resolution: availability was
			// already returned to the marketplace, refund is out-of-band
			s.log.Warn("late gateway success on terminal reservation",
				zap.Int("reservation_id", rsv.ID),
				zap.String("status", string(rsv.Status)))
		}
		return nil
	}
	return nil
}

func (s *Service) snapshot(rsv model.Reservation, pmt model.Payment) model.StatusSnapshot {
	snap := model.StatusSnapshot{
		ReservationID: rsv.ID,
		BookID:        rsv.BookID,
		Status:        rsv.Status,
		PaymentStatus: rsv.PaymentStatus,
		Kind:          rsv.Kind,
		Amount:        rsv.Fee,
		ExpiresAt:     rsv.ExpiresAt,
		IsOverdue:     rsv.IsOverdue(s.now()),
		TransactionID: pmt.TransactionID.String,
	}
	if rsv.RentalStartDate.Valid {
		t := rsv.RentalStartDate.Time
		snap.RentalStartDate = &t
	}
	if rsv.DueDate.Valid {
		t := rsv.DueDate.Time
		snap.DueDate = &t
	}
	return snap
}

func (s *Service) redirectFor(rsv model.Reservation) string {
	switch rsv.Status {
	case model.StatusConfirmed, model.StatusCompleted:
		return fmt.Sprintf("%s/payment-success?reservationId=%d", s.cfg.FrontendURL, rsv.ID)
	case model.StatusCancelled:
		return fmt.Sprintf("%s/payment-failed?reservationId=%d", s.cfg.FrontendURL, rsv.ID)
	case model.StatusPending:
		return fmt.Sprintf("%s/payment-pending?reservationId=%d", s.cfg.FrontendURL, rsv.ID)
	}
	return s.cfg.FrontendURL + "/payment-failed"
}

func (s *Service) deriveOverdue(views []model.ReservationView) []model.ReservationView {
	now := s.now()
	for i := range views {
		v := &views[i]
		v.IsOverdue = v.Kind == model.KindRental && v.DueDate.Valid &&
			(v.Status == model.StatusConfirmed || v.Status == model.StatusCompleted) &&
			now.After(v.DueDate.Time)
	}
	return views
}

func newMerchantOrderID() string {
	return "RES-" + strings.ToUpper(uuid.NewString()[:18])
}

func newRefundID() string {
	return "REF-" + strings.ToUpper(uuid.NewString()[:18])
}

func withID(id int, err error) []zap.Field {
	return []zap.Field{zap.Int("reservation_id", id), zap.Error(err)}
}
