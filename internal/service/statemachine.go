package service

import (
	"database/sql"
	"time"

	"github.com/readar/marketplace-service/internal/errs"
	"github.com/readar/marketplace-service/internal/gateway"
	"github.com/readar/marketplace-service/internal/model"
)

// outcome is the decision computed for a pending reservation given the
// gateway's polled state. Pure logic, no I/O; the orchestrator executes the
// corresponding ledger writes.
type outcome int

const (
	// outcomeNone: nothing to apply (terminal, already settled, or still
	// waiting inside the payment window).
	outcomeNone outcome = iota
	outcomeConfirm
	outcomeCancel
)

// decide reconciles a reservation/payment pair against the polled gateway
// state.
//
// The payment record is the idempotency anchor: once it left PENDING a prior
// writer applied the authoritative transition and every later event is a
// no-op. A success observed while the pair is still PENDING confirms even
// when the deadline has passed by observation time, since completion time at
// the gateway is not observable; only the deadline expiring with no success
// in sight cancels.
func decide(rsv model.Reservation, pmt model.Payment, state gateway.PaymentState, now time.Time) outcome {
	if rsv.Status.Terminal() {
		return outcomeNone
	}
	if pmt.Status != model.PaymentPending {
		return outcomeNone
	}
	if rsv.Status != model.StatusPending {
		return outcomeNone
	}

	switch state {
	case gateway.StateCompleted:
		return outcomeConfirm
	case gateway.StateFailed:
		return outcomeCancel
	case gateway.StatePending:
		if now.After(rsv.ExpiresAt) {
			return outcomeCancel
		}
		return outcomeNone
	}
	return outcomeNone
}

// rentalDates derives the rental window from the wall clock of confirmation,
// not of creation, so slow payments never shrink it. Set exactly once.
func rentalDates(rsv model.Reservation, now time.Time) (start, due sql.NullTime) {
	if rsv.Kind != model.KindRental || !rsv.RentalWeeks.Valid {
		return sql.NullTime{}, sql.NullTime{}
	}
	start = sql.NullTime{Time: now, Valid: true}
	due = sql.NullTime{Time: now.Add(time.Duration(rsv.RentalWeeks.Int64) * 7 * 24 * time.Hour), Valid: true}
	return start, due
}

// validateReserve holds the create-guards of the reservation lifecycle:
// stock, self-dealing, rentability and the allowed week counts.
func validateReserve(book model.Book, req model.CreateReservationRequest) error {
	if book.Status != model.BookInStock {
		return errs.ErrConflict
	}
	if book.OwnerID == req.BuyerID {
		return errs.ErrConflict
	}
	switch req.Kind {
	case model.KindPurchase:
		if !book.IsForSale {
			return errs.ErrInvalidArgument
		}
	case model.KindRental:
		if !book.IsForRent || !book.WeeklyFee.Valid {
			return errs.ErrInvalidArgument
		}
		if req.RentalWeeks < 1 || req.RentalWeeks > 3 {
			return errs.ErrInvalidArgument
		}
	}
	return nil
}

// computeFee allocates the full amount due up front: book price for a
// purchase, weekly fee times weeks for a rental.
func computeFee(book model.Book, req model.CreateReservationRequest) float64 {
	if req.Kind == model.KindRental {
		return book.WeeklyFee.Float64 * float64(req.RentalWeeks)
	}
	return book.Price
}
