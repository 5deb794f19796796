package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/readar/marketplace-service/internal/errs"
	"github.com/readar/marketplace-service/internal/model"
	"github.com/readar/marketplace-service/internal/repository"
)

// fakeLedger mirrors the Postgres repository's semantics in memory:
// optimistic version checks, the single-active-reservation-per-book
// constraint and all-or-nothing transition writes. The reconciliation
// scenarios need a stateful ledger, which call-by-call mocks cannot express.
type fakeLedger struct {
	mu           sync.Mutex
	books        map[int]*model.Book
	reservations map[int]*model.Reservation
	payments     map[int]*model.Payment
	nextRsvID    int
	nextPmtID    int
}

var _ repository.Repository = (*fakeLedger)(nil)

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		books:        make(map[int]*model.Book),
		reservations: make(map[int]*model.Reservation),
		payments:     make(map[int]*model.Payment),
	}
}

func (f *fakeLedger) addBook(b model.Book) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := b
	f.books[b.ID] = &cp
}

func (f *fakeLedger) GetBook(_ context.Context, id int) (model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return *b, nil
}

func (f *fakeLedger) GetReservation(_ context.Context, id int) (model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	return *r, nil
}

func (f *fakeLedger) GetPaymentByReservation(_ context.Context, reservationID int) (model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ReservationID == reservationID {
			return *p, nil
		}
	}
	return model.Payment{}, errs.ErrNotFound
}

func (f *fakeLedger) CreateReservationWithPayment(_ context.Context, rsv model.Reservation, pmt model.Payment) (model.Reservation, model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.BookID == rsv.BookID && !r.Status.Terminal() {
			return model.Reservation{}, model.Payment{}, errs.ErrConflict
		}
	}
	f.nextRsvID++
	rsv.ID = f.nextRsvID
	rsv.CreatedAt = time.Now()
	f.nextPmtID++
	pmt.ID = f.nextPmtID
	pmt.ReservationID = rsv.ID
	pmt.CreatedAt = rsv.CreatedAt

	rcp, pcp := rsv, pmt
	f.reservations[rsv.ID] = &rcp
	f.payments[pmt.ID] = &pcp
	return rsv, pmt, nil
}

func (f *fakeLedger) DeleteReservationWithPayment(_ context.Context, reservationID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reservations[reservationID]; ok && r.Status == model.StatusPending {
		delete(f.reservations, reservationID)
		for id, p := range f.payments {
			if p.ReservationID == reservationID {
				delete(f.payments, id)
			}
		}
	}
	return nil
}

func (f *fakeLedger) SetGatewayOrder(_ context.Context, pmt model.Payment, gatewayOrderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[pmt.ID]
	if !ok || p.Version != pmt.Version {
		return errs.ErrVersionConflict
	}
	p.GatewayOrderID = sql.NullString{String: gatewayOrderID, Valid: true}
	p.Version++
	return nil
}

func (f *fakeLedger) ConfirmReservation(_ context.Context, rsv model.Reservation, pmt model.Payment, txnID string, raw []byte, rentalStart, dueDate sql.NullTime) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[rsv.ID]
	if !ok || r.Version != rsv.Version || r.Status != model.StatusPending {
		return errs.ErrVersionConflict
	}
	p, ok := f.payments[pmt.ID]
	if !ok || p.Version != pmt.Version || p.Status != model.PaymentPending {
		return errs.ErrVersionConflict
	}
	b, ok := f.books[r.BookID]
	if !ok || b.Status != model.BookInStock {
		return errs.ErrConflict
	}

	r.Status = model.StatusConfirmed
	r.PaymentStatus = model.PaymentPaid
	r.RentalStartDate = rentalStart
	r.DueDate = dueDate
	r.Version++

	p.Status = model.PaymentPaid
	p.TransactionID = sql.NullString{String: txnID, Valid: txnID != ""}
	p.GatewayResponse = raw
	p.Version++

	b.Status = model.BookReserved
	b.Version++
	return nil
}

func (f *fakeLedger) CancelReservation(_ context.Context, rsv model.Reservation, pmt model.Payment, pmtStatus model.PaymentStatus, releaseBook bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[rsv.ID]
	if !ok || r.Version != rsv.Version ||
		(r.Status != model.StatusPending && r.Status != model.StatusConfirmed) {
		return errs.ErrVersionConflict
	}
	p, ok := f.payments[pmt.ID]
	if !ok || p.Version != pmt.Version {
		return errs.ErrVersionConflict
	}

	r.Status = model.StatusCancelled
	r.PaymentStatus = pmtStatus
	r.Version++
	p.Status = pmtStatus
	p.Version++

	if releaseBook {
		if b, ok := f.books[r.BookID]; ok && b.Status == model.BookReserved {
			b.Status = model.BookInStock
			b.Version++
		}
	}
	return nil
}

func (f *fakeLedger) CompleteReservation(_ context.Context, rsv model.Reservation, bookID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[rsv.ID]
	if !ok || r.Version != rsv.Version || r.Status != model.StatusConfirmed {
		return errs.ErrVersionConflict
	}
	b, ok := f.books[bookID]
	if !ok || b.Status != model.BookReserved {
		return errs.ErrConflict
	}
	r.Status = model.StatusCompleted
	r.Version++
	b.Status = model.BookSold
	b.Version++
	return nil
}

func (f *fakeLedger) ListExpiredPending(_ context.Context, now time.Time, limit int) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Reservation
	for _, r := range f.reservations {
		if r.Status == model.StatusPending && !r.ExpiresAt.After(now) {
			out = append(out, *r)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeLedger) ListByBuyer(_ context.Context, buyerID int) ([]model.ReservationView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ReservationView
	for _, r := range f.reservations {
		if r.BuyerID == buyerID {
			out = append(out, f.view(*r))
		}
	}
	return out, nil
}

func (f *fakeLedger) ListByOwner(_ context.Context, ownerID int) ([]model.ReservationView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ReservationView
	for _, r := range f.reservations {
		if b, ok := f.books[r.BookID]; ok && b.OwnerID == ownerID {
			out = append(out, f.view(*r))
		}
	}
	return out, nil
}

func (f *fakeLedger) view(r model.Reservation) model.ReservationView {
	v := model.ReservationView{
		ID:            r.ID,
		BookID:        r.BookID,
		BuyerID:       r.BuyerID,
		Kind:          r.Kind,
		Fee:           r.Fee,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		ExpiresAt:     r.ExpiresAt,
		DueDate:       r.DueDate,
		CreatedAt:     r.CreatedAt,
	}
	if b, ok := f.books[r.BookID]; ok {
		v.BookTitle = b.Title
		v.BookAuthor = b.Author
	}
	return v
}
