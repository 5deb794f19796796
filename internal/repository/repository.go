package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readar/marketplace-service/internal/errs"
	"github.com/readar/marketplace-service/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

// Repository is the durable ledger for books, reservations and payments.
// All reservation/payment writes are optimistic: they carry the version read
// and fail with ErrVersionConflict when a concurrent writer got there first.
type Repository interface {
	GetBook(ctx context.Context, id int) (model.Book, error)
	GetReservation(ctx context.Context, id int) (model.Reservation, error)
	GetPaymentByReservation(ctx context.Context, reservationID int) (model.Payment, error)

	CreateReservationWithPayment(ctx context.Context, rsv model.Reservation, pmt model.Payment) (model.Reservation, model.Payment, error)
	DeleteReservationWithPayment(ctx context.Context, reservationID int) error
	SetGatewayOrder(ctx context.Context, pmt model.Payment, gatewayOrderID string) error

	ConfirmReservation(ctx context.Context, rsv model.Reservation, pmt model.Payment, txnID string, raw []byte, rentalStart, dueDate sql.NullTime) error
	CancelReservation(ctx context.Context, rsv model.Reservation, pmt model.Payment, pmtStatus model.PaymentStatus, releaseBook bool) error
	CompleteReservation(ctx context.Context, rsv model.Reservation, bookID int) error

	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error)
	ListByBuyer(ctx context.Context, buyerID int) ([]model.ReservationView, error)
	ListByOwner(ctx context.Context, ownerID int) ([]model.ReservationView, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

var _ Repository = (*repository)(nil)

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName        = `books`
	reservationsTableName = `reservations`
	paymentsTableName     = `payments`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	q, args, err := qb.Select("id", "owner_id", "title", "author", "price",
		"is_for_sale", "is_for_rent", "weekly_fee", "status", "version", "created_at").
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetReservation(ctx context.Context, id int) (model.Reservation, error) {
	q, args, err := qb.Select("id", "book_id", "buyer_id", "kind", "rental_weeks",
		"fee", "status", "payment_status", "merchant_order_id", "expires_at",
		"rental_start_date", "due_date", "version", "created_at").
		From(reservationsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var rsv model.Reservation
	if err := r.db.GetContext(ctx, &rsv, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}
	return rsv, nil
}

func (r *repository) GetPaymentByReservation(ctx context.Context, reservationID int) (model.Payment, error) {
	q, args, err := qb.Select("id", "reservation_id", "merchant_order_id", "gateway_order_id",
		"transaction_id", "amount", "currency", "status", "gateway_response", "version", "created_at").
		From(paymentsTableName).
		Where(sq.Eq{"reservation_id": reservationID}).
		ToSql()
	if err != nil {
		return model.Payment{}, err
	}
	var pmt model.Payment
	if err := r.db.GetContext(ctx, &pmt, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Payment{}, errs.ErrNotFound
		}
		return model.Payment{}, err
	}
	return pmt, nil
}

// CreateReservationWithPayment persists the pair atomically. The partial
// unique index on active reservations turns a double-booking race into a
// unique violation, reported as ErrConflict.
func (r *repository) CreateReservationWithPayment(ctx context.Context, rsv model.Reservation, pmt model.Payment) (model.Reservation, model.Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Reservation{}, model.Payment{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q, args, err := qb.Insert(reservationsTableName).
		Columns("book_id", "buyer_id", "kind", "rental_weeks", "fee",
			"status", "payment_status", "merchant_order_id", "expires_at").
		Values(rsv.BookID, rsv.BuyerID, rsv.Kind, rsv.RentalWeeks, rsv.Fee,
			rsv.Status, rsv.PaymentStatus, rsv.MerchantOrderID, rsv.ExpiresAt).
		Suffix("returning id, version, created_at").
		ToSql()
	if err != nil {
		return model.Reservation{}, model.Payment{}, err
	}
	if err := tx.QueryRowxContext(ctx, q, args...).Scan(&rsv.ID, &rsv.Version, &rsv.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return model.Reservation{}, model.Payment{}, errs.ErrConflict
		}
		return model.Reservation{}, model.Payment{}, err
	}

	pmt.ReservationID = rsv.ID
	q, args, err = qb.Insert(paymentsTableName).
		Columns("reservation_id", "merchant_order_id", "amount", "currency", "status").
		Values(pmt.ReservationID, pmt.MerchantOrderID, pmt.Amount, pmt.Currency, pmt.Status).
		Suffix("returning id, version, created_at").
		ToSql()
	if err != nil {
		return model.Reservation{}, model.Payment{}, err
	}
	if err := tx.QueryRowxContext(ctx, q, args...).Scan(&pmt.ID, &pmt.Version, &pmt.CreatedAt); err != nil {
		return model.Reservation{}, model.Payment{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Reservation{}, model.Payment{}, err
	}
	return rsv, pmt, nil
}

// DeleteReservationWithPayment is the compensating delete for a reservation
// whose gateway order was never created. Only a still-PENDING pair is removed.
func (r *repository) DeleteReservationWithPayment(ctx context.Context, reservationID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`delete from %s where reservation_id = $1 and status = $2`, paymentsTableName),
		reservationID, model.PaymentPending); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`delete from %s where id = $1 and status = $2`, reservationsTableName),
		reservationID, model.StatusPending); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repository) SetGatewayOrder(ctx context.Context, pmt model.Payment, gatewayOrderID string) error {
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`update %s set gateway_order_id = $1, version = version + 1
			where id = $2 and version = $3`, paymentsTableName),
		gatewayOrderID, pmt.ID, pmt.Version)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// ConfirmReservation applies PENDING -> CONFIRMED as a single transaction:
// reservation paid, payment settled, book flipped to RESERVED, rental dates
// set exactly once.
func (r *repository) ConfirmReservation(ctx context.Context, rsv model.Reservation, pmt model.Payment, txnID string, raw []byte, rentalStart, dueDate sql.NullTime) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`update %s set status = $1, payment_status = $2,
			rental_start_date = $3, due_date = $4, version = version + 1
			where id = $5 and version = $6 and status = $7`, reservationsTableName),
		model.StatusConfirmed, model.PaymentPaid, rentalStart, dueDate,
		rsv.ID, rsv.Version, model.StatusPending)
	if err != nil {
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		fmt.Sprintf(`update %s set status = $1, transaction_id = $2,
			gateway_response = $3, version = version + 1
			where id = $4 and version = $5 and status = $6`, paymentsTableName),
		model.PaymentPaid, nullString(txnID), raw,
		pmt.ID, pmt.Version, model.PaymentPending)
	if err != nil {
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		fmt.Sprintf(`update %s set status = $1, version = version + 1
			where id = $2 and status = $3`, booksTableName),
		model.BookReserved, rsv.BookID, model.BookInStock)
	if err != nil {
		return err
	}
	if err := checkAffected(res); err != nil {
		// the single-active-reservation invariant should make this
		// unreachable; surface as a conflict and roll back
		return errs.ErrConflict
	}

	return tx.Commit()
}

// CancelReservation moves the pair to its terminal failure state. The book
// is released back to IN_STOCK only on the refund path, where confirmation
// had already flipped it to RESERVED.
func (r *repository) CancelReservation(ctx context.Context, rsv model.Reservation, pmt model.Payment, pmtStatus model.PaymentStatus, releaseBook bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`update %s set status = $1, payment_status = $2, version = version + 1
			where id = $3 and version = $4 and status in ($5, $6)`, reservationsTableName),
		model.StatusCancelled, pmtStatus,
		rsv.ID, rsv.Version, model.StatusPending, model.StatusConfirmed)
	if err != nil {
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		fmt.Sprintf(`update %s set status = $1, version = version + 1
			where id = $2 and version = $3`, paymentsTableName),
		pmtStatus, pmt.ID, pmt.Version)
	if err != nil {
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}

	if releaseBook {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`update %s set status = $1, version = version + 1
				where id = $2 and status = $3`, booksTableName),
			model.BookInStock, rsv.BookID, model.BookReserved); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// CompleteReservation applies CONFIRMED -> COMPLETED and marks the book SOLD.
func (r *repository) CompleteReservation(ctx context.Context, rsv model.Reservation, bookID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`update %s set status = $1, version = version + 1
			where id = $2 and version = $3 and status = $4`, reservationsTableName),
		model.StatusCompleted, rsv.ID, rsv.Version, model.StatusConfirmed)
	if err != nil {
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		fmt.Sprintf(`update %s set status = $1, version = version + 1
			where id = $2 and status = $3`, booksTableName),
		model.BookSold, bookID, model.BookReserved)
	if err != nil {
		return err
	}
	if err := checkAffected(res); err != nil {
		return errs.ErrConflict
	}

	return tx.Commit()
}

func (r *repository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error) {
	q, args, err := qb.Select("id", "book_id", "buyer_id", "kind", "rental_weeks",
		"fee", "status", "payment_status", "merchant_order_id", "expires_at",
		"rental_start_date", "due_date", "version", "created_at").
		From(reservationsTableName).
		Where(sq.Eq{"status": model.StatusPending}).
		Where(sq.LtOrEq{"expires_at": now}).
		OrderBy("expires_at asc").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Reservation
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID int) ([]model.ReservationView, error) {
	return r.listViews(ctx, sq.Eq{"r.buyer_id": buyerID})
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int) ([]model.ReservationView, error) {
	return r.listViews(ctx, sq.Eq{"b.owner_id": ownerID})
}

func (r *repository) listViews(ctx context.Context, pred any) ([]model.ReservationView, error) {
	q, args, err := qb.Select("r.id", "r.book_id", "b.title as book_title", "b.author as book_author",
		"r.buyer_id", "r.kind", "r.fee", "r.status", "r.payment_status",
		"r.expires_at", "r.due_date", "r.created_at").
		From(reservationsTableName + " r").
		Join(fmt.Sprintf("%s b on b.id = r.book_id", booksTableName)).
		Where(pred).
		OrderBy("r.created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.ReservationView
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrVersionConflict
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
