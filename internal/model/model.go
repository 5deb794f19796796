package model

import (
	"database/sql"
	"time"
)

type BookStatus string

const (
	BookInStock  BookStatus = "IN_STOCK"
	BookReserved BookStatus = "RESERVED"
	BookSold     BookStatus = "SOLD"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusCompleted ReservationStatus = "COMPLETED"
)

// Terminal reports whether no further transition may leave the status.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type ReservationKind string

const (
	KindPurchase ReservationKind = "purchase"
	KindRental   ReservationKind = "rental"
)

type Book struct {
	ID        int           `json:"id" db:"id"`
	OwnerID   int           `json:"ownerId" db:"owner_id"`
	Title     string        `json:"title" db:"title"`
	Author    string        `json:"author" db:"author"`
	Price     float64       `json:"price" db:"price"`
	IsForSale bool          `json:"isForSale" db:"is_for_sale"`
	IsForRent bool          `json:"isForRent" db:"is_for_rent"`
	WeeklyFee sql.NullFloat64 `json:"-" db:"weekly_fee"`
	Status    BookStatus    `json:"status" db:"status"`
	Version   int           `json:"-" db:"version"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}

type Reservation struct {
	ID              int               `json:"id" db:"id"`
	BookID          int               `json:"bookId" db:"book_id"`
	BuyerID         int               `json:"buyerId" db:"buyer_id"`
	Kind            ReservationKind   `json:"kind" db:"kind"`
	RentalWeeks     sql.NullInt64     `json:"-" db:"rental_weeks"`
	Fee             float64           `json:"fee" db:"fee"`
	Status          ReservationStatus `json:"status" db:"status"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus" db:"payment_status"`
	MerchantOrderID string            `json:"merchantOrderId" db:"merchant_order_id"`
	ExpiresAt       time.Time         `json:"expiresAt" db:"expires_at"`
	RentalStartDate sql.NullTime      `json:"-" db:"rental_start_date"`
	DueDate         sql.NullTime      `json:"-" db:"due_date"`
	Version         int               `json:"-" db:"version"`
	CreatedAt       time.Time         `json:"createdAt" db:"created_at"`
}

// IsOverdue is a derived read-time flag, never stored: a paid rental whose
// due date has passed.
func (r Reservation) IsOverdue(now time.Time) bool {
	if r.Kind != KindRental || !r.DueDate.Valid {
		return false
	}
	if r.Status != StatusConfirmed && r.Status != StatusCompleted {
		return false
	}
	return now.After(r.DueDate.Time)
}

type Payment struct {
	ID              int            `json:"id" db:"id"`
	ReservationID   int            `json:"reservationId" db:"reservation_id"`
	MerchantOrderID string         `json:"merchantOrderId" db:"merchant_order_id"`
	GatewayOrderID  sql.NullString `json:"-" db:"gateway_order_id"`
	TransactionID   sql.NullString `json:"-" db:"transaction_id"`
	Amount          float64        `json:"amount" db:"amount"`
	Currency        string         `json:"currency" db:"currency"`
	Status          PaymentStatus  `json:"status" db:"status"`
	GatewayResponse []byte         `json:"-" db:"gateway_response"`
	Version         int            `json:"-" db:"version"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
}

type CreateReservationRequest struct {
	BookID      int             `json:"bookId" validate:"required"`
	Kind        ReservationKind `json:"kind" validate:"required,oneof=purchase rental"`
	RentalWeeks int             `json:"rentalWeeks" validate:"omitempty,min=1,max=3"`
	BuyerID     int             `json:"-"`
}

type ReserveResponse struct {
	ReservationID   int     `json:"reservationId"`
	MerchantOrderID string  `json:"merchantOrderId"`
	PaymentURL      string  `json:"paymentUrl"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// StatusSnapshot is the read view returned by the status endpoint after any
// pending transition has been applied.
type StatusSnapshot struct {
	ReservationID   int               `json:"reservationId"`
	BookID          int               `json:"bookId"`
	Status          ReservationStatus `json:"status"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus"`
	Kind            ReservationKind   `json:"kind"`
	Amount          float64           `json:"amount"`
	ExpiresAt       time.Time         `json:"expiresAt"`
	RentalStartDate *time.Time        `json:"rentalStartDate,omitempty"`
	DueDate         *time.Time        `json:"dueDate,omitempty"`
	IsOverdue       bool              `json:"isOverdue"`
	TransactionID   string            `json:"transactionId,omitempty"`
}

// ReservationView is the joined list row for buyer and seller listings.
type ReservationView struct {
	ID            int               `json:"id" db:"id"`
	BookID        int               `json:"bookId" db:"book_id"`
	BookTitle     string            `json:"bookTitle" db:"book_title"`
	BookAuthor    string            `json:"bookAuthor" db:"book_author"`
	BuyerID       int               `json:"buyerId" db:"buyer_id"`
	Kind          ReservationKind   `json:"kind" db:"kind"`
	Fee           float64           `json:"fee" db:"fee"`
	Status        ReservationStatus `json:"status" db:"status"`
	PaymentStatus PaymentStatus     `json:"paymentStatus" db:"payment_status"`
	ExpiresAt     time.Time         `json:"expiresAt" db:"expires_at"`
	DueDate       sql.NullTime      `json:"-" db:"due_date"`
	IsOverdue     bool              `json:"isOverdue" db:"-"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
}
