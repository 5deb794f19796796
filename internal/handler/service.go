package handler

import (
	"context"

	"github.com/readar/marketplace-service/internal/model"
	"github.com/readar/marketplace-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ ReservationService = (*service.Service)(nil)

type ReservationService interface {
	Reserve(ctx context.Context, req model.CreateReservationRequest) (model.ReserveResponse, error)
	HandleCallback(ctx context.Context, reservationID int) string
	CheckStatus(ctx context.Context, reservationID, requesterID int) (model.StatusSnapshot, error)
	MarkCollected(ctx context.Context, reservationID, ownerID int) error
	Cancel(ctx context.Context, reservationID, buyerID int) error
	ListBuyerReservations(ctx context.Context, buyerID int) ([]model.ReservationView, error)
	ListSellerReservations(ctx context.Context, ownerID int) ([]model.ReservationView, error)
}
