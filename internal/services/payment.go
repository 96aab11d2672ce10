package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/ThanhPhat1604/Assignment3SDN/internal/errors"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	repository "github.com/ThanhPhat1604/Assignment3SDN/internal/repositories"
	"github.com/google/uuid"
)

// PaymentService settles orders without touching a real gateway. The
// only transition it performs is unpaid to paid.
type PaymentService interface {
	SimulatePayment(ctx context.Context, userID uuid.UUID, req *models.SimulatePaymentRequest) (*models.Order, error)
}

type paymentService struct {
	orderRepo repository.OrderRepository
}

func NewPaymentService(orderRepo repository.OrderRepository) PaymentService {
	return &paymentService{orderRepo: orderRepo}
}

func (s *paymentService) SimulatePayment(ctx context.Context, userID uuid.UUID, req *models.SimulatePaymentRequest) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve order").WithError(err)
	}

	if order.UserID != userID {
		return nil, appErrors.NotFoundError("Order not found")
	}

	if order.Status == models.OrderStatusPaid {
		return nil, appErrors.InvalidStateError("Order is already paid")
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid); err != nil {
		return nil, appErrors.DatabaseError("Failed to update order status").WithError(err)
	}

	order.Status = models.OrderStatusPaid

	return order, nil
}
