package ports

import (
	"context"

	"payurl-service/internal/core/aop"
	"payurl-service/internal/features/payments/domain"
)

// TradeGateway is the secondary port onto the 1688 trade APIs.
// Implementations never return transport errors: a failed call yields a
// Response with Success false and Error set.
type TradeGateway interface {
	// RequestPayURL asks for one aggregated cross-border pay URL covering orderIDs.
	// Transport failures are retried inside the call.
	RequestPayURL(ctx context.Context, orderIDs domain.Batch) *aop.Response
	// GetOrderDetail fetches the buyer view of a single order. Not retried.
	GetOrderDetail(ctx context.Context, orderID domain.OrderID) *aop.Response
}

// StatusCache stores resolved pay statuses between lookups.
type StatusCache interface {
	// Get returns the cached status and true, or false on a miss.
	Get(ctx context.Context, orderID domain.OrderID) (string, bool, error)
	// Set stores a resolved status.
	Set(ctx context.Context, orderID domain.OrderID, status string) error
}

// PaymentService is the primary port used by the HTTP layer.
type PaymentService interface {
	// ResolvePayURL turns a batch of order IDs into a single pay URL,
	// dropping orders the platform rejects. Only validation errors are returned.
	ResolvePayURL(ctx context.Context, orderIDs []string) (*domain.BatchOutcome, error)
	// GetPayStatus returns the pay status description of one order.
	// Only validation errors are returned.
	GetPayStatus(ctx context.Context, orderID string) (*domain.PayStatusResult, error)
}
