package service

import (
	"context"

	"payurl-service/internal/core/logger"
	"payurl-service/internal/features/payments/domain"
	"payurl-service/internal/features/payments/ports"

	"go.uber.org/zap"
)

const (
	unknownError        = "unknown error"
	detailFailedError   = "failed to get order details"
	statusMissingDetail = "pay status detail not available"
)

// PaymentService resolves pay URLs and pay statuses against the trade gateway.
// It keeps no per-request state and is safe for concurrent use.
type PaymentService struct {
	gateway ports.TradeGateway
	cache   ports.StatusCache
	extract FailureExtractor
	log     *zap.Logger
}

// NewPaymentService creates a PaymentService. cache may be nil to disable status caching.
func NewPaymentService(gateway ports.TradeGateway, cache ports.StatusCache) *PaymentService {
	return &PaymentService{
		gateway: gateway,
		cache:   cache,
		extract: ExtractFailedIDs,
		log:     logger.Named("payments"),
	}
}

// ResolvePayURL validates orderIDs and resolves them into one pay URL.
//
// The first call covers the whole batch. If the platform rejects specific
// orders and names them in its error text, one more call is made with the
// remaining orders. There is never a third call: a failed retry reports the
// whole original batch as failed.
//
// A non-nil error is always a domain.ErrValidation, returned before any
// remote call. Every other path yields a fully populated outcome.
func (s *PaymentService) ResolvePayURL(ctx context.Context, orderIDs []string) (*domain.BatchOutcome, error) {
	batch, err := domain.NewBatch(orderIDs)
	if err != nil {
		return nil, err
	}

	log := s.log.With(zap.Int("order_count", len(batch)))
	log.Info("Resolving pay URL")

	first := s.gateway.RequestPayURL(ctx, batch)
	if ok, payURL := payURLSuccess(first); ok {
		log.Info("Pay URL resolved for all orders")
		return domain.FullSuccess(batch, payURL), nil
	}

	if first.ErrorMsg == "" {
		msg := failureText(first, unknownError)
		log.Warn("Pay URL request failed without rejection details", zap.String("error", msg))
		return domain.AllFailed(batch, msg), nil
	}

	rejected := s.extract(first.ErrorMsg)
	if len(rejected) == 0 {
		log.Warn("Pay URL rejected without attributable orders", zap.String("error_msg", first.ErrorMsg))
		return domain.AllFailed(batch, first.ErrorMsg), nil
	}

	survivors := batch.Without(rejected)
	if len(survivors) == 0 {
		log.Warn("Every order rejected", zap.Strings("rejected", rejected), zap.String("error_msg", first.ErrorMsg))
		return domain.AllFailed(batch, first.ErrorMsg), nil
	}

	log.Info("Retrying pay URL without rejected orders",
		zap.Strings("rejected", rejected),
		zap.Int("survivor_count", len(survivors)),
	)

	retry := s.gateway.RequestPayURL(ctx, survivors)
	if ok, payURL := payURLSuccess(retry); ok {
		log.Info("Pay URL resolved for surviving orders", zap.Int("survivor_count", len(survivors)))
		return domain.PartialSuccess(batch, survivors, payURL, first.ErrorMsg), nil
	}

	msg := failureText(retry, unknownError)
	log.Warn("Pay URL retry failed", zap.String("error", msg))
	return domain.AllFailed(batch, msg), nil
}

// GetPayStatus looks up the pay status description of one order.
//
// A successful detail call without tradeTerms[0].payStatusDesc reports
// domain.PayStatusUnknown. Resolved statuses are cached when a cache is set;
// cache failures only cost a remote call.
func (s *PaymentService) GetPayStatus(ctx context.Context, orderID string) (*domain.PayStatusResult, error) {
	id, err := domain.NormalizeOrderID(orderID)
	if err != nil {
		return nil, err
	}
	log := s.log.With(zap.String("order_id", id))

	if status, ok := s.cachedStatus(ctx, id, log); ok {
		return &domain.PayStatusResult{Success: true, OrderID: id, PayStatus: &status}, nil
	}

	resp := s.gateway.GetOrderDetail(ctx, id)
	if !detailSuccess(resp) {
		msg := failureText(resp, detailFailedError)
		log.Warn("Order detail lookup failed", zap.String("error", msg))
		return &domain.PayStatusResult{Success: false, OrderID: id, ErrorMsg: msg}, nil
	}

	desc, ok := resp.PayStatusDesc()
	if !ok {
		unknown := domain.PayStatusUnknown
		log.Warn("Order detail carried no pay status")
		return &domain.PayStatusResult{
			Success:   true,
			OrderID:   id,
			PayStatus: &unknown,
			ErrorMsg:  statusMissingDetail,
		}, nil
	}

	result := &domain.PayStatusResult{Success: true, OrderID: id, PayStatus: &desc}
	if s.cache != nil && result.Known() {
		if err := s.cache.Set(ctx, id, desc); err != nil {
			log.Warn("Failed to cache pay status", zap.Error(err))
		}
	}
	return result, nil
}

func (s *PaymentService) cachedStatus(ctx context.Context, id domain.OrderID, log *zap.Logger) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	status, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		log.Warn("Status cache unavailable", zap.Error(err))
		return "", false
	}
	if ok {
		log.Debug("Pay status served from cache")
	}
	return status, ok
}
