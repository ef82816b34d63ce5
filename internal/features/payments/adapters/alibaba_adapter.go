package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"payurl-service/internal/core/aop"
	"payurl-service/internal/core/config"
	"payurl-service/internal/core/httpclient"
	"payurl-service/internal/core/proxy"
	"payurl-service/internal/features/payments/domain"
)

var (
	// crossBorderPayURLAPI returns one pay URL for up to 30 orders.
	crossBorderPayURLAPI = aop.API{Namespace: "com.alibaba.trade", Name: "alibaba.crossBorderPay.url.get", Version: 1}
	// buyerViewAPI returns the buyer's view of one order, including trade terms.
	buyerViewAPI = aop.API{Namespace: "com.alibaba.trade", Name: "alibaba.trade.get.buyerView", Version: 1}
)

// Fixed buyerView request flags.
const (
	detailWebSite       = "1688"
	detailIncludeFields = "GuaranteesTerms,NativeLogistics,RateDetail,OrderInvoice"
	detailAttributeKeys = "[]"
)

// AlibabaAdapter implements ports.TradeGateway on the 1688 open platform.
type AlibabaAdapter struct {
	// client performs the signed calls.
	client *aop.Client
	// config holds timeouts and the retry policy.
	config config.AlibabaConfig
}

// NewAlibabaAdapter creates an AlibabaAdapter from configuration.
func NewAlibabaAdapter(cfg config.AlibabaConfig, proxySettings proxy.Settings) *AlibabaAdapter {
	creds := aop.Credentials{
		AppKey:      cfg.AppKey,
		AppSecret:   cfg.AppSecret,
		AccessToken: cfg.AccessToken,
	}
	// Per-call timeouts are applied through the request context.
	client := aop.NewClient(cfg.GatewayURL, creds, httpclient.NewClient(0, proxySettings))

	return &AlibabaAdapter{
		client: client,
		config: cfg,
	}
}

// RequestPayURL calls alibaba.crossBorderPay.url.get with the order IDs as a JSON array.
func (a *AlibabaAdapter) RequestPayURL(ctx context.Context, orderIDs domain.Batch) *aop.Response {
	encoded, err := json.Marshal([]string(orderIDs))
	if err != nil {
		return &aop.Response{Success: false, Error: fmt.Sprintf("failed to encode order IDs: %v", err), Cause: err}
	}

	params := map[string]string{
		"orderIdList": string(encoded),
	}
	policy := aop.RetryPolicy{
		MaxAttempts: a.config.PayURLMaxAttempts,
		Backoff:     a.config.PayURLRetryBackoff,
	}

	return a.client.CallWithRetry(ctx, crossBorderPayURLAPI, params, a.config.PayURLTimeout, policy)
}

// GetOrderDetail calls alibaba.trade.get.buyerView for one order.
func (a *AlibabaAdapter) GetOrderDetail(ctx context.Context, orderID domain.OrderID) *aop.Response {
	params := map[string]string{
		"webSite":       detailWebSite,
		"orderId":       orderID,
		"includeFields": detailIncludeFields,
		"attributeKeys": detailAttributeKeys,
	}

	return a.client.Call(ctx, buyerViewAPI, params, a.config.DetailTimeout)
}
