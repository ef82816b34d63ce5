package domain

// PayStatusUnknown is reported when the order detail call succeeded but
// carried no payStatusDesc. It is distinct from a failed lookup.
const PayStatusUnknown = "unknown status"

// PayStatusResult is the outcome of a single order pay status lookup.
type PayStatusResult struct {
	// Success reports whether the order detail call succeeded.
	Success bool `json:"success"`
	// OrderID is the normalized order ID that was looked up.
	OrderID OrderID `json:"order_id"`
	// PayStatus is the platform's human-readable status, e.g. "已付款".
	// Nil when the lookup failed.
	PayStatus *string `json:"pay_status,omitempty"`
	// ErrorMsg explains a failure, or why the status is unknown.
	ErrorMsg string `json:"error_msg,omitempty"`
}

// Known reports whether the result carries a real platform status, as opposed
// to a failure or PayStatusUnknown.
func (r *PayStatusResult) Known() bool {
	return r.Success && r.PayStatus != nil && *r.PayStatus != "" && *r.PayStatus != PayStatusUnknown
}
