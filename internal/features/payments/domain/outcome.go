package domain

// BatchOutcome is the result of resolving a batch into a pay URL.
//
// SuccessCount+FailedCount always equals TotalCount, which is the size of
// the original batch.
type BatchOutcome struct {
	// Success is true when PayURL covers at least one order.
	Success bool `json:"success"`
	// PayURL is the aggregated payment link for SuccessOrderIDs.
	PayURL string `json:"pay_url,omitempty"`
	// SuccessOrderIDs are the orders covered by PayURL.
	SuccessOrderIDs Batch `json:"success_order_ids"`
	// FailedOrderIDs are the orders the platform rejected.
	FailedOrderIDs Batch `json:"failed_order_ids"`
	SuccessCount   int   `json:"success_count"`
	FailedCount    int   `json:"failed_count"`
	TotalCount     int   `json:"total_count"`
	// ErrorMsg is the platform's rejection text. It is kept on partial
	// success so callers can see why some orders were dropped.
	ErrorMsg string `json:"error_msg,omitempty"`
}

// FullSuccess is the outcome when every order in batch is covered by payURL.
func FullSuccess(batch Batch, payURL string) *BatchOutcome {
	return &BatchOutcome{
		Success:         true,
		PayURL:          payURL,
		SuccessOrderIDs: batch.Clone(),
		FailedOrderIDs:  Batch{},
		SuccessCount:    len(batch),
		FailedCount:     0,
		TotalCount:      len(batch),
	}
}

// PartialSuccess is the outcome when payURL covers survivors and the rest of batch was rejected.
func PartialSuccess(batch, survivors Batch, payURL, errorMsg string) *BatchOutcome {
	failed := batch.Without(survivors)
	return &BatchOutcome{
		Success:         true,
		PayURL:          payURL,
		SuccessOrderIDs: survivors.Clone(),
		FailedOrderIDs:  failed,
		SuccessCount:    len(survivors),
		FailedCount:     len(failed),
		TotalCount:      len(batch),
		ErrorMsg:        errorMsg,
	}
}

// AllFailed is the outcome when no order in batch could be paid.
func AllFailed(batch Batch, errorMsg string) *BatchOutcome {
	return &BatchOutcome{
		Success:         false,
		SuccessOrderIDs: Batch{},
		FailedOrderIDs:  batch.Clone(),
		SuccessCount:    0,
		FailedCount:     len(batch),
		TotalCount:      len(batch),
		ErrorMsg:        errorMsg,
	}
}
