// Package payment models the charge capability consumed by the
// reservation engine. Implementations are injected at construction so
// tests and local runs use the fake gateway.
package payment

import (
	"context"
	"fmt"
)

// Result describes the outcome of one charge attempt. A non-nil error
// from Charge means the gateway could not be reached; Success=false with
// a nil error means the gateway declined the charge.
type Result struct {
	Success       bool
	TransactionID string
	ErrorMessage  string
}

type Gateway interface {
	Charge(ctx context.Context, amountCents int64, token string) (Result, error)
}

// Fake approves the tokens "ok" and "success" and declines everything
// else. It never fails transport-wise.
type Fake struct{}

func (Fake) Charge(_ context.Context, _ int64, token string) (Result, error) {
	if token == "ok" || token == "success" {
		return Result{Success: true, TransactionID: "fake_txn_" + token}, nil
	}
	return Result{Success: false, ErrorMessage: "payment declined by gateway"}, nil
}

// Stub stands in for a real provider integration. It approves every
// charge with a reference derived from the token.
type Stub struct {
	APIKey string
}

func (s Stub) Charge(_ context.Context, _ int64, token string) (Result, error) {
	ref := token
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return Result{Success: true, TransactionID: fmt.Sprintf("txn_%s", ref)}, nil
}
