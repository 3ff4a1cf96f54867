package checkout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidPayment is returned when a payment entry has an unrecognized
// method or a non-positive amount.
var ErrInvalidPayment = errors.New("invalid payment")

// ErrPaymentMismatch is returned when the tendered payments do not sum to
// the required total. The wrapped message carries the signed difference.
var ErrPaymentMismatch = errors.New("payment mismatch")

// epsilon absorbs float representation error from values that arrive
// through JSON number bindings; it is one minor currency unit and must
// never be widened to accept real under or overpayment.
var epsilon = decimal.New(1, -2)

// ReconcilePayments validates a candidate payment set against the target
// total. Pure validation: no side effects, no persistence.
func ReconcilePayments(total decimal.Decimal, payments []Payment) error {
	tendered := decimal.Zero
	for _, p := range payments {
		switch p.Method {
		case Cash, Card, Pix:
		default:
			return fmt.Errorf("%w: unknown method %q", ErrInvalidPayment, p.Method)
		}
		if !p.Amount.IsPositive() {
			return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidPayment)
		}
		tendered = tendered.Add(p.Amount)
	}

	diff := tendered.Sub(total)
	if diff.Abs().GreaterThan(epsilon) {
		return fmt.Errorf("%w: tendered differs from total by %s", ErrPaymentMismatch, diff.StringFixed(2))
	}
	return nil
}
