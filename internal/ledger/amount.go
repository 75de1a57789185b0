package ledger

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user-entered text such as "12.50" into an amount.
// Text that is not a number, or a number that is not strictly positive,
// fails with ErrNonPositiveAmount.
func ParseAmount(text string) (float64, error) {
	text = strings.TrimSpace(text)
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, &ValidationError{Field: "amount", Value: text, Err: ErrNonPositiveAmount}
	}
	if !d.IsPositive() {
		return 0, &ValidationError{Field: "amount", Value: text, Err: ErrNonPositiveAmount}
	}
	amount := d.InexactFloat64()
	if !validAmount(amount) {
		return 0, &ValidationError{Field: "amount", Value: text, Err: ErrNonPositiveAmount}
	}
	return amount, nil
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}
