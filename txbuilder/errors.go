package txbuilder

import (
	"errors"
	"fmt"

	"github.com/cardanokit/txplan/ouroboros/num"
	"github.com/cardanokit/txplan/ouroboros/shared"
)

// ErrBadRequest marks caller mistakes that no amount of retrying can fix:
// multiple send-all outputs, negative token outputs, missing inputs.
var ErrBadRequest = errors.New("bad request")

// ShortfallError reports that the selected inputs cannot cover an asset's
// obligations. It wraps shared.ErrInsufficientFunds.
type ShortfallError struct {
	Coin      shared.AssetID
	Available num.Int
	Needed    num.Int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("not enough %v to balance the transaction; available: %v; needed: %v",
		e.Coin, e.Available, e.Needed)
}

func (e *ShortfallError) Unwrap() error {
	return shared.ErrInsufficientFunds
}
