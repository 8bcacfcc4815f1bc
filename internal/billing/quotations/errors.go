package quotations

import (
	"errors"

	billing "github.com/bizledger/bizledger/internal/billing/shared"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

func isStatusError(err error) bool {
	return errors.Is(err, ErrInvalidStatus) || errors.Is(err, ErrNotEditable)
}

func isBadRequestError(err error) bool {
	return errors.Is(err, ErrItemNotSelectable) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrClientInactive) ||
		errors.Is(err, billing.ErrQuantityNotPositive) ||
		errors.Is(err, billing.ErrPriceNegative) ||
		errors.Is(err, billing.ErrDiscountNegative) ||
		errors.Is(err, billing.ErrDiscountExceedsUnit)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, shared.ErrNotFound)
}
