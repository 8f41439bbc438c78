package service

import (
	"errors"
	"fmt"
)

// Kind classifies the recoverable errors produced by order operations.
// The zero Kind means the error is not an order error.
type Kind int

const (
	KindStateNotFound Kind = iota + 1
	KindInvalidCustomerName
	KindProductNotFound
	KindInvalidArea
	KindInvalidDate
	KindInvalidOrderNumber
)

func (k Kind) String() string {
	switch k {
	case KindStateNotFound:
		return "state_not_found"
	case KindInvalidCustomerName:
		return "invalid_customer_name"
	case KindProductNotFound:
		return "product_not_found"
	case KindInvalidArea:
		return "invalid_area"
	case KindInvalidDate:
		return "invalid_date"
	case KindInvalidOrderNumber:
		return "invalid_order_number"
	default:
		return "unknown"
	}
}

// Error is a recoverable order error: the caller may re-prompt and retry.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrStateNotFound       = &Error{Kind: KindStateNotFound, Msg: "state was not found"}
	ErrInvalidCustomerName = &Error{Kind: KindInvalidCustomerName, Msg: "name must be letters, numbers, dots, or spaces"}
	ErrProductNotFound     = &Error{Kind: KindProductNotFound, Msg: "product was not found"}
	ErrInvalidArea         = &Error{Kind: KindInvalidArea, Msg: "area must be at least 100 sq ft"}
	ErrInvalidDate         = &Error{Kind: KindInvalidDate, Msg: "invalid order date"}
	ErrInvalidOrderNumber  = &Error{Kind: KindInvalidOrderNumber, Msg: "order number is not valid"}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or zero.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsRecoverable reports whether err is an order error the caller can
// recover from by correcting input. Persistence errors are not.
func IsRecoverable(err error) bool {
	return KindOf(err) != 0
}
