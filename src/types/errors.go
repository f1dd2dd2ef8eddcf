package types

import "errors"

type ErrorCode string

const (
	CODE_INVALID_ITEM          ErrorCode = "invalid_item"
	CODE_INVALID_DATE          ErrorCode = "invalid_date"
	CODE_INVALID_EMAIL         ErrorCode = "invalid_email"
	CODE_MISSING_NAME          ErrorCode = "missing_name"
	CODE_CAPACITY_EXHAUSTED    ErrorCode = "capacity_exhausted"
	CODE_PERSISTENCE_ERROR     ErrorCode = "persistence_error"
	CODE_UNAUTHORIZED          ErrorCode = "unauthorized"
	CODE_INVALID_STATUS_VALUE  ErrorCode = "invalid_status_value"
	CODE_INVALID_CAPACITY      ErrorCode = "invalid_capacity"
	CODE_INVALID_QUANTITY      ErrorCode = "invalid_quantity"
	CODE_RESERVATION_NOT_FOUND ErrorCode = "reservation_not_found"
	CODE_INVALID_REQUEST       ErrorCode = "invalid_request"
)

// Error carries a stable code for API clients plus an optional cause.
// Two errors match under errors.Is when their codes are equal.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e that carries cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: cause}
}

var (
	ErrInvalidItem         = &Error{Code: CODE_INVALID_ITEM, Message: "tour not found or not bookable"}
	ErrInvalidDate         = &Error{Code: CODE_INVALID_DATE, Message: "invalid date, use YYYY-MM-DD"}
	ErrInvalidEmail        = &Error{Code: CODE_INVALID_EMAIL, Message: "invalid email address"}
	ErrMissingName         = &Error{Code: CODE_MISSING_NAME, Message: "customer name is required"}
	ErrCapacityExhausted   = &Error{Code: CODE_CAPACITY_EXHAUSTED, Message: "no slots available for this tour on this date"}
	ErrPersistence         = &Error{Code: CODE_PERSISTENCE_ERROR, Message: "could not record the reservation, try again"}
	ErrUnauthorized        = &Error{Code: CODE_UNAUTHORIZED, Message: "missing or invalid credentials"}
	ErrInvalidStatusValue  = &Error{Code: CODE_INVALID_STATUS_VALUE, Message: "status must be one of pending, confirmed, cancelled"}
	ErrInvalidCapacity     = &Error{Code: CODE_INVALID_CAPACITY, Message: "capacity must be a non-negative integer"}
	ErrInvalidQuantity     = &Error{Code: CODE_INVALID_QUANTITY, Message: "quantity must be a positive integer"}
	ErrReservationNotFound = &Error{Code: CODE_RESERVATION_NOT_FOUND, Message: "reservation not found"}
	ErrInvalidRequest      = &Error{Code: CODE_INVALID_REQUEST, Message: "malformed request"}
)

// AsError extracts the taxonomy error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
