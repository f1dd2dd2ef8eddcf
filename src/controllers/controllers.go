package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"exobooking/src/catalog"
	"exobooking/src/ledger"
	"exobooking/src/reconcile"
	"exobooking/src/reservations"
	"exobooking/src/types"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Services bundles the collaborators a handler may call.
type Services struct {
	Catalog      *catalog.Catalog
	Ledger       *ledger.Ledger
	Reservations *reservations.Service
	Reconciler   *reconcile.Reconciler
}

// StatusFor maps an error to the HTTP status reported to the client.
func StatusFor(err error) int {
	e, ok := types.AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case types.CODE_INVALID_ITEM,
		types.CODE_INVALID_DATE,
		types.CODE_INVALID_EMAIL,
		types.CODE_MISSING_NAME,
		types.CODE_INVALID_STATUS_VALUE,
		types.CODE_INVALID_CAPACITY,
		types.CODE_INVALID_QUANTITY,
		types.CODE_INVALID_REQUEST:
		return http.StatusBadRequest
	case types.CODE_CAPACITY_EXHAUSTED:
		return http.StatusConflict
	case types.CODE_UNAUTHORIZED:
		return http.StatusUnauthorized
	case types.CODE_RESERVATION_NOT_FOUND:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorBody never leaks the wrapped cause, only the code and its message.
func ErrorBody(err error) gin.H {
	e, ok := types.AsError(err)
	if !ok {
		e = types.ErrPersistence
	}
	return gin.H{"error": e.Code, "message": e.Message}
}

// bindErrors maps a request field to the error reported when it fails
// binding or validation. Keys are struct field names and json names.
type bindErrors map[string]*types.Error

func (m bindErrors) translate(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if e, ok := m[fe.Field()]; ok {
				return e
			}
		}
		return types.ErrInvalidRequest.Wrap(err)
	}
	var terr *json.UnmarshalTypeError
	if errors.As(err, &terr) {
		if e, ok := m[terr.Field]; ok {
			return e
		}
	}
	return types.ErrInvalidRequest.Wrap(err)
}
