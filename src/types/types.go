package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type ReservationStatus string

const (
	RESERVATION_PENDING   ReservationStatus = "pending"
	RESERVATION_CONFIRMED ReservationStatus = "confirmed"
	RESERVATION_CANCELLED ReservationStatus = "cancelled"
)

var reservationStatuses = []ReservationStatus{
	RESERVATION_PENDING,
	RESERVATION_CONFIRMED,
	RESERVATION_CANCELLED,
}

// ParseReservationStatus accepts only the closed set of statuses, case-insensitively.
func ParseReservationStatus(s string) (ReservationStatus, bool) {
	v := ReservationStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range reservationStatuses {
		if v == st {
			return st, true
		}
	}
	return "", false
}

func (self ReservationStatus) Valid() bool {
	for _, st := range reservationStatuses {
		if self == st {
			return true
		}
	}
	return false
}

func (self *ReservationStatus) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("unsupported type %T for reservation status", value)
	}
	st, ok := ParseReservationStatus(raw)
	if !ok {
		return fmt.Errorf("invalid reservation status %q", raw)
	}
	*self = st
	return nil
}

func (self ReservationStatus) Value() (driver.Value, error) {
	if !self.Valid() {
		return nil, fmt.Errorf("invalid reservation status %q", string(self))
	}
	return string(self), nil
}

type TourStatus string

const (
	TOUR_PUBLISH TourStatus = "publish"
	TOUR_DRAFT   TourStatus = "draft"
	TOUR_TRASH   TourStatus = "trash"
)

type LedgerBackend string

const (
	LEDGER_SQL   LedgerBackend = "sql"
	LEDGER_REDIS LedgerBackend = "redis"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type ItemRequestParams struct {
	ItemID uint `uri:"item_id" binding:"required"`
}

// CreateReservationRequestBody is bound leniently: the service reports the
// precise validation failure for each field.
type CreateReservationRequestBody struct {
	ItemID uint   `json:"item_id"`
	Date   any    `json:"date"`
	Nome   string `json:"nome"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (b *CreateReservationRequestBody) CustomerName() string {
	if strings.TrimSpace(b.Nome) != "" {
		return b.Nome
	}
	return b.Name
}

type CreateReservationInput struct {
	ItemID    uint
	Date      any
	Name      string
	Email     string
	RequestID string
}

type SetCapacityRequestBody struct {
	ItemID   uint   `json:"item_id" binding:"required"`
	Date     string `json:"date" binding:"required,civildate"`
	Capacity *int   `json:"capacity" binding:"required,min=0"`
}

type IncrementReservedRequestBody struct {
	ItemID uint   `json:"item_id" binding:"required"`
	Date   string `json:"date" binding:"required,civildate"`
	Qty    int    `json:"qty" binding:"required,min=1"`
}

type AvailabilityQuery struct {
	ItemID uint   `form:"item_id" binding:"required"`
	Date   string `form:"date" binding:"required"`
}

type SetStatusRequestBody struct {
	Status string `json:"status" binding:"required"`
}

type CreateTourRequestBody struct {
	Title  string `json:"title" binding:"required"`
	Status string `json:"status" binding:"omitempty,oneof=publish draft trash"`
}

type ReservationsQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Status   string `form:"status"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

type ReservationFilter struct {
	Status   string
	OrderBy  string
	OrderDir string
	Limit    int
	Offset   int
}

// ReservationRow is a reservation joined with its tour title for listings.
type ReservationRow struct {
	ID            uint              `json:"id"`
	ItemID        uint              `json:"item_id"`
	ItemTitle     string            `json:"item_title"`
	Date          string            `json:"date"`
	CustomerName  string            `json:"name"`
	CustomerEmail string            `json:"email"`
	Status        ReservationStatus `json:"status"`
	RequestID     string            `json:"request_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

type APIResponseReservation struct {
	ID     uint              `json:"id"`
	ItemID uint              `json:"item_id"`
	Date   string            `json:"date"`
	Nome   string            `json:"nome"`
	Email  string            `json:"email"`
	Status ReservationStatus `json:"status"`
}

type APIResponseInventoryRow struct {
	Date      string `json:"date"`
	Capacity  int    `json:"capacity"`
	Reserved  int    `json:"reserved"`
	Available int    `json:"available"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// SlotDrift is a slot whose claimed counter disagrees with the number of
// reservation rows recorded for it.
type SlotDrift struct {
	ItemID       uint   `json:"item_id"`
	Date         string `json:"date"`
	Reserved     int    `json:"reserved"`
	Reservations int64  `json:"reservations"`
	Delta        int64  `json:"delta"`
}
