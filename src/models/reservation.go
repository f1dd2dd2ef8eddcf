package models

import (
	"exobooking/src/types"
)

// Reservation is a customer's claim on one slot of an item on a date.
// Rows are never deleted; cancelling only changes Status.
type Reservation struct {
	ID            uint                    `gorm:"primarykey" json:"id"`
	ItemID        uint                    `gorm:"not null;index:idx_reservations_item_date,priority:1" json:"item_id"`
	Date          string                  `gorm:"type:varchar(10);not null;index:idx_reservations_item_date,priority:2" json:"date"`
	CustomerName  string                  `gorm:"not null" json:"name"`
	CustomerEmail string                  `gorm:"not null" json:"email"`
	Status        types.ReservationStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	RequestID     string                  `gorm:"type:varchar(64)" json:"request_id,omitempty"`

	Tour Tour `gorm:"foreignKey:item_id" json:"-"`

	types.Timestamps
}

func (r *Reservation) ToResponse() types.APIResponseReservation {
	return types.APIResponseReservation{
		ID:     r.ID,
		ItemID: r.ItemID,
		Date:   r.Date,
		Nome:   r.CustomerName,
		Email:  r.CustomerEmail,
		Status: r.Status,
	}
}
