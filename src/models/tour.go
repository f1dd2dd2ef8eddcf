package models

import (
	"exobooking/src/types"

	"gorm.io/gorm"
)

// Tour is the bookable item. It is owned by the content catalog; this service
// only needs its identity, title and whether it is still live.
type Tour struct {
	ID     uint             `gorm:"primarykey" json:"id"`
	Title  string           `gorm:"not null" json:"title"`
	Slug   string           `gorm:"index" json:"slug"`
	Status types.TourStatus `gorm:"type:varchar(16);default:'publish'" json:"status"`

	types.Timestamps
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Tour) Bookable() bool {
	return t.ID > 0 && t.Status != types.TOUR_TRASH && !t.DeletedAt.Valid
}
