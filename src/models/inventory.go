package models

import "exobooking/src/types"

// InventoryRecord holds the capacity and claimed count for one (item, date).
type InventoryRecord struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	ItemID   uint   `gorm:"not null;uniqueIndex:idx_inventory_item_date,priority:1" json:"item_id"`
	Date     string `gorm:"type:varchar(10);not null;uniqueIndex:idx_inventory_item_date,priority:2" json:"date"`
	Capacity int    `gorm:"not null;default:0" json:"capacity"`
	Reserved int    `gorm:"not null;default:0" json:"reserved"`

	types.Timestamps
}

func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// Available never goes negative, even after capacity was lowered below Reserved.
func (r *InventoryRecord) Available() int {
	if r.Capacity-r.Reserved < 0 {
		return 0
	}
	return r.Capacity - r.Reserved
}

func (r *InventoryRecord) ToRow() types.APIResponseInventoryRow {
	return types.APIResponseInventoryRow{
		Date:      r.Date,
		Capacity:  r.Capacity,
		Reserved:  r.Reserved,
		Available: r.Available(),
	}
}
