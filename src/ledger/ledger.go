// Package ledger tracks per-(item, date) capacity and the number of slots
// already claimed. Claims are a single conditional update in the backing
// store, so concurrent callers can never push Reserved past Capacity.
package ledger

import (
	"context"
	"fmt"

	"exobooking/src/models"
	"exobooking/src/types"
	"exobooking/src/utils"
)

// Store is the persistence port. Claim must be atomic in the store itself:
// it adds qty to Reserved only when Reserved+qty <= Capacity and reports
// whether the row changed.
type Store interface {
	Get(ctx context.Context, itemID uint, date string) (*models.InventoryRecord, error)
	List(ctx context.Context, itemID uint) ([]models.InventoryRecord, error)
	UpsertCapacity(ctx context.Context, itemID uint, date string, capacity int) error
	Claim(ctx context.Context, itemID uint, date string, qty int) (bool, error)
}

type Ledger struct {
	store Store
}

func New(store Store) *Ledger {
	return &Ledger{store: store}
}

func slot(itemID uint, date string) (uint, string, error) {
	if itemID == 0 {
		return 0, "", types.ErrInvalidItem
	}
	d, ok := utils.NormalizeDate(date)
	if !ok {
		return 0, "", types.ErrInvalidDate
	}
	return itemID, d, nil
}

// GetRecord returns nil without error when no capacity was ever set.
func (l *Ledger) GetRecord(ctx context.Context, itemID uint, date string) (*models.InventoryRecord, error) {
	itemID, date, err := slot(itemID, date)
	if err != nil {
		return nil, err
	}
	rec, err := l.store.Get(ctx, itemID, date)
	if err != nil {
		return nil, fmt.Errorf("get inventory %d/%s: %w", itemID, date, err)
	}
	return rec, nil
}

// ListRecords returns every dated record of an item, oldest date first.
func (l *Ledger) ListRecords(ctx context.Context, itemID uint) ([]models.InventoryRecord, error) {
	if itemID == 0 {
		return nil, types.ErrInvalidItem
	}
	recs, err := l.store.List(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list inventory %d: %w", itemID, err)
	}
	return recs, nil
}

func (l *Ledger) AvailableSlots(ctx context.Context, itemID uint, date string) (int, error) {
	rec, err := l.GetRecord(ctx, itemID, date)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}
	return rec.Available(), nil
}

// SetCapacity creates the record or overwrites its capacity. Reserved is
// left as is, even when the new capacity is below it.
func (l *Ledger) SetCapacity(ctx context.Context, itemID uint, date string, capacity int) (bool, error) {
	itemID, date, err := slot(itemID, date)
	if err != nil {
		return false, err
	}
	if capacity < 0 {
		return false, types.ErrInvalidCapacity
	}
	if err := l.store.UpsertCapacity(ctx, itemID, date, capacity); err != nil {
		return false, fmt.Errorf("set capacity %d/%s: %w", itemID, date, err)
	}
	return true, nil
}

// TryReserve claims one slot. It reports false when the record is missing
// or already full.
func (l *Ledger) TryReserve(ctx context.Context, itemID uint, date string) (bool, error) {
	return l.IncrementReserved(ctx, itemID, date, 1)
}

func (l *Ledger) IncrementReserved(ctx context.Context, itemID uint, date string, qty int) (bool, error) {
	itemID, date, err := slot(itemID, date)
	if err != nil {
		return false, err
	}
	if qty <= 0 {
		return false, types.ErrInvalidQuantity
	}
	ok, err := l.store.Claim(ctx, itemID, date, qty)
	if err != nil {
		return false, fmt.Errorf("claim %d on %d/%s: %w", qty, itemID, date, err)
	}
	return ok, nil
}
