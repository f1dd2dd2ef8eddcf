// Package reconcile audits ledger counters against reservation rows. A
// positive delta means slots were claimed with no reservation behind them.
package reconcile

import (
	"context"
	"log"
	"sort"
	"time"

	"exobooking/src/lib"
	"exobooking/src/models"
	"exobooking/src/types"
)

type ItemLister interface {
	ListIDs(ctx context.Context) ([]uint, error)
}

type RecordLister interface {
	ListRecords(ctx context.Context, itemID uint) ([]models.InventoryRecord, error)
}

type SlotCounter interface {
	CountBySlot(ctx context.Context, itemID uint) (map[string]int64, error)
}

type Reconciler struct {
	items   ItemLister
	records RecordLister
	counts  SlotCounter
}

func New(items ItemLister, records RecordLister, counts SlotCounter) *Reconciler {
	return &Reconciler{items: items, records: records, counts: counts}
}

// Run reports every drifting slot, ordered by item then date. It only reads.
func (r *Reconciler) Run(ctx context.Context) ([]types.SlotDrift, error) {
	ids, err := r.items.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	drifts := []types.SlotDrift{}
	for _, id := range ids {
		d, err := r.item(ctx, id)
		if err != nil {
			return nil, err
		}
		drifts = append(drifts, d...)
	}
	return drifts, nil
}

func (r *Reconciler) item(ctx context.Context, itemID uint) ([]types.SlotDrift, error) {
	recs, err := r.records.ListRecords(ctx, itemID)
	if err != nil {
		return nil, err
	}
	counts, err := r.counts.CountBySlot(ctx, itemID)
	if err != nil {
		return nil, err
	}

	reserved := make(map[string]int, len(recs))
	for _, rec := range recs {
		reserved[rec.Date] = rec.Reserved
	}
	dates := make([]string, 0, len(reserved)+len(counts))
	for d := range reserved {
		dates = append(dates, d)
	}
	for d := range counts {
		if _, ok := reserved[d]; !ok {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	var drifts []types.SlotDrift
	for _, d := range dates {
		delta := int64(reserved[d]) - counts[d]
		if delta == 0 {
			continue
		}
		drifts = append(drifts, types.SlotDrift{
			ItemID:       itemID,
			Date:         d,
			Reserved:     reserved[d],
			Reservations: counts[d],
			Delta:        delta,
		})
	}
	return drifts, nil
}

// RunAndAlert logs one [ALERT] line per drifting slot.
func (r *Reconciler) RunAndAlert(ctx context.Context) {
	drifts, err := r.Run(ctx)
	if err != nil {
		log.Printf("Error auditing inventory: %s\n", err.Error())
		return
	}
	for _, d := range drifts {
		log.Printf("[ALERT] inventory drift item=%d date=%s reserved=%d reservations=%d delta=%d\n", d.ItemID, d.Date, d.Reserved, d.Reservations, d.Delta)
	}
}

// Schedule registers the audit on the shared scheduler.
func (r *Reconciler) Schedule(every time.Duration) (*string, error) {
	return lib.CreateCronJob("inventory-drift-audit", func() {
		ctx, cancel := context.WithTimeout(context.Background(), every)
		defer cancel()
		r.RunAndAlert(ctx)
	}, every)
}
