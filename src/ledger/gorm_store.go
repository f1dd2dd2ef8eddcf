package ledger

import (
	"context"
	"errors"
	"time"

	"exobooking/src/models"
	"exobooking/src/models/scopes"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps records in the inventory_records table. The claim is one
// UPDATE guarded by "reserved + qty <= capacity"; the row lock taken by the
// database serializes concurrent claims on the same slot.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) Get(ctx context.Context, itemID uint, date string) (*models.InventoryRecord, error) {
	var rec models.InventoryRecord
	err := s.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Scopes(scopes.WithSlot(itemID, date)).
		First(&rec).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) List(ctx context.Context, itemID uint) ([]models.InventoryRecord, error) {
	var recs []models.InventoryRecord
	err := s.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Scopes(scopes.WithItem(itemID)).
		Order("date asc").
		Find(&recs).
		Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *GormStore) UpsertCapacity(ctx context.Context, itemID uint, date string, capacity int) error {
	now := s.now()
	rec := models.InventoryRecord{
		ItemID:   itemID,
		Date:     date,
		Capacity: capacity,
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"capacity", "updated_at"}),
		}).
		Create(&rec).
		Error
}

func (s *GormStore) Claim(ctx context.Context, itemID uint, date string, qty int) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("item_id = ? AND date = ? AND reserved + ? <= capacity", itemID, date, qty).
		Updates(map[string]any{
			"reserved":   gorm.Expr("reserved + ?", qty),
			"updated_at": s.now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
