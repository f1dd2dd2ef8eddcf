package reservations

import (
	"context"
	"errors"

	"exobooking/src/models"
	"exobooking/src/models/scopes"
	"exobooking/src/types"
	"exobooking/src/utils"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, r *models.Reservation) error
	List(ctx context.Context, filter types.ReservationFilter) ([]types.ReservationRow, error)
	Count(ctx context.Context, filter types.ReservationFilter) (int64, error)
	Get(ctx context.Context, id uint) (*types.ReservationRow, error)
	UpdateStatus(ctx context.Context, id uint, status types.ReservationStatus) (bool, error)
	CountBySlot(ctx context.Context, itemID uint) (map[string]int64, error)
}

// Columns a listing may be ordered by, keyed by the public name.
var orderColumns = map[string]string{
	"id":         "reservations.id",
	"date":       "reservations.date",
	"created_at": "reservations.created_at",
	"name":       "reservations.customer_name",
	"status":     "reservations.status",
}

const DEFAULT_ORDER_BY = "created_at"

const rowColumns = "reservations.id, reservations.item_id, tours.title AS item_title, reservations.date, " +
	"reservations.customer_name, reservations.customer_email, reservations.status, " +
	"reservations.request_id, reservations.created_at"

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Insert(ctx context.Context, res *models.Reservation) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *GormRepository) rows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reservations").
		Select(rowColumns).
		Joins("LEFT JOIN tours ON tours.id = reservations.item_id")
}

func withStatusFilter(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("reservations.status = ?", status)
	}
}

func (r *GormRepository) List(ctx context.Context, filter types.ReservationFilter) ([]types.ReservationRow, error) {
	col, ok := orderColumns[filter.OrderBy]
	if !ok {
		col = orderColumns[DEFAULT_ORDER_BY]
	}
	dir := utils.NormalizeOrderDir(filter.OrderDir)
	order := col + " " + dir
	if col != orderColumns["id"] {
		order += ", reservations.id " + dir
	}

	rows := []types.ReservationRow{}
	err := r.rows(ctx).
		Scopes(withStatusFilter(filter.Status), scopes.Paginate(filter.Limit, filter.Offset)).
		Order(order).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepository) Count(ctx context.Context, filter types.ReservationFilter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Scopes(scopes.WithStatus(types.ReservationStatus(filter.Status))).
		Count(&count).
		Error
	return count, err
}

func (r *GormRepository) Get(ctx context.Context, id uint) (*types.ReservationRow, error) {
	var rows []types.ReservationRow
	err := r.rows(ctx).
		Where("reservations.id = ?", id).
		Limit(1).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// UpdateStatus reports false when no reservation has the given id.
func (r *GormRepository) UpdateStatus(ctx context.Context, id uint, status types.ReservationStatus) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		err := tx.
			Select("id").
			Scopes(scopes.WithID(id)).
			First(&res).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return tx.
			Model(&models.Reservation{}).
			Scopes(scopes.WithID(id)).
			Update("status", status).
			Error
	})
	return found, err
}

type slotCount struct {
	Date  string
	Count int64
}

// CountBySlot counts reservation rows of every status per date for one item.
func (r *GormRepository) CountBySlot(ctx context.Context, itemID uint) (map[string]int64, error) {
	var counts []slotCount
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("date, COUNT(*) AS count").
		Scopes(scopes.WithItem(itemID)).
		Group("date").
		Scan(&counts).
		Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(counts))
	for _, c := range counts {
		out[c.Date] = c.Count
	}
	return out, nil
}
