// Package catalog is the boundary to the tour catalog owned by the content
// system. Reservations only ask it whether an item exists and is bookable.
package catalog

import (
	"context"
	"errors"
	"strings"

	"exobooking/src/models"
	"exobooking/src/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Catalog struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) Create(ctx context.Context, title string, status types.TourStatus) (*models.Tour, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, types.ErrInvalidRequest.Wrap(errors.New("title is required"))
	}
	if status == "" {
		status = types.TOUR_PUBLISH
	}
	tour := models.Tour{
		Title:  title,
		Slug:   slug.Make(title),
		Status: status,
	}
	if err := c.db.WithContext(ctx).Create(&tour).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

// Get returns nil without error for unknown or soft-deleted tours.
func (c *Catalog) Get(ctx context.Context, id uint) (*models.Tour, error) {
	if id == 0 {
		return nil, nil
	}
	var tour models.Tour
	err := c.db.WithContext(ctx).
		Where(&models.Tour{ID: id}).
		First(&tour).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

// IsBookable reports whether the item exists and is not trashed. Drafts are
// bookable.
func (c *Catalog) IsBookable(ctx context.Context, id uint) (bool, error) {
	tour, err := c.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return tour != nil && tour.Bookable(), nil
}

func (c *Catalog) SetStatus(ctx context.Context, id uint, status types.TourStatus) error {
	if id == 0 {
		return types.ErrInvalidItem
	}
	res := c.db.WithContext(ctx).
		Model(&models.Tour{}).
		Where(&models.Tour{ID: id}).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.ErrInvalidItem
	}
	return nil
}

// ListIDs returns the ids of all tours that were not soft-deleted, including trashed ones.
func (c *Catalog) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := c.db.WithContext(ctx).
		Model(&models.Tour{}).
		Order("id asc").
		Pluck("id", &ids).
		Error
	return ids, err
}
