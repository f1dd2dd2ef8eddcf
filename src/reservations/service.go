// Package reservations turns a validated booking request into a claimed
// ledger slot plus a durable reservation row, and serves operator reads.
package reservations

import (
	"context"
	"log"
	"strings"

	"exobooking/src/config"
	"exobooking/src/models"
	"exobooking/src/types"
	"exobooking/src/utils"

	"github.com/go-playground/validator/v10"
)

const (
	EVENT_RESERVATION_CREATED        = "reservation.created"
	EVENT_RESERVATION_STATUS_CHANGED = "reservation.status_changed"
	EVENT_ORPHANED_CLAIM             = "inventory.orphaned_claim"
)

type ItemResolver interface {
	IsBookable(ctx context.Context, itemID uint) (bool, error)
}

type SlotClaimer interface {
	TryReserve(ctx context.Context, itemID uint, date string) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event string, payload map[string]any) error
}

type Service struct {
	items    ItemResolver
	slots    SlotClaimer
	repo     Repository
	events   EventPublisher
	validate *validator.Validate
	pageSize int
}

func NewService(items ItemResolver, slots SlotClaimer, repo Repository, events EventPublisher) *Service {
	return &Service{
		items:    items,
		slots:    slots,
		repo:     repo,
		events:   events,
		validate: validator.New(),
		pageSize: config.DEFAULT_PAGE_SIZE,
	}
}

// WithPageSize sets the listing limit used when a filter carries none.
func (s *Service) WithPageSize(n int) *Service {
	if n > 0 {
		s.pageSize = n
	}
	return s
}

func (s *Service) PageSize() int {
	return s.pageSize
}

// CreateReservation validates every field before touching the ledger, so a
// rejected request never consumes a slot.
func (s *Service) CreateReservation(ctx context.Context, in types.CreateReservationInput) (*models.Reservation, error) {
	if in.ItemID == 0 {
		return nil, types.ErrInvalidItem
	}
	ok, err := s.items.IsBookable(ctx, in.ItemID)
	if err != nil {
		log.Printf("Error resolving item %d: %s\n", in.ItemID, err.Error())
		return nil, types.ErrPersistence.Wrap(err)
	}
	if !ok {
		return nil, types.ErrInvalidItem
	}

	date, ok := utils.NormalizeDate(in.Date)
	if !ok {
		return nil, types.ErrInvalidDate
	}

	email := strings.TrimSpace(in.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, types.ErrInvalidEmail
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.ErrMissingName
	}

	claimed, err := s.slots.TryReserve(ctx, in.ItemID, date)
	if err != nil {
		log.Printf("Error claiming slot %d/%s: %s\n", in.ItemID, date, err.Error())
		return nil, types.ErrPersistence.Wrap(err)
	}
	if !claimed {
		return nil, types.ErrCapacityExhausted
	}

	reservation := models.Reservation{
		ItemID:        in.ItemID,
		Date:          date,
		CustomerName:  name,
		CustomerEmail: email,
		Status:        types.RESERVATION_PENDING,
		RequestID:     in.RequestID,
	}
	if err := s.repo.Insert(ctx, &reservation); err != nil {
		// The slot stays consumed with no row behind it.
		log.Printf("[ALERT] orphaned slot claim item=%d date=%s request_id=%s: %s\n", in.ItemID, date, in.RequestID, err.Error())
		s.publish(ctx, EVENT_ORPHANED_CLAIM, map[string]any{
			"item_id":    in.ItemID,
			"date":       date,
			"request_id": in.RequestID,
			"error":      err.Error(),
		})
		return nil, types.ErrPersistence.Wrap(err)
	}

	s.publish(ctx, EVENT_RESERVATION_CREATED, map[string]any{
		"id":         reservation.ID,
		"item_id":    reservation.ItemID,
		"date":       reservation.Date,
		"name":       reservation.CustomerName,
		"email":      reservation.CustomerEmail,
		"status":     reservation.Status,
		"request_id": reservation.RequestID,
	})
	return &reservation, nil
}

func (s *Service) normalizeFilter(filter types.ReservationFilter) (types.ReservationFilter, error) {
	if filter.Status != "" {
		st, ok := types.ParseReservationStatus(filter.Status)
		if !ok {
			return filter, types.ErrInvalidStatusValue
		}
		filter.Status = string(st)
	}
	if filter.Limit <= 0 {
		filter.Limit = s.pageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.OrderBy = strings.ToLower(strings.TrimSpace(filter.OrderBy))
	filter.OrderDir = utils.NormalizeOrderDir(filter.OrderDir)
	return filter, nil
}

// ListReservations returns newest first unless the filter asks otherwise.
func (s *Service) ListReservations(ctx context.Context, filter types.ReservationFilter) ([]types.ReservationRow, error) {
	filter, err := s.normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Printf("Error listing reservations: %s\n", err.Error())
		return nil, types.ErrPersistence.Wrap(err)
	}
	return rows, nil
}

func (s *Service) CountReservations(ctx context.Context, filter types.ReservationFilter) (int64, error) {
	filter, err := s.normalizeFilter(filter)
	if err != nil {
		return 0, err
	}
	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Printf("Error counting reservations: %s\n", err.Error())
		return 0, types.ErrPersistence.Wrap(err)
	}
	return count, nil
}

func (s *Service) GetReservation(ctx context.Context, id uint) (*types.ReservationRow, error) {
	row, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Printf("Error retrieving reservation %d: %s\n", id, err.Error())
		return nil, types.ErrPersistence.Wrap(err)
	}
	if row == nil {
		return nil, types.ErrReservationNotFound
	}
	return row, nil
}

// SetStatus overwrites the status with any member of the closed set. The
// ledger is not touched; cancelling does not give the slot back.
func (s *Service) SetStatus(ctx context.Context, id uint, status string) error {
	st, ok := types.ParseReservationStatus(status)
	if !ok {
		return types.ErrInvalidStatusValue
	}
	found, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		log.Printf("Error updating reservation %d status: %s\n", id, err.Error())
		return types.ErrPersistence.Wrap(err)
	}
	if !found {
		return types.ErrReservationNotFound
	}
	s.publish(ctx, EVENT_RESERVATION_STATUS_CHANGED, map[string]any{
		"id":     id,
		"status": st,
	})
	return nil
}

func (s *Service) publish(ctx context.Context, event string, payload map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event, payload); err != nil {
		log.Printf("Error publishing %s: %s\n", event, err.Error())
	}
}
