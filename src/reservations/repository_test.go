package reservations

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"exobooking/src/catalog"
	"exobooking/src/db"
	"exobooking/src/ledger"
	"exobooking/src/models"
	"exobooking/src/types"
	"exobooking/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
	repo    *GormRepository
	events  *recordingPublisher
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gormDB, err := db.Open(db.DRIVER_SQLITE, filepath.Join(t.TempDir(), "reservations.db"))
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&models.Tour{}, &models.InventoryRecord{}, &models.Reservation{}))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		db:      gormDB,
		catalog: catalog.New(gormDB),
		ledger:  ledger.New(ledger.NewGormStore(gormDB)),
		repo:    NewGormRepository(gormDB),
		events:  &recordingPublisher{},
	}
	f.svc = NewService(f.catalog, f.ledger, f.repo, f.events)
	return f
}

func (f *fixture) tour(t *testing.T, title string, capacity int, dates ...string) uint {
	t.Helper()
	tour, err := f.catalog.Create(context.Background(), title, types.TOUR_PUBLISH)
	require.NoError(t, err)
	for _, d := range dates {
		_, err := f.ledger.SetCapacity(context.Background(), tour.ID, d, capacity)
		require.NoError(t, err)
	}
	return tour.ID
}

func TestConcurrentRequestsRespectCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.tour(t, "Cachoeira", 2, "2025-03-14")

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateReservation(ctx, types.CreateReservationInput{
				ItemID: itemID,
				Date:   "2025-03-14",
				Name:   "Cliente",
				Email:  "cliente@example.com",
			})
		}(i)
	}
	wg.Wait()

	var ok, exhausted int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, types.ErrCapacityExhausted):
			exhausted++
		}
	}
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, exhausted)

	rec, err := f.ledger.GetRecord(ctx, itemID, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Reserved)

	count, err := f.svc.CountReservations(ctx, types.ReservationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCreateReservationPersistsNormalizedRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.tour(t, "Passeio de Barco", 5, "2025-03-14")

	res, err := f.svc.CreateReservation(ctx, types.CreateReservationInput{
		ItemID:    itemID,
		Date:      float64(1741950000),
		Name:      "  Ana Souza ",
		Email:     " ana@example.com",
		RequestID: "req-1",
	})
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, "2025-03-14", res.Date)
	assert.Equal(t, "Ana Souza", res.CustomerName)
	assert.Equal(t, "ana@example.com", res.CustomerEmail)
	assert.Equal(t, types.RESERVATION_PENDING, res.Status)

	row, err := f.svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Passeio de Barco", row.ItemTitle)
	assert.Equal(t, "req-1", row.RequestID)
	assert.Equal(t, types.RESERVATION_PENDING, row.Status)

	assert.Equal(t, []string{EVENT_RESERVATION_CREATED}, f.events.names())

	_, err = f.svc.GetReservation(ctx, 4242)
	assert.ErrorIs(t, err, types.ErrReservationNotFound)
}

func TestNoInventoryRecordMeansExhausted(t *testing.T) {
	f := newFixture(t)
	itemID := f.tour(t, "Sem estoque", 0)

	_, err := f.svc.CreateReservation(context.Background(), types.CreateReservationInput{
		ItemID: itemID,
		Date:   "2025-03-14",
		Name:   "Ana",
		Email:  "ana@example.com",
	})
	assert.ErrorIs(t, err, types.ErrCapacityExhausted)
}

func TestTrashedItemIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.tour(t, "Lixeira", 3, "2025-03-14")
	require.NoError(t, f.catalog.SetStatus(ctx, itemID, types.TOUR_TRASH))

	_, err := f.svc.CreateReservation(ctx, types.CreateReservationInput{
		ItemID: itemID,
		Date:   "2025-03-14",
		Name:   "Ana",
		Email:  "ana@example.com",
	})
	assert.ErrorIs(t, err, types.ErrInvalidItem)

	rec, err := f.ledger.GetRecord(ctx, itemID, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Reserved)
}

func seedReservations(t *testing.T, f *fixture) uint {
	t.Helper()
	itemID := f.tour(t, "Trilha", 10, "2025-03-14", "2025-03-15")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.Reservation{
		{ItemID: itemID, Date: "2025-03-15", CustomerName: "Carla", CustomerEmail: "c@example.com", Status: types.RESERVATION_PENDING},
		{ItemID: itemID, Date: "2025-03-14", CustomerName: "Ana", CustomerEmail: "a@example.com", Status: types.RESERVATION_CONFIRMED},
		{ItemID: itemID, Date: "2025-03-14", CustomerName: "Bruno", CustomerEmail: "b@example.com", Status: types.RESERVATION_CANCELLED},
	}
	for i := range rows {
		rows[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, f.repo.Insert(context.Background(), &rows[i]))
	}
	return itemID
}

func names(rows []types.ReservationRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.CustomerName)
	}
	return out
}

func TestListReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedReservations(t, f)

	t.Run("defaults to newest first", func(t *testing.T) {
		rows, err := f.svc.ListReservations(ctx, types.ReservationFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Bruno", "Ana", "Carla"}, names(rows))
		assert.Equal(t, "Trilha", rows[0].ItemTitle)
	})

	t.Run("order by name ascending", func(t *testing.T) {
		rows, err := f.svc.ListReservations(ctx, types.ReservationFilter{OrderBy: "name", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ana", "Bruno", "Carla"}, names(rows))
	})

	t.Run("order by date breaks ties by id", func(t *testing.T) {
		rows, err := f.svc.ListReservations(ctx, types.ReservationFilter{OrderBy: "date", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ana", "Bruno", "Carla"}, names(rows))
	})

	t.Run("unknown column falls back", func(t *testing.T) {
		rows, err := f.svc.ListReservations(ctx, types.ReservationFilter{OrderBy: "email; DROP TABLE reservations"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Bruno", "Ana", "Carla"}, names(rows))
	})

	t.Run("status filter and count", func(t *testing.T) {
		rows, err := f.svc.ListReservations(ctx, types.ReservationFilter{Status: "confirmed"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ana"}, names(rows))

		n, err := f.svc.CountReservations(ctx, types.ReservationFilter{Status: "confirmed"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("pagination", func(t *testing.T) {
		rows, err := f.svc.ListReservations(ctx, types.ReservationFilter{OrderBy: "id", OrderDir: "asc", Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"Bruno"}, names(rows))
	})
}

func TestListPendingNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.tour(t, "Rapel", 10, "2025-03-14", "2025-03-15")

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	rows := []models.Reservation{
		{CustomerName: "Davi", Date: utils.MustNormalizeDate("2025-03-14"), Status: types.RESERVATION_PENDING},
		{CustomerName: "Elisa", Date: utils.MustNormalizeDate(1741996800), Status: types.RESERVATION_CONFIRMED},
		{CustomerName: "Fabio", Date: utils.MustNormalizeDate("Mar 15, 2025"), Status: types.RESERVATION_PENDING},
		{CustomerName: "Gabi", Date: utils.MustNormalizeDate("2025-03-14T10:00:00Z"), Status: types.RESERVATION_CANCELLED},
		{CustomerName: "Hugo", Date: utils.MustNormalizeDate("2025-03-14"), Status: types.RESERVATION_PENDING},
	}
	// Insertion order differs from creation time so id order cannot stand in for it.
	offsets := []time.Duration{2 * time.Hour, 5 * time.Hour, 4 * time.Hour, 6 * time.Hour, time.Hour}
	for i := range rows {
		rows[i].ItemID = itemID
		rows[i].CustomerEmail = "cliente@example.com"
		rows[i].CreatedAt = base.Add(offsets[i])
		require.NoError(t, f.repo.Insert(ctx, &rows[i]))
	}

	got, err := f.svc.ListReservations(ctx, types.ReservationFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fabio", "Davi", "Hugo"}, names(got))
	for _, r := range got {
		assert.Equal(t, types.RESERVATION_PENDING, r.Status)
	}
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].CreatedAt.After(got[i].CreatedAt))
	}

	n, err := f.svc.CountReservations(ctx, types.ReservationFilter{Status: "PENDING"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSetStatusAnyToAny(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.tour(t, "Mergulho", 1, "2025-03-14")

	res, err := f.svc.CreateReservation(ctx, types.CreateReservationInput{
		ItemID: itemID, Date: "2025-03-14", Name: "Ana", Email: "ana@example.com",
	})
	require.NoError(t, err)

	for _, st := range []string{"cancelled", "confirmed", "PENDING", "cancelled"} {
		require.NoError(t, f.svc.SetStatus(ctx, res.ID, st))
	}
	row, err := f.svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RESERVATION_CANCELLED, row.Status)

	assert.ErrorIs(t, f.svc.SetStatus(ctx, res.ID, "refunded"), types.ErrInvalidStatusValue)
	row, err = f.svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RESERVATION_CANCELLED, row.Status)

	assert.ErrorIs(t, f.svc.SetStatus(ctx, 9999, "confirmed"), types.ErrReservationNotFound)

	rec, err := f.ledger.GetRecord(ctx, itemID, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Reserved, "cancelling keeps the slot consumed")
}

func TestCountBySlot(t *testing.T) {
	f := newFixture(t)
	itemID := seedReservations(t, f)

	counts, err := f.repo.CountBySlot(context.Background(), itemID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"2025-03-14": 2, "2025-03-15": 1}, counts)
}
