package ledger

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"exobooking/src/db"
	"exobooking/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real postgres when TEST_DATABASE_DSN is set, so row locks
// rather than a single pooled connection serialize the claims.
func TestPostgresConcurrentClaims(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	gormDB, err := db.Open(db.DRIVER_POSTGRES, dsn)
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&models.InventoryRecord{}))

	const itemID uint = 990001
	const date = "2030-01-01"
	t.Cleanup(func() {
		gormDB.Where("item_id = ?", itemID).Delete(&models.InventoryRecord{})
	})

	l := New(NewGormStore(gormDB))
	ctx := context.Background()
	_, err = l.SetCapacity(ctx, itemID, date, 10)
	require.NoError(t, err)

	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := l.TryReserve(ctx, itemID, date); err == nil && ok {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), wins)
	rec, err := l.GetRecord(ctx, itemID, date)
	require.NoError(t, err)
	assert.Equal(t, 10, rec.Reserved)
}
