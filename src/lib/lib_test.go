package lib

import (
	"bytes"
	"context"
	"log"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestEncodeEvent(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	b, err := encodeEvent("reservation.created", map[string]any{"id": 5, "item_id": uint(7)}, at)
	require.NoError(t, err)

	body := string(b)
	assert.Equal(t, "reservation.created", gjson.Get(body, "type").String())
	assert.Equal(t, "2025-03-14T12:00:00Z", gjson.Get(body, "occurred_at").String())
	assert.Equal(t, int64(7), gjson.Get(body, "payload.item_id").Int())
}

func TestMessageKey(t *testing.T) {
	assert.Equal(t, []byte("7"), messageKey(map[string]any{"item_id": uint(7)}))
	assert.Nil(t, messageKey(map[string]any{"id": 1}))
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	err := LogPublisher{}.Publish(context.Background(), "reservation.status_changed", map[string]any{"id": 3, "status": "confirmed"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"type":"reservation.status_changed"`)
	assert.Contains(t, buf.String(), `"status":"confirmed"`)
}

func TestCreateCronJob(t *testing.T) {
	sched, err := gocron.NewScheduler()
	require.NoError(t, err)
	NewScheduler(sched)
	defer StopScheduler()

	var runs int64
	id, err := CreateCronJob("tick", func(step int64) {
		atomic.AddInt64(&runs, step)
	}, 20*time.Millisecond, int64(1))
	require.NoError(t, err)
	assert.NotEmpty(t, *id)

	sched.Start()
	assert.Eventually(t, func() bool { return atomic.LoadInt64(&runs) >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestNewRedisClientOverride(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	defer func() { redisClient = nil }()

	NewRedisClient(rdb)
	got, err := GetRedisClient("redis://ignored:6379/0")
	require.NoError(t, err)
	assert.Same(t, rdb, got)
}

func TestGetRedisClientBadURL(t *testing.T) {
	redisClient = nil
	_, err := GetRedisClient("not-a-url")
	assert.Error(t, err)
}
