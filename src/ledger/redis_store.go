package ledger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"exobooking/src/models"
	"exobooking/src/utils"

	"github.com/redis/go-redis/v9"
)

const KEY_PREFIX = "exobooking:inventory"

// Both scripts run server-side as one unit, so the check and the increment
// cannot interleave with another client's claim.
var claimScript = redis.NewScript(`
local capacity = redis.call('HGET', KEYS[1], 'capacity')
if not capacity then
	return 0
end
local reserved = tonumber(redis.call('HGET', KEYS[1], 'reserved') or '0')
local qty = tonumber(ARGV[1])
if reserved + qty > tonumber(capacity) then
	return 0
end
redis.call('HINCRBY', KEYS[1], 'reserved', qty)
redis.call('HSET', KEYS[1], 'updated_at', ARGV[2])
return 1
`)

var upsertScript = redis.NewScript(`
redis.call('HSET', KEYS[1], 'capacity', ARGV[1], 'updated_at', ARGV[2])
redis.call('HSETNX', KEYS[1], 'reserved', 0)
redis.call('HSETNX', KEYS[1], 'created_at', ARGV[2])
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[4])
return 1
`)

// RedisStore keeps one hash per slot and a sorted set of dates per item.
// Keys of one item share a hash tag so the upsert script stays in one slot
// on a cluster.
type RedisStore struct {
	rdb redis.UniversalClient
	now func() time.Time
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func slotKey(itemID uint, date string) string {
	return fmt.Sprintf("%s:{%d}:%s", KEY_PREFIX, itemID, date)
}

func datesKey(itemID uint) string {
	return fmt.Sprintf("%s:{%d}:dates", KEY_PREFIX, itemID)
}

func (s *RedisStore) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *RedisStore) Get(ctx context.Context, itemID uint, date string) (*models.InventoryRecord, error) {
	fields, err := s.rdb.HGetAll(ctx, slotKey(itemID, date)).Result()
	if err != nil {
		return nil, err
	}
	return recordFromHash(itemID, date, fields)
}

func (s *RedisStore) List(ctx context.Context, itemID uint) ([]models.InventoryRecord, error) {
	dates, err := s.rdb.ZRange(ctx, datesKey(itemID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return []models.InventoryRecord{}, nil
	}
	cmds := make([]*redis.MapStringStringCmd, len(dates))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, d := range dates {
			cmds[i] = pipe.HGetAll(ctx, slotKey(itemID, d))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	recs := make([]models.InventoryRecord, 0, len(dates))
	for i, cmd := range cmds {
		rec, err := recordFromHash(itemID, dates[i], cmd.Val())
		if err != nil {
			return nil, err
		}
		if rec != nil {
			recs = append(recs, *rec)
		}
	}
	return recs, nil
}

func (s *RedisStore) UpsertCapacity(ctx context.Context, itemID uint, date string, capacity int) error {
	day, err := time.Parse(utils.DATE_FORMAT, date)
	if err != nil {
		return err
	}
	keys := []string{slotKey(itemID, date), datesKey(itemID)}
	return upsertScript.Run(ctx, s.rdb, keys, capacity, s.stamp(), day.Unix(), date).Err()
}

func (s *RedisStore) Claim(ctx context.Context, itemID uint, date string, qty int) (bool, error) {
	n, err := claimScript.Run(ctx, s.rdb, []string{slotKey(itemID, date)}, qty, s.stamp()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func recordFromHash(itemID uint, date string, fields map[string]string) (*models.InventoryRecord, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	rec := &models.InventoryRecord{ItemID: itemID, Date: date}
	var err error
	if rec.Capacity, err = strconv.Atoi(fields["capacity"]); err != nil {
		return nil, fmt.Errorf("corrupt capacity for %s: %w", slotKey(itemID, date), err)
	}
	if v, ok := fields["reserved"]; ok {
		if rec.Reserved, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("corrupt reserved for %s: %w", slotKey(itemID, date), err)
		}
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["created_at"])
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, fields["updated_at"])
	return rec, nil
}
