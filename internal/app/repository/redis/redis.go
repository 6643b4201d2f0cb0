// Package redis keeps transcript history in Redis: one hash per record and a
// sorted set indexing record ids.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"voicescribe/internal/app/model"
)

const defaultPrefix = "voicescribe"

// appendScript allocates the id and the timestamp and writes the record and
// its index entry atomically. The timestamp comes from the server's TIME and
// never goes backwards past the last one handed out, so id order and
// created_at order agree across every writer.
var appendScript = goredis.NewScript(`
local t = redis.call('TIME')
local sec, usec = tonumber(t[1]), tonumber(t[2])
local last = redis.call('HMGET', KEYS[4], 'sec', 'usec')
if last[1] then
  local lsec, lusec = tonumber(last[1]), tonumber(last[2])
  if sec < lsec or (sec == lsec and usec <= lusec) then
    sec, usec = lsec, lusec + 1
    if usec >= 1000000 then
      sec, usec = sec + 1, 0
    end
  end
end
redis.call('HSET', KEYS[4], 'sec', sec, 'usec', usec)
local id = redis.call('INCR', KEYS[1])
local created = tostring(sec) .. string.format('%06d', usec) .. '000'
redis.call('HSET', KEYS[2] .. id, 'id', id, 'text', ARGV[1], 'created_at', created)
redis.call('ZADD', KEYS[3], id, id)
return {id, created}
`)

// advanceScript moves the clock key forward to at least ARGV[1] seconds and
// ARGV[2] microseconds.
var advanceScript = goredis.NewScript(`
local sec, usec = tonumber(ARGV[1]), tonumber(ARGV[2])
local last = redis.call('HMGET', KEYS[1], 'sec', 'usec')
if last[1] then
  local lsec, lusec = tonumber(last[1]), tonumber(last[2])
  if lsec > sec or (lsec == sec and lusec >= usec) then
    return 0
  end
end
redis.call('HSET', KEYS[1], 'sec', sec, 'usec', usec)
return 1
`)

// History is a HistoryStore backed by Redis. Records sort by id, which Redis
// hands out in commit order together with the timestamp.
type History struct {
	client *goredis.Client
	prefix string
}

// Open connects using a redis:// or rediss:// URL.
func Open(ctx context.Context, url string) (*History, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return New(client, defaultPrefix), nil
}

// New wraps an existing client. Keys are namespaced under prefix.
func New(client *goredis.Client, prefix string) *History {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &History{client: client, prefix: prefix}
}

func (h *History) seqKey() string    { return h.prefix + ":transcripts:seq" }
func (h *History) recordKey() string { return h.prefix + ":transcript:" }
func (h *History) indexKey() string  { return h.prefix + ":transcripts:index" }
func (h *History) clockKey() string  { return h.prefix + ":transcripts:clock" }

// Append stores a new record.
func (h *History) Append(ctx context.Context, text string) (*model.Transcript, error) {
	reply, err := appendScript.Run(ctx, h.client,
		[]string{h.seqKey(), h.recordKey(), h.indexKey(), h.clockKey()},
		text,
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to append transcript: %w", err)
	}
	if len(reply) != 2 {
		return nil, fmt.Errorf("unexpected append reply %v", reply)
	}

	id, ok := reply[0].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected transcript id %v", reply[0])
	}
	nanos, err := strconv.ParseInt(fmt.Sprint(reply[1]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt transcript %d timestamp: %w", id, err)
	}

	return &model.Transcript{ID: id, Text: text, CreatedAt: time.Unix(0, nanos).UTC()}, nil
}

// ListRecent returns up to limit records, newest first.
func (h *History) ListRecent(ctx context.Context, limit int) ([]model.Transcript, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	ids, err := h.client.ZRevRange(ctx, h.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript index: %w", err)
	}

	records := make([]model.Transcript, 0, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	cmds := make([]*goredis.MapStringStringCmd, len(ids))
	_, err = h.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, h.recordKey()+id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read transcripts: %w", err)
	}

	for _, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read transcript: %w", err)
		}
		if len(fields) == 0 {
			continue
		}
		rec, err := parseRecord(fields)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Import writes records with their original ids and timestamps and moves
// the id sequence and the clock past them.
func (h *History) Import(ctx context.Context, records []model.Transcript) error {
	var maxID int64
	var latest time.Time
	_, err := h.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, rec := range records {
			key := h.recordKey() + strconv.FormatInt(rec.ID, 10)
			pipe.HSet(ctx, key,
				"id", rec.ID,
				"text", rec.Text,
				"created_at", rec.CreatedAt.UnixNano(),
			)
			pipe.ZAdd(ctx, h.indexKey(), goredis.Z{Score: float64(rec.ID), Member: rec.ID})
			if rec.ID > maxID {
				maxID = rec.ID
			}
			if rec.CreatedAt.After(latest) {
				latest = rec.CreatedAt
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to import transcripts: %w", err)
	}

	current, err := h.client.Get(ctx, h.seqKey()).Int64()
	if err != nil && err != goredis.Nil {
		return fmt.Errorf("failed to read id sequence: %w", err)
	}
	if maxID > current {
		if err := h.client.Set(ctx, h.seqKey(), maxID, 0).Err(); err != nil {
			return fmt.Errorf("failed to advance id sequence: %w", err)
		}
	}

	if !latest.IsZero() {
		micros := latest.UnixMicro()
		err := advanceScript.Run(ctx, h.client, []string{h.clockKey()},
			micros/1_000_000, micros%1_000_000,
		).Err()
		if err != nil {
			return fmt.Errorf("failed to advance clock: %w", err)
		}
	}
	return nil
}

// Ping checks the connection.
func (h *History) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}

// Close closes the client.
func (h *History) Close() error {
	return h.client.Close()
}

func parseRecord(fields map[string]string) (model.Transcript, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return model.Transcript{}, fmt.Errorf("corrupt transcript id %q: %w", fields["id"], err)
	}
	nanos, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return model.Transcript{}, fmt.Errorf("corrupt transcript %d timestamp: %w", id, err)
	}
	return model.Transcript{
		ID:        id,
		Text:      fields["text"],
		CreatedAt: time.Unix(0, nanos).UTC(),
	}, nil
}
