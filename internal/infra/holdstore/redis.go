package holdstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"salon-booking/internal/domain/interval"
	"salon-booking/internal/domain/reservation"
	"salon-booking/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// retention keeps a record readable a little past its expiry, so callers see
// a timed-out hold rather than a missing one.
const retention = time.Minute

type record struct {
	ID         uuid.UUID   `json:"id"`
	SlotKey    string      `json:"slot_key"`
	StaffID    uuid.UUID   `json:"staff_id"`
	Start      time.Time   `json:"start"`
	End        time.Time   `json:"end"`
	ServiceIDs []uuid.UUID `json:"service_ids"`
	CustomerID *uuid.UUID  `json:"customer_id,omitempty"`
	SessionID  string      `json:"session_id"`
	ExpiresAt  time.Time   `json:"expires_at"`
	CreatedAt  time.Time   `json:"created_at"`
}

func toRecord(r reservation.Reservation) record {
	return record(r)
}

func (rec record) toDomain() reservation.Reservation {
	return reservation.Reservation(rec)
}

// RedisHoldStore keeps one key per slot, one pointer per session and a sorted
// set of slot keys scored by expiry in unix milliseconds.
type RedisHoldStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger

	afterSweepRead func(slotKey string)
}

func NewRedisHoldStore(client *redis.Client, prefix string) *RedisHoldStore {
	return &RedisHoldStore{
		client: client,
		prefix: prefix,
		logger: slog.Default(),
	}
}

func (s *RedisHoldStore) holdKey(slotKey string) string {
	return s.prefix + ":hold:" + slotKey
}

func (s *RedisHoldStore) sessionKey(sessionID string) string {
	return s.prefix + ":hold:session:" + sessionID
}

func (s *RedisHoldStore) indexKey() string {
	return s.prefix + ":holds:index"
}

// Insert stores r only if no record exists for its slot key.
func (s *RedisHoldStore) Insert(ctx context.Context, r reservation.Reservation) (bool, error) {
	payload, err := json.Marshal(toRecord(r))
	if err != nil {
		return false, infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to encode hold", err)
	}
	ttl := r.ExpiresAt.Sub(r.CreatedAt) + retention

	ok, err := s.client.SetNX(ctx, s.holdKey(r.SlotKey), payload, ttl).Result()
	if err != nil {
		return false, infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to insert hold", err)
	}
	if !ok {
		return false, nil
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.sessionKey(r.SessionID), r.SlotKey, ttl)
		p.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(r.ExpiresAt.UnixMilli()), Member: r.SlotKey})
		return nil
	})
	if err != nil {
		return false, infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to index hold", err)
	}
	return true, nil
}

// Get returns nil without error when no record exists for slotKey.
func (s *RedisHoldStore) Get(ctx context.Context, slotKey string) (*reservation.Reservation, error) {
	raw, err := s.client.Get(ctx, s.holdKey(slotKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to get hold", err)
	}
	return s.decode(raw)
}

func (s *RedisHoldStore) GetBySession(ctx context.Context, sessionID string) (*reservation.Reservation, error) {
	slotKey, err := s.client.Get(ctx, s.sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to get session hold", err)
	}

	r, err := s.Get(ctx, slotKey)
	if err != nil || r == nil {
		return nil, err
	}
	if !r.OwnedBy(sessionID) {
		return nil, nil
	}
	return r, nil
}

// ListActive returns holds that have not expired at now and overlap window.
func (s *RedisHoldStore) ListActive(ctx context.Context, window interval.Interval, now time.Time) ([]reservation.Reservation, error) {
	slotKeys, err := s.client.ZRangeByScore(ctx, s.indexKey(), &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(now.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to list hold index", err)
	}
	if len(slotKeys) == 0 {
		return []reservation.Reservation{}, nil
	}

	keys := make([]string, len(slotKeys))
	for i, k := range slotKeys {
		keys[i] = s.holdKey(k)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to load holds", err)
	}

	out := make([]reservation.Reservation, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		r, err := s.decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		if !now.Before(r.ExpiresAt) {
			continue
		}
		if window.IsZero() || interval.Overlaps(r.Interval(), window) {
			out = append(out, *r)
		}
	}
	return out, nil
}

// Delete removes r only while the stored record is still r, so a late
// release cannot drop a newer hold on the same slot.
func (s *RedisHoldStore) Delete(ctx context.Context, r reservation.Reservation) error {
	holdKey := s.holdKey(r.SlotKey)
	sessionKey := s.sessionKey(r.SessionID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, holdKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		ownsHold := false
		if err == nil {
			current, decodeErr := s.decode(raw)
			if decodeErr != nil {
				return decodeErr
			}
			ownsHold = current.ID == r.ID
		}

		pointer, err := tx.Get(ctx, sessionKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			if ownsHold {
				p.Del(ctx, holdKey)
				p.ZRem(ctx, s.indexKey(), r.SlotKey)
			}
			if pointer == r.SlotKey {
				p.Del(ctx, sessionKey)
			}
			return nil
		})
		return err
	}, holdKey, sessionKey)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to delete hold", err)
	}
	return nil
}

// SweepExpired drops index entries and records whose expiry is at or before now.
// A slot re-held while the sweep runs is left alone and re-scored.
func (s *RedisHoldStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	upper := strconv.FormatInt(now.UnixMilli(), 10)
	slotKeys, err := s.client.ZRangeByScore(ctx, s.indexKey(), &redis.ZRangeBy{Min: "-inf", Max: upper}).Result()
	if err != nil {
		return 0, infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to scan expired holds", err)
	}

	var removed int64
	for _, slotKey := range slotKeys {
		swept, err := s.sweepOne(ctx, slotKey, now)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return removed, infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to sweep hold", err)
		}
		if swept {
			removed++
		}
	}
	return removed, nil
}

func (s *RedisHoldStore) sweepOne(ctx context.Context, slotKey string, now time.Time) (bool, error) {
	holdKey := s.holdKey(slotKey)
	swept := false

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, holdKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		var current *reservation.Reservation
		if err == nil {
			if current, err = s.decode(raw); err != nil {
				return err
			}
		}
		if s.afterSweepRead != nil {
			s.afterSweepRead(slotKey)
		}

		live := current != nil && now.Before(current.ExpiresAt)
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			if live {
				p.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(current.ExpiresAt.UnixMilli()), Member: slotKey})
				return nil
			}
			p.ZRem(ctx, s.indexKey(), slotKey)
			if current != nil {
				p.Del(ctx, holdKey)
			}
			return nil
		})
		swept = err == nil && !live
		return err
	}, holdKey)
	return swept, err
}

func (s *RedisHoldStore) decode(raw []byte) (*reservation.Reservation, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindCorruptRecord, "failed to decode hold", err)
	}
	r := rec.toDomain()
	return &r, nil
}
