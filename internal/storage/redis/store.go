// Package redis keeps session state in Redis so several server replicas can
// share sessions.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/honeycarbs/job-aggregator/internal/domain/session"
)

const (
	keyPrefix  = "jobagg:session:"
	maxRetries = 10
)

// ErrConflict is returned when an update keeps losing the optimistic lock
var ErrConflict = errors.New("redis store: too many concurrent updates")

// Store is a session.Store backed by one JSON document per session
type Store struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewStore builds a Store. A zero ttl keeps sessions forever.
func NewStore(rdb *goredis.Client, ttl time.Duration) (*Store, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis store: client is required")
	}
	return &Store{rdb: rdb, ttl: ttl}, nil
}

func (s *Store) Get(ctx context.Context, id string) (session.State, error) {
	return load(ctx, s.rdb, id)
}

// Update applies fn inside WATCH/MULTI and retries when another writer
// changed the session in between.
func (s *Store) Update(ctx context.Context, id string, fn session.UpdateFunc) (session.State, error) {
	key := sessionKey(id)
	var result session.State

	txf := func(tx *goredis.Tx) error {
		cur, err := load(ctx, tx, id)
		if err != nil {
			return err
		}
		result = cur

		next, err := fn(cur)
		if err != nil {
			return err
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("redis store: encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		result = next
		return nil
	}

	for range maxRetries {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return result, err
	}

	return result, ErrConflict
}

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func load(ctx context.Context, g getter, id string) (session.State, error) {
	data, err := g.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return session.New(id), nil
	}
	if err != nil {
		return session.State{}, fmt.Errorf("redis store: get session: %w", err)
	}

	var st session.State
	if err := json.Unmarshal(data, &st); err != nil {
		return session.State{}, fmt.Errorf("redis store: decode session: %w", err)
	}
	if st.Results == nil {
		st.Results = session.New(id).Results
	}
	return st, nil
}

func sessionKey(id string) string {
	return keyPrefix + id
}

var _ session.Store = (*Store)(nil)
