package redis

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/session"
	redisclient "github.com/honeycarbs/job-aggregator/pkg/redis"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	rdb, err := redisclient.NewClient(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	s, err := NewStore(rdb, time.Minute)
	require.NoError(t, err)
	return s
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "jobagg:session:abc", sessionKey("abc"))
}

func TestNewStore_RequiresClient(t *testing.T) {
	_, err := NewStore(nil, time.Minute)
	assert.Error(t, err)
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := uuid.NewString()

	st, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Pagination.CurrentPage)

	link := "https://example.com/1"
	_, err = s.Update(ctx, id, func(st session.State) (session.State, error) {
		next, seq := session.Begin(st, domain.Query{Text: "go"})
		return session.Complete(next, seq, domain.ResultSet{{Title: "Go Dev", Link: &link}, {Title: "SRE"}})
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "Go Dev", got.Results[0].Title)
	assert.Equal(t, link, got.Results[0].LinkOrEmpty())
	assert.Nil(t, got.Results[1].Link)
	assert.False(t, got.Loading)
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := uuid.NewString()

	const writers = 8
	var wg sync.WaitGroup
	wg.Add(writers)
	for range writers {
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, id, func(st session.State) (session.State, error) {
				next, _ := session.Begin(st, domain.Query{Text: "x"})
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(writers), st.Seq)
}
