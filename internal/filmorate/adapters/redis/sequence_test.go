package redis_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/filmorate/adapters/memory"
	"filmorate/internal/filmorate/adapters/redis"
	"filmorate/internal/filmorate/domain/entities"
	redisdb "filmorate/pkg/db/redis"
	"filmorate/pkg/resilience"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redisdb.Client) {
	t.Helper()

	s := miniredis.RunT(t)

	host, portStr, _ := strings.Cut(s.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := redisdb.DefaultConfig()
	cfg.Host = host
	cfg.Port = port
	cfg.Timeout = time.Second

	client, err := redisdb.NewClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return s, client
}

func TestSequence_Next(t *testing.T) {
	s, client := newClient(t)
	seq := redis.NewSequence(client, "users")

	for want := int64(1); want <= 3; want++ {
		got, err := seq.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	value, err := s.Get("filmorate:sequence:users")
	require.NoError(t, err)
	assert.Equal(t, "3", value)
}

func TestSequence_SeparateKeys(t *testing.T) {
	_, client := newClient(t)
	users := redis.NewSequence(client, "users")
	films := redis.NewSequence(client, "films")

	_, err := users.Next(context.Background())
	require.NoError(t, err)
	id, err := films.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), id)
	assert.NotEqual(t, users.Key(), films.Key())
}

func TestSequence_SharedBetweenInstances(t *testing.T) {
	_, client := newClient(t)
	first := memory.NewUserRepository(redis.NewSequence(client, "users"))
	second := memory.NewUserRepository(redis.NewSequence(client, "users"))

	var wg sync.WaitGroup
	var mu sync.Mutex
	ids := make(map[int64]struct{})
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			repo := first
			if i%2 == 1 {
				repo = second
			}
			u, err := repo.Create(context.Background(), &entities.User{
				Email: "user@mail.ru",
				Login: "login" + strconv.Itoa(i),
			})
			if assert.NoError(t, err) {
				mu.Lock()
				ids[u.ID] = struct{}{}
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, ids, 20)
}

func TestSequence_Error(t *testing.T) {
	s, client := newClient(t)
	seq := redis.NewSequence(client, "users")
	s.SetError("server is down")

	id, err := seq.Next(context.Background())

	require.Error(t, err)
	assert.Zero(t, id)
	assert.Contains(t, err.Error(), redis.ErrorFailedToIncrement)
}

type flakyIncrementer struct {
	failures int
	calls    int
	value    int64
}

func (f *flakyIncrementer) Incr(_ context.Context, _ string) (int64, error) {
	f.calls++
	if f.calls <= f.failures {
		return 0, errors.New("connection reset")
	}
	f.value++
	return f.value, nil
}

func testGuard() *resilience.Guard {
	return resilience.NewGuard("redis",
		resilience.CircuitBreakerConfig{ErrorThreshold: 1, Timeout: time.Hour, SuccessThreshold: 1},
		resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, BackoffFactor: 1},
	)
}

func TestSequence_GuardRetries(t *testing.T) {
	client := &flakyIncrementer{failures: 2}
	seq := redis.NewSequence(client, "films", redis.WithGuard(testGuard()))

	id, err := seq.Next(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 3, client.calls)
}

func TestSequence_GuardOpensCircuit(t *testing.T) {
	client := &flakyIncrementer{failures: 100}
	guard := testGuard()
	seq := redis.NewSequence(client, "films", redis.WithGuard(guard))

	_, err := seq.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, resilience.StateOpen, guard.State())

	_, err = seq.Next(context.Background())
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 3, client.calls)
}
