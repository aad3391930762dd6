package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/authflow/session-gateway/domain"
	"github.com/authflow/session-gateway/pkg/fingerprint"
	"github.com/authflow/session-gateway/repository"
	redisRepo "github.com/authflow/session-gateway/repository/redis"
)

func newTestUseCase(t *testing.T) (repository.SessionRepository, *UseCase) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := redisRepo.NewSessionRepository(client, time.Hour, 15*time.Minute)
	return repo, New(repo, nil, zap.NewNop(), time.Hour)
}

var deviceAttrs = fingerprint.Attributes{
	IP:             "1.2.3.4",
	UserAgent:      "UA1",
	AcceptLanguage: "en",
}

func TestStartCreatesDeviceBoundSession(t *testing.T) {
	repo, uc := newTestUseCase(t)
	ctx := context.Background()

	session, err := uc.Start(ctx, "42", deviceAttrs)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "42", session.UserID)
	assert.Equal(t, fingerprint.Compute(deviceAttrs), session.Fingerprint)
	assert.Equal(t, "1.2.3.4", session.Device.IP)
	assert.True(t, session.ExpiresAt.After(session.CreatedAt))

	stored, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Fingerprint, stored.Fingerprint)
}

func TestStartRequiresUserID(t *testing.T) {
	_, uc := newTestUseCase(t)

	_, err := uc.Start(context.Background(), "", deviceAttrs)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestConcurrentStartsAreIndependent(t *testing.T) {
	repo, uc := newTestUseCase(t)
	ctx := context.Background()

	const devices = 8
	ids := make([]string, devices)
	var wg sync.WaitGroup
	for i := 0; i < devices; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			attrs := deviceAttrs
			attrs.UserAgent = string(rune('A' + i))
			session, err := uc.Start(ctx, "42", attrs)
			assert.NoError(t, err)
			ids[i] = session.ID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, devices)
	for _, id := range ids {
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "session ids must be unique")
		seen[id] = true

		_, err := repo.Get(ctx, id)
		assert.NoError(t, err)
	}

	indexed, err := repo.SessionsForUser(ctx, "42")
	require.NoError(t, err)
	assert.Len(t, indexed, devices)
}

func TestEndIsIdempotent(t *testing.T) {
	repo, uc := newTestUseCase(t)
	ctx := context.Background()

	session, err := uc.Start(ctx, "42", deviceAttrs)
	require.NoError(t, err)

	require.NoError(t, uc.End(ctx, session.ID))
	_, err = repo.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.NoError(t, uc.End(ctx, session.ID))
	assert.NoError(t, uc.End(ctx, ""))
}

func TestInvalidateUser(t *testing.T) {
	repo, uc := newTestUseCase(t)
	ctx := context.Background()

	first, err := uc.Start(ctx, "42", deviceAttrs)
	require.NoError(t, err)
	other := deviceAttrs
	other.UserAgent = "UA2"
	second, err := uc.Start(ctx, "42", other)
	require.NoError(t, err)
	bystander, err := uc.Start(ctx, "7", deviceAttrs)
	require.NoError(t, err)

	removed, err := uc.InvalidateUser(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = repo.Get(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = repo.Get(ctx, second.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Other users keep their sessions.
	_, err = repo.Get(ctx, bystander.ID)
	assert.NoError(t, err)
}
