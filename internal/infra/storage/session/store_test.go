package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

type store interface {
	Get(ctx context.Context, id string) (*wizard.Session, error)
	Save(ctx context.Context, s *wizard.Session) error
	Delete(ctx context.Context, id string) error
}

var testNow = time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)

func sampleSession() *wizard.Session {
	s := wizard.NewSession("session-1", testNow)
	s.State = wizard.StateStep3
	s.Inputs[domain.FieldFullName] = "Asha Rao"
	s.Selection = &domain.TimeSlot{Date: "2024-03-05", Time: "10:30"}
	_ = s.Draft.CommitStep(domain.StepDetails, domain.StepRecord{domain.FieldFullName: "Asha Rao"})
	_ = s.Draft.CommitSlot(domain.SelectedSlot{
		Date:     "2024-03-05",
		Time:     "10:30",
		DateTime: time.Date(2024, 3, 5, 10, 30, 0, 0, domain.Location),
	})
	return s
}

func runStoreContract(t *testing.T, st store) {
	ctx := context.Background()

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	original := sampleSession()
	require.NoError(t, st.Save(ctx, original))

	loaded, err := st.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateStep3, loaded.State)
	assert.Equal(t, "Asha Rao", loaded.Inputs[domain.FieldFullName])
	assert.Equal(t, "Asha Rao", loaded.Draft.Value(domain.FieldFullName))
	require.NotNil(t, loaded.Draft.Slot)
	assert.True(t, loaded.Draft.Slot.DateTime.Equal(original.Draft.Slot.DateTime))
	assert.Equal(t, *original.Selection, *loaded.Selection)

	// Полученная копия не связана с хранилищем
	loaded.State = wizard.StateStep1
	again, err := st.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateStep3, again.State)

	require.NoError(t, st.Delete(ctx, original.ID))
	_, err = st.Get(ctx, original.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expiry(t *testing.T) {
	st := NewMemoryStore(time.Minute)
	now := testNow
	st.now = func() time.Time { return now }

	require.NoError(t, st.Save(context.Background(), sampleSession()))

	now = now.Add(2 * time.Minute)
	_, err := st.Get(context.Background(), "session-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 1, st.Cleanup())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	runStoreContract(t, NewRedisStore(client, time.Hour))
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	st := NewRedisStore(client, 30*time.Minute)
	require.NoError(t, st.Save(context.Background(), sampleSession()))

	assert.True(t, mr.Exists("consultation:session:session-1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("consultation:session:session-1"))

	mr.FastForward(31 * time.Minute)
	_, err := st.Get(context.Background(), "session-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err := NewRedisStore(client, time.Minute).Get(context.Background(), "session-1")
	assert.ErrorIs(t, err, ErrStore)
}
