package tasks_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storeflow-api/internal/application/tasks"
	"github.com/jhoicas/storeflow-api/pkg/logger"
)

// memStore Store en memoria, con exclusión porque la tarea corre en goroutine.
type memStore struct {
	mu     sync.Mutex
	states map[string]tasks.State
	saved  []tasks.State
}

func newMemStore() *memStore {
	return &memStore{states: map[string]tasks.State{}}
}

func (s *memStore) Save(_ context.Context, state *tasks.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ID] = *state
	s.saved = append(s.saved, *state)
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*tasks.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (s *memStore) history() []tasks.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tasks.State, len(s.saved))
	copy(out, s.saved)
	return out
}

func TestRunner_TareaCompletaReportaAvance(t *testing.T) {
	store := newMemStore()
	r := tasks.NewRunner(store, logger.Nop())

	id, err := r.Launch(context.Background(), "carga-masiva", func(ctx context.Context, report tasks.ReportFunc) error {
		report(3, 7)
		report(6, 7)
		report(7, 7)
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	r.Wait()

	final, err := r.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, tasks.StatusCompleted, final.Status)
	assert.Equal(t, 100, final.Percent)
	assert.Equal(t, 7, final.Current)
	assert.Equal(t, 7, final.Total)

	// El primer estado guardado fue PENDING y los intermedios PROGRESS.
	hist := store.history()
	require.NotEmpty(t, hist)
	assert.Equal(t, tasks.StatusPending, hist[0].Status)
	assert.Equal(t, tasks.StatusProgress, hist[1].Status)
	assert.Equal(t, 42, hist[1].Percent) // 3*100/7
}

func TestRunner_TareaConErrorConservaAvance(t *testing.T) {
	store := newMemStore()
	r := tasks.NewRunner(store, logger.Nop())

	boom := errors.New("fila bloqueada")
	id, err := r.Launch(context.Background(), "carga-masiva", func(ctx context.Context, report tasks.ReportFunc) error {
		report(2, 10)
		return boom
	})
	require.NoError(t, err)
	r.Wait()

	final, err := r.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, tasks.StatusError, final.Status)
	assert.Equal(t, "fila bloqueada", final.Error)
	assert.Equal(t, 2, final.Current)
	assert.Equal(t, 10, final.Total)
	assert.Equal(t, 20, final.Percent)
}

func TestRunner_TotalCeroNoDividePorCero(t *testing.T) {
	store := newMemStore()
	r := tasks.NewRunner(store, logger.Nop())

	id, err := r.Launch(context.Background(), "vacia", func(ctx context.Context, report tasks.ReportFunc) error {
		report(0, 0)
		return nil
	})
	require.NoError(t, err)
	r.Wait()

	final, err := r.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, tasks.StatusCompleted, final.Status)
	assert.Equal(t, 100, final.Percent)
}

func TestRunner_GetInexistenteDevuelveNil(t *testing.T) {
	r := tasks.NewRunner(newMemStore(), logger.Nop())
	got, err := r.Get(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunner_IDsUnicos(t *testing.T) {
	store := newMemStore()
	r := tasks.NewRunner(store, logger.Nop())

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		id, err := r.Launch(context.Background(), "noop", func(ctx context.Context, report tasks.ReportFunc) error {
			return nil
		})
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
	}
	r.Wait()
}
