// Package tasks ejecuta trabajos largos en segundo plano y expone su avance
// para consulta por polling. El estado vive en un Store externo para que
// sobreviva entre réplicas del API.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/storeflow-api/pkg/logger"
)

// Estados de una tarea.
const (
	StatusPending   = "PENDING"
	StatusProgress  = "PROGRESS"
	StatusCompleted = "COMPLETED"
	StatusError     = "ERROR"
)

// State estado persistido de una tarea.
type State struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Current   int       `json:"current"`
	Total     int       `json:"total"`
	Percent   int       `json:"percent"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persistencia del estado de tareas. Get devuelve nil si el ID no existe
// o expiró.
type Store interface {
	Save(ctx context.Context, state *State) error
	Get(ctx context.Context, id string) (*State, error)
}

// ReportFunc la invoca el trabajo para publicar su avance acumulado.
type ReportFunc func(current, total int)

// TaskFunc cuerpo de una tarea. Reporta avance mediante report.
type TaskFunc func(ctx context.Context, report ReportFunc) error

// Runner lanza tareas en goroutines con contexto propio (el de la petición
// HTTP muere al responder 202).
type Runner struct {
	store Store
	log   *logger.Logger
	wg    sync.WaitGroup
}

// NewRunner construye el runner.
func NewRunner(store Store, log *logger.Logger) *Runner {
	return &Runner{store: store, log: log}
}

func percent(current, total int) int {
	if total <= 0 {
		return 0
	}
	return current * 100 / total
}

// Launch registra la tarea como PENDING y la ejecuta en segundo plano.
// Devuelve el ID para consultar el avance.
func (r *Runner) Launch(ctx context.Context, name string, fn TaskFunc) (string, error) {
	id := uuid.New().String()
	state := &State{ID: id, Name: name, Status: StatusPending, UpdatedAt: time.Now()}
	if err := r.store.Save(ctx, state); err != nil {
		return "", err
	}

	r.wg.Add(1)
	go r.execute(id, name, fn)
	return id, nil
}

// Wait bloquea hasta que terminen las tareas en vuelo (apagado y tests).
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) execute(id, name string, fn TaskFunc) {
	defer r.wg.Done()
	// Contexto independiente de la petición que lanzó la tarea.
	ctx := context.Background()

	report := func(current, total int) {
		state := &State{
			ID:        id,
			Name:      name,
			Status:    StatusProgress,
			Current:   current,
			Total:     total,
			Percent:   percent(current, total),
			UpdatedAt: time.Now(),
		}
		if err := r.store.Save(ctx, state); err != nil {
			r.log.Error().Err(err).Str("task_id", id).Msg("no se pudo guardar avance de tarea")
		}
	}

	err := fn(ctx, report)

	final := &State{ID: id, Name: name, Status: StatusCompleted, Percent: 100, UpdatedAt: time.Now()}
	if last, gerr := r.store.Get(ctx, id); gerr == nil && last != nil {
		final.Current = last.Current
		final.Total = last.Total
	}
	if err != nil {
		final.Status = StatusError
		final.Error = err.Error()
		final.Percent = percent(final.Current, final.Total)
		r.log.Error().Err(err).Str("task_id", id).Str("task", name).Msg("tarea terminó con error")
	} else {
		final.Current = final.Total
		r.log.Info().Str("task_id", id).Str("task", name).Msg("tarea completada")
	}
	if serr := r.store.Save(ctx, final); serr != nil {
		r.log.Error().Err(serr).Str("task_id", id).Msg("no se pudo guardar estado final de tarea")
	}
}

// Get devuelve el estado actual de la tarea; nil si no existe.
func (r *Runner) Get(ctx context.Context, id string) (*State, error) {
	return r.store.Get(ctx, id)
}
