// Package redis implementa la persistencia del estado de tareas asíncronas
// sobre Redis, para que el avance sea consultable desde cualquier réplica.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/storeflow-api/internal/application/tasks"
	"github.com/jhoicas/storeflow-api/pkg/config"
)

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

var _ tasks.Store = (*TaskStore)(nil)

// TaskStore guarda cada tarea como un hash task:<id> con TTL de 24 horas;
// el estado de una carga terminada no necesita vivir más que eso.
type TaskStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTaskStore construye el store.
func NewTaskStore(client *redis.Client) *TaskStore {
	return &TaskStore{client: client, ttl: 24 * time.Hour}
}

func taskKey(id string) string { return "task:" + id }

// Save persiste el estado completo de la tarea y renueva el TTL.
func (s *TaskStore) Save(ctx context.Context, state *tasks.State) error {
	key := taskKey(state.ID)
	fields := map[string]any{
		"id":         state.ID,
		"name":       state.Name,
		"status":     state.Status,
		"current":    state.Current,
		"total":      state.Total,
		"percent":    state.Percent,
		"error":      state.Error,
		"updated_at": state.UpdatedAt.Format(time.RFC3339Nano),
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save task state: %w", err)
	}
	return nil
}

// Get devuelve el estado de la tarea; nil si el ID no existe o ya expiró.
func (s *TaskStore) Get(ctx context.Context, id string) (*tasks.State, error) {
	fields, err := s.client.HGetAll(ctx, taskKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get task state: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	state := &tasks.State{
		ID:      fields["id"],
		Name:    fields["name"],
		Status:  fields["status"],
		Current: atoi(fields["current"]),
		Total:   atoi(fields["total"]),
		Percent: atoi(fields["percent"]),
		Error:   fields["error"],
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		state.UpdatedAt = ts
	}
	return state, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
