package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/tasks"
)

// TaskHandler expone el avance de tareas asíncronas (protegido).
type TaskHandler struct {
	runner *tasks.Runner
}

// NewTaskHandler construye el handler.
func NewTaskHandler(runner *tasks.Runner) *TaskHandler {
	return &TaskHandler{runner: runner}
}

// GetTask godoc
// @Summary      Consultar avance de una tarea
// @Description  Estado, progreso acumulado y porcentaje de una tarea lanzada
// @Description  con 202 (por ejemplo la carga masiva de stock).
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	state, err := h.runner.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if state == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tarea no encontrada o expirada"})
	}
	return c.JSON(dto.TaskResponse{
		ID:      state.ID,
		Status:  state.Status,
		Current: state.Current,
		Total:   state.Total,
		Percent: state.Percent,
		Error:   state.Error,
	})
}
