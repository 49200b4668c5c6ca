package dto

// TaskResponse estado de una tarea asíncrona (se consulta por polling).
type TaskResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"` // PENDING | PROGRESS | COMPLETED | ERROR
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
	Error   string `json:"error,omitempty"`
}

// TaskAcceptedResponse respuesta de un endpoint que encola trabajo.
type TaskAcceptedResponse struct {
	TaskID string `json:"task_id"`
}
