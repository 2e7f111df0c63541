package http

import (
	"net/http"

	"github.com/jaekwang-park/taskdeck/internal/http/handler"
	"github.com/jaekwang-park/taskdeck/internal/service"
)

func NewRouter(taskSvc *service.TaskService) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for ALB health check compatibility
	health := handler.NewHealthHandler()
	mux.Handle("/health", health)

	// Task CRUD API
	taskHandler := handler.NewTaskHandler(taskSvc)
	mux.Handle("/api/v1/tasks", taskHandler)
	mux.Handle("/api/v1/tasks/", taskHandler)

	return mux
}
