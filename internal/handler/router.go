package handler

import (
	"log/slog"
	"net/http"

	"github.com/employee-api/internal/middleware"
)

// Router настраивает маршруты API
type Router struct {
	mux             *http.ServeMux
	logger          *slog.Logger
	employeeHandler *EmployeeHandler
}

// NewRouter создаёт новый роутер
func NewRouter(employeeHandler *EmployeeHandler, logger *slog.Logger) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		logger:          logger,
		employeeHandler: employeeHandler,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	r.mux.HandleFunc("POST /api/employees", r.employeeHandler.Create)
	r.mux.HandleFunc("PATCH /api/employees/{id}", r.employeeHandler.Update)
	r.mux.HandleFunc("DELETE /api/employees/{id}", r.employeeHandler.Delete)
	r.mux.HandleFunc("GET /api/employees/company/{companyId}", r.employeeHandler.GetByCompany)
	r.mux.HandleFunc("GET /api/employees/company/{companyId}/department/{departmentName}", r.employeeHandler.GetByDepartment)

	// Health check
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Применяем middleware
	handler := middleware.ContentType(r.mux)
	handler = middleware.Logger(r.logger)(handler)
	handler = middleware.Recoverer(r.logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
