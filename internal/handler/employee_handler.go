package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/dto"
	"github.com/employee-api/internal/middleware"
	"github.com/employee-api/internal/service"
	"github.com/go-playground/validator/v10"
)

const unexpectedErrorMessage = "An unexpected error occurred"

type EmployeeHandler struct {
	service   service.EmployeeService
	validator *validator.Validate
	logger    *slog.Logger
	// development разрешает отдавать клиенту текст внутренних ошибок
	development bool
}

func NewEmployeeHandler(service service.EmployeeService, logger *slog.Logger, development bool) *EmployeeHandler {
	return &EmployeeHandler{
		service:     service,
		validator:   validator.New(),
		logger:      logger,
		development: development,
	}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	resp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseNonNegative(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid employee id", err.Error())
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	if _, err := h.service.Update(r.Context(), id, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseNonNegative(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid employee id", err.Error())
		return
	}

	if _, err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EmployeeHandler) GetByCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := parseNonNegative(r.PathValue("companyId"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid company id", err.Error())
		return
	}

	employees, err := h.service.GetByCompany(r.Context(), companyID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) GetByDepartment(w http.ResponseWriter, r *http.Request) {
	companyID, err := parseNonNegative(r.PathValue("companyId"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid company id", err.Error())
		return
	}

	departmentName := r.PathValue("departmentName")
	if strings.TrimSpace(departmentName) == "" {
		h.respondError(w, http.StatusBadRequest, "invalid department name", "department name is required")
		return
	}

	employees, err := h.service.GetByDepartment(r.Context(), companyID, departmentName)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, employees)
}

// parseNonNegative разбирает идентификатор из пути
func parseNonNegative(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("id is required")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%d must be non-negative", v)
	}
	return v, nil
}

func (h *EmployeeHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := h.logger.With(slog.String("request_id", middleware.RequestIDFromContext(r.Context())))

	switch {
	case errors.Is(err, domain.ErrNotFound):
		log.Warn("resource not found", slog.Any("error", err))
		h.respondError(w, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
	case errors.Is(err, domain.ErrConflict):
		log.Warn("conflicting write", slog.Any("error", err))
		h.respondError(w, http.StatusConflict, "conflict", "resource already exists")
	default:
		log.Error("internal error", slog.Any("error", err))
		message := unexpectedErrorMessage
		if h.development {
			message = err.Error()
		}
		h.respondError(w, http.StatusInternalServerError, "internal server error", message)
	}
}

func (h *EmployeeHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *EmployeeHandler) respondError(w http.ResponseWriter, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg, Status: status}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
