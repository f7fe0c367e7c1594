package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/adapter/http/middleware"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/usecase"
)

// FlowService defines the behavior needed by FlowHandler.
type FlowService interface {
	CreateFlow(ctx context.Context, input usecase.CreateFlowInput) (*domain.Flow, error)
	GetFlow(ctx context.Context, id string) (*domain.Flow, error)
	UpdateFlow(ctx context.Context, id string, input usecase.UpdateFlowInput) (*domain.Flow, error)
	DeleteFlow(ctx context.Context, id string) (*domain.Flow, error)
	ListFlows(ctx context.Context, input usecase.ListFlowsInput) ([]*domain.Flow, error)
	ListFlowsByUser(ctx context.Context, userID string, input usecase.ListFlowsInput) ([]*domain.Flow, error)
	ListFlowsByDate(ctx context.Context, day time.Time) ([]*domain.Flow, error)
}

// FlowHandler handles flow-related HTTP requests.
type FlowHandler struct {
	flowUC FlowService
}

// NewFlowHandler creates a new FlowHandler.
func NewFlowHandler(flowUC FlowService) *FlowHandler {
	return &FlowHandler{flowUC: flowUC}
}

// Create records a new flow.
func (h *FlowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	flow, err := h.flowUC.CreateFlow(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create flow", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.FlowFromDomain(flow))
}

// Get retrieves a flow by ID.
func (h *FlowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing flow ID", "")
		return
	}

	flow, err := h.flowUC.GetFlow(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get flow", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.FlowFromDomain(flow))
}

// Update edits a flow and reconciles the balances.
func (h *FlowHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing flow ID", "")
		return
	}

	var req dto.UpdateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	flow, err := h.flowUC.UpdateFlow(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update flow", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.FlowFromDomain(flow))
}

// Delete removes a flow and reverses its effect on the balances.
func (h *FlowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing flow ID", "")
		return
	}

	flow, err := h.flowUC.DeleteFlow(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete flow", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.DeletedFlowResponse{
		Message: "flow deleted",
		Deleted: dto.FlowFromDomain(flow),
	})
}

// List lists flows ordered by movement date, newest first.
func (h *FlowHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	flows, err := h.flowUC.ListFlows(r.Context(), usecase.ListFlowsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list flows", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FlowsFromDomain(flows))
}

// ListByUser lists flows recorded by a user.
func (h *FlowHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	flows, err := h.flowUC.ListFlowsByUser(r.Context(), userID, usecase.ListFlowsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list flows", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FlowsFromDomain(flows))
}

// ListByDate lists flows whose movement date falls on a given day.
func (h *FlowHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing date", "")
		return
	}

	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
		return
	}

	flows, err := h.flowUC.ListFlowsByDate(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list flows", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FlowsFromDomain(flows))
}
