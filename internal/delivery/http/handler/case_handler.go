package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/delivery/http/middleware"
	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/internal/domain/repository"
	"go-lab-case-tracker/internal/usecase"
	"go-lab-case-tracker/pkg/response"
	"go-lab-case-tracker/pkg/validator"

	"github.com/gorilla/mux"
)

// caseErrorStatuses maps the case lifecycle sentinels onto the statuses the
// API reports: missing resources are 404, state conflicts 409, and a
// completion attempt without the grant 403.
var caseErrorStatuses = []response.ErrorStatus{
	{Err: usecase.ErrCaseNotFound, Status: http.StatusNotFound, Message: "Case not found"},
	{Err: usecase.ErrDesignNotFound, Status: http.StatusNotFound, Message: "Design not found"},
	{Err: usecase.ErrCaseNotEditable, Status: http.StatusConflict, Message: "Case can no longer be edited"},
	{Err: usecase.ErrInvalidTransition, Status: http.StatusConflict, Message: "Invalid status transition"},
	{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "Completing reports requires authorization"},
	{Err: usecase.ErrInvalidDateFormat, Status: http.StatusBadRequest, Message: "Invalid intake date, use YYYY-MM-DD"},
}

type CaseHandler struct {
	caseUsecase   usecase.CaseUsecase
	reportUsecase usecase.ReportUsecase
	validator     *validator.CustomValidator
}

func NewCaseHandler(caseUsecase usecase.CaseUsecase, reportUsecase usecase.ReportUsecase, validator *validator.CustomValidator) *CaseHandler {
	return &CaseHandler{
		caseUsecase:   caseUsecase,
		reportUsecase: reportUsecase,
		validator:     validator,
	}
}

func (h *CaseHandler) CreateCase(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	var req dto.CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	c, err := h.caseUsecase.CreateCase(r.Context(), actorID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create case", caseErrorStatuses)
		return
	}

	response.Success(w, http.StatusCreated, "Case created successfully", c)
}

func (h *CaseHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	caseID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid case ID", nil)
		return
	}

	c, err := h.caseUsecase.GetCase(r.Context(), caseID)
	if err != nil {
		response.FromError(w, err, "Failed to get case", caseErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Case retrieved successfully", c)
}

func (h *CaseHandler) GetCaseByNumber(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	c, err := h.caseUsecase.GetCaseByNumber(r.Context(), vars["number"])
	if err != nil {
		response.FromError(w, err, "Failed to get case", caseErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Case retrieved successfully", c)
}

func (h *CaseHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.CaseFilter{
		StudyType:     entity.StudyType(query.Get("study_type")),
		Status:        entity.CaseStatus(query.Get("status")),
		Search:        query.Get("search"),
		IncludeDrafts: query.Get("include_drafts") == "true",
	}

	if filter.StudyType != "" && !filter.StudyType.IsValid() {
		response.Error(w, http.StatusBadRequest, "Invalid study type", nil)
		return
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		response.Error(w, http.StatusBadRequest, "Invalid status", nil)
		return
	}

	cases, err := h.caseUsecase.ListCases(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list cases")
		return
	}

	response.Success(w, http.StatusOK, "Cases retrieved successfully", cases)
}

func (h *CaseHandler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	caseID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid case ID", nil)
		return
	}

	var req dto.UpdateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	c, err := h.caseUsecase.UpdateCase(r.Context(), actorID, caseID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update case", caseErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Case updated successfully", c)
}

func (h *CaseHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	caseID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid case ID", nil)
		return
	}

	var req dto.SetCaseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	c, err := h.caseUsecase.SetStatus(r.Context(), actorID, caseID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update case status", caseErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Case status updated successfully", c)
}

func (h *CaseHandler) CompleteCase(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	caseID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid case ID", nil)
		return
	}

	c, err := h.caseUsecase.CompleteCase(r.Context(), actorID, caseID)
	if err != nil {
		response.FromError(w, err, "Failed to complete case", caseErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Case completed successfully", c)
}

func (h *CaseHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.caseUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get case statistics")
		return
	}

	response.Success(w, http.StatusOK, "Case statistics retrieved successfully", stats)
}

// ComposeReport returns the renderable document for a case, using the
// design_id query parameter or the study type's default design.
func (h *CaseHandler) ComposeReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	caseID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid case ID", nil)
		return
	}

	var designID *int64
	if raw := r.URL.Query().Get("design_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid design ID", nil)
			return
		}
		designID = &id
	}

	document, err := h.reportUsecase.ComposeReport(r.Context(), caseID, designID)
	if err != nil {
		response.FromError(w, err, "Failed to compose report", caseErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Report composed successfully", document)
}
