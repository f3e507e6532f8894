package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/delivery/http/middleware"
	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/internal/usecase"
	"go-lab-case-tracker/pkg/response"
	"go-lab-case-tracker/pkg/validator"

	"github.com/gorilla/mux"
)

var lineErrorStatuses = []response.ErrorStatus{
	{Err: usecase.ErrSectionNotFound, Status: http.StatusNotFound, Message: "Section not found"},
	{Err: usecase.ErrLineNotFound, Status: http.StatusNotFound, Message: "Line not found"},
	{Err: usecase.ErrLineInactive, Status: http.StatusConflict, Message: "Line has been deactivated"},
}

type LineHandler struct {
	lineUsecase usecase.LineUsecase
	validator   *validator.CustomValidator
}

func NewLineHandler(lineUsecase usecase.LineUsecase, validator *validator.CustomValidator) *LineHandler {
	return &LineHandler{
		lineUsecase: lineUsecase,
		validator:   validator,
	}
}

func (h *LineHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	studyType := entity.StudyType(r.URL.Query().Get("study_type"))
	if !studyType.IsValid() {
		response.Error(w, http.StatusBadRequest, "Invalid or missing study type", nil)
		return
	}

	sections, err := h.lineUsecase.ListSections(r.Context(), studyType)
	if err != nil {
		response.InternalServerError(w, "Failed to list sections")
		return
	}

	response.Success(w, http.StatusOK, "Sections retrieved successfully", sections)
}

func (h *LineHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sectionID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid section ID", nil)
		return
	}

	lines, err := h.lineUsecase.ListLines(r.Context(), sectionID)
	if err != nil {
		response.FromError(w, err, "Failed to list lines", lineErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Lines retrieved successfully", lines)
}

func (h *LineHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	var req dto.CreateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	line, err := h.lineUsecase.AddLine(r.Context(), actorID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to add line", lineErrorStatuses)
		return
	}

	response.Success(w, http.StatusCreated, "Line added successfully", line)
}

func (h *LineHandler) UseLine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lineID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid line ID", nil)
		return
	}

	line, err := h.lineUsecase.UseLine(r.Context(), lineID)
	if err != nil {
		response.FromError(w, err, "Failed to record line usage", lineErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Line usage recorded successfully", line)
}

func (h *LineHandler) DeactivateLine(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	lineID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid line ID", nil)
		return
	}

	if err := h.lineUsecase.DeactivateLine(r.Context(), actorID, lineID); err != nil {
		response.FromError(w, err, "Failed to deactivate line", lineErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Line deactivated successfully", nil)
}
