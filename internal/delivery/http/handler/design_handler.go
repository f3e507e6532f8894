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

var designErrorStatuses = []response.ErrorStatus{
	{Err: usecase.ErrDesignNotFound, Status: http.StatusNotFound, Message: "Design not found"},
}

type DesignHandler struct {
	designUsecase usecase.DesignUsecase
	validator     *validator.CustomValidator
}

func NewDesignHandler(designUsecase usecase.DesignUsecase, validator *validator.CustomValidator) *DesignHandler {
	return &DesignHandler{
		designUsecase: designUsecase,
		validator:     validator,
	}
}

func (h *DesignHandler) CreateDesign(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	var req dto.CreateDesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	design, err := h.designUsecase.CreateDesign(r.Context(), actorID, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create design")
		return
	}

	response.Success(w, http.StatusCreated, "Design created successfully", design)
}

func (h *DesignHandler) UpdateDesign(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	designID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid design ID", nil)
		return
	}

	var req dto.UpdateDesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	design, err := h.designUsecase.UpdateDesign(r.Context(), actorID, designID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update design", designErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Design updated successfully", design)
}

func (h *DesignHandler) GetDesign(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	designID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid design ID", nil)
		return
	}

	design, err := h.designUsecase.GetDesign(r.Context(), designID)
	if err != nil {
		response.FromError(w, err, "Failed to get design", designErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Design retrieved successfully", design)
}

func (h *DesignHandler) ListDesigns(w http.ResponseWriter, r *http.Request) {
	studyType := entity.StudyType(r.URL.Query().Get("study_type"))
	if !studyType.IsValid() {
		response.Error(w, http.StatusBadRequest, "Invalid or missing study type", nil)
		return
	}

	designs, err := h.designUsecase.ListDesigns(r.Context(), studyType)
	if err != nil {
		response.InternalServerError(w, "Failed to list designs")
		return
	}

	response.Success(w, http.StatusOK, "Designs retrieved successfully", designs)
}

func (h *DesignHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	designID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid design ID", nil)
		return
	}

	design, err := h.designUsecase.SetDefault(r.Context(), actorID, designID)
	if err != nil {
		response.FromError(w, err, "Failed to set default design", designErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Default design updated successfully", design)
}
