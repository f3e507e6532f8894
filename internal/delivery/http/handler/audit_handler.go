package handler

import (
	"net/http"
	"strconv"

	"go-lab-case-tracker/internal/usecase"
	"go-lab-case-tracker/pkg/response"

	"github.com/gorilla/mux"
)

var auditErrorStatuses = []response.ErrorStatus{
	{Err: usecase.ErrAuditEntryNotFound, Status: http.StatusNotFound, Message: "Audit entry not found"},
}

type AuditHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditHandler {
	return &AuditHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	entries, err := h.auditLogUsecase.ListEntries(r.Context(), limit, offset)
	if err != nil {
		response.InternalServerError(w, "Failed to list audit entries")
		return
	}

	response.Success(w, http.StatusOK, "Audit entries retrieved successfully", entries)
}

func (h *AuditHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entryID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit entry ID", nil)
		return
	}

	entry, err := h.auditLogUsecase.GetEntry(r.Context(), entryID)
	if err != nil {
		response.FromError(w, err, "Failed to get audit entry", auditErrorStatuses)
		return
	}

	response.Success(w, http.StatusOK, "Audit entry retrieved successfully", entry)
}
