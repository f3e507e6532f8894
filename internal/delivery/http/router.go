package http

import (
	"net/http"

	"go-lab-case-tracker/internal/delivery/http/handler"
	"go-lab-case-tracker/internal/delivery/http/middleware"
	"go-lab-case-tracker/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	caseHandler          *handler.CaseHandler
	lineHandler          *handler.LineHandler
	designHandler        *handler.DesignHandler
	auditHandler         *handler.AuditHandler
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	caseHandler *handler.CaseHandler,
	lineHandler *handler.LineHandler,
	designHandler *handler.DesignHandler,
	auditHandler *handler.AuditHandler,
	authMiddleware *middleware.AuthMiddleware,
	permissionMiddleware *middleware.PermissionMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		caseHandler:          caseHandler,
		lineHandler:          lineHandler,
		designHandler:        designHandler,
		auditHandler:         auditHandler,
		authMiddleware:       authMiddleware,
		permissionMiddleware: permissionMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Case routes (view)
	cases := api.PathPrefix("/cases").Subrouter()
	cases.Use(r.authMiddleware.Authenticate)
	cases.Use(r.permissionMiddleware.Require(entity.PermCasesView))
	cases.HandleFunc("", r.caseHandler.ListCases).Methods(http.MethodGet)
	cases.HandleFunc("/stats", r.caseHandler.GetStats).Methods(http.MethodGet)
	cases.HandleFunc("/number/{number}", r.caseHandler.GetCaseByNumber).Methods(http.MethodGet)
	cases.HandleFunc("/{id}", r.caseHandler.GetCase).Methods(http.MethodGet)
	cases.HandleFunc("/{id}/report", r.caseHandler.ComposeReport).Methods(http.MethodGet)

	// Case routes (create)
	caseCreate := api.PathPrefix("/cases").Subrouter()
	caseCreate.Use(r.authMiddleware.Authenticate)
	caseCreate.Use(r.permissionMiddleware.Require(entity.PermCasesCreate))
	caseCreate.HandleFunc("", r.caseHandler.CreateCase).Methods(http.MethodPost)

	// Case routes (edit). Completion is additionally gated inside the
	// usecase by the completion capability.
	caseEdit := api.PathPrefix("/cases").Subrouter()
	caseEdit.Use(r.authMiddleware.Authenticate)
	caseEdit.Use(r.permissionMiddleware.Require(entity.PermCasesEdit))
	caseEdit.HandleFunc("/{id}", r.caseHandler.UpdateCase).Methods(http.MethodPut)
	caseEdit.HandleFunc("/{id}/status", r.caseHandler.SetStatus).Methods(http.MethodPatch)
	caseEdit.HandleFunc("/{id}/complete", r.caseHandler.CompleteCase).Methods(http.MethodPost)

	// Section and line catalog (any authenticated user can read)
	catalog := api.PathPrefix("").Subrouter()
	catalog.Use(r.authMiddleware.Authenticate)
	catalog.HandleFunc("/sections", r.lineHandler.ListSections).Methods(http.MethodGet)
	catalog.HandleFunc("/sections/{id}/lines", r.lineHandler.ListLines).Methods(http.MethodGet)
	catalog.HandleFunc("/lines/{id}/use", r.lineHandler.UseLine).Methods(http.MethodPost)

	// Line management
	lineManage := api.PathPrefix("/lines").Subrouter()
	lineManage.Use(r.authMiddleware.Authenticate)
	lineManage.Use(r.permissionMiddleware.Require(entity.PermLinesManage))
	lineManage.HandleFunc("", r.lineHandler.AddLine).Methods(http.MethodPost)
	lineManage.HandleFunc("/{id}", r.lineHandler.DeactivateLine).Methods(http.MethodDelete)

	// Design management
	designs := api.PathPrefix("/designs").Subrouter()
	designs.Use(r.authMiddleware.Authenticate)
	designs.Use(r.permissionMiddleware.Require(entity.PermDesignsManage))
	designs.HandleFunc("", r.designHandler.CreateDesign).Methods(http.MethodPost)
	designs.HandleFunc("", r.designHandler.ListDesigns).Methods(http.MethodGet)
	designs.HandleFunc("/{id}", r.designHandler.GetDesign).Methods(http.MethodGet)
	designs.HandleFunc("/{id}", r.designHandler.UpdateDesign).Methods(http.MethodPut)
	designs.HandleFunc("/{id}/default", r.designHandler.SetDefault).Methods(http.MethodPost)

	// Audit log
	audit := api.PathPrefix("/audit").Subrouter()
	audit.Use(r.authMiddleware.Authenticate)
	audit.Use(r.permissionMiddleware.Require(entity.PermAuditView))
	audit.HandleFunc("", r.auditHandler.ListEntries).Methods(http.MethodGet)
	audit.HandleFunc("/{id}", r.auditHandler.GetEntry).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
