package app

import (
	"github.com/gorilla/mux"
	"github.com/tracklog/tracklog/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Reports
	r.HandleFunc("/api/report", deps.ReportHandler.GetReport).Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
}
