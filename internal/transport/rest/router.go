package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	"github.com/frahmantamala/attendance-tracker/internal/auth"
	"github.com/frahmantamala/attendance-tracker/internal/department"
	"github.com/frahmantamala/attendance-tracker/internal/report"
	"github.com/frahmantamala/attendance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/attendance-tracker/internal/transport/swagger"
	"github.com/frahmantamala/attendance-tracker/internal/user"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	roleAuth *auth.RoleAuthorization,
	userHandler *user.Handler,
	attendanceHandler *attendance.Handler,
	departmentHandler *department.Handler,
	reportHandler *report.Handler,
	corsOrigins string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(corsOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and Swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				if userHandler != nil {
					sr.Post("/register", userHandler.Register)
				}
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		// Departments are public so the registration form can list them
		if departmentHandler != nil {
			r.Get("/departments", departmentHandler.GetDepartments)
		}

		if authHandler != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
				}

				if attendanceHandler != nil {
					pr.Route("/attendance", func(ar chi.Router) {
						ar.Post("/checkin", attendanceHandler.CheckIn)
						ar.Post("/checkout", attendanceHandler.CheckOut)
						ar.Get("/today", attendanceHandler.GetToday)
						ar.Get("/history", attendanceHandler.GetHistory)
					})
				}

				if reportHandler != nil && roleAuth != nil {
					pr.Route("/manager", func(mr chi.Router) {
						mr.Use(roleAuth.RequireManager())
						mr.Get("/snapshot", reportHandler.GetSnapshot)
						mr.Get("/stats", reportHandler.GetStats)
					})
				}
			})
		}
	})
}
