package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scentwork/partner-console/internal/api/http/handlers"
	"github.com/scentwork/partner-console/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Ambassadors    *handlers.AmbassadorsHandler
	Partners       *handlers.PartnersHandler
	Admin          *handlers.AdminHandler
	Events         *handlers.EventsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authenticated := cfg.AuthMiddleware.Handle
	selfOrAdmin := auth.RequireSelfOrAdmin("id")
	adminOnly := auth.RequireAdmin()

	ambassadors := app.Group("/ambassadors")
	ambassadors.Get("/:id", authenticated, selfOrAdmin, cfg.Ambassadors.GetAmbassador)
	ambassadors.Get("/:id/partners", authenticated, selfOrAdmin, cfg.Ambassadors.ListPartners)
	ambassadors.Get("/:id/commission-summary", authenticated, selfOrAdmin, cfg.Ambassadors.CommissionSummary)
	ambassadors.Get("/:id/partner-requests", authenticated, selfOrAdmin, cfg.Ambassadors.ListPartnerRequests)
	ambassadors.Post("/:id/partner-requests", authenticated, selfOrAdmin, cfg.Ambassadors.SubmitPartnerRequest)

	partners := app.Group("/partners")
	partners.Get("/:id", authenticated, cfg.Partners.GetPartner)
	partners.Post("/:id/activity", authenticated, adminOnly, cfg.Partners.RecordActivity)
	partners.Post("/:id/bulk-purchases", authenticated, adminOnly, cfg.Partners.RecordBulkPurchase)
	partners.Patch("/:id/status", authenticated, adminOnly, cfg.Partners.UpdateStatus)

	admin := app.Group("/admin", authenticated, adminOnly)
	admin.Post("/ambassadors", cfg.Admin.RegisterAmbassador)
	admin.Get("/ambassadors/:id/qualification", cfg.Admin.GetQualification)
	admin.Put("/ambassadors/:id/qualification", cfg.Admin.SetQualification)
	admin.Get("/approvals", cfg.Admin.ListApprovals)
	admin.Get("/approvals/:id", cfg.Admin.GetApproval)
	admin.Post("/approvals/:id/approve", cfg.Admin.Approve)
	admin.Post("/approvals/:id/reject", cfg.Admin.Reject)
	if cfg.Events != nil {
		admin.Get("/events/:aggregateId", cfg.Events.ListByAggregate)
	}
}
