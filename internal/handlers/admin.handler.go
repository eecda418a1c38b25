package handlers

import (
	"bytes"

	"portal/internal/app"
	adminController "portal/internal/controllers/admin"
	"portal/internal/logger"
	. "portal/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxChartMonths = 60

type AdminHandler struct {
	Handler
	controller *adminController.AdminController
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		controller: app.AdminController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequireAdmin)
	admin.Get("/dashboard", h.dashboard)
	admin.Get("/charts/applications-over-time", h.applicationsOverTime)
	admin.Get("/charts/status-distribution", h.statusDistribution)

	admin.Get("/applications/pension", h.pensionApplications)
	admin.Get("/applications/family-pension", h.familyPensionApplications)
	admin.Get("/applications/contact", h.contactMessages)

	admin.Get("/export", h.export)
}

func (h *AdminHandler) dashboard(c *fiber.Ctx) error {
	dashboard, err := h.controller.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, h.log.Function("dashboard"), err, "Error fetching dashboard data")
	}
	return c.JSON(dashboard)
}

func (h *AdminHandler) applicationsOverTime(c *fiber.Ctx) error {
	months := c.QueryInt("months", adminController.DefaultMonths)
	if months <= 0 || months > maxChartMonths {
		return badRequest(c, "months must be between 1 and 60")
	}

	series, err := h.controller.ApplicationsOverTime(c.UserContext(), months)
	if err != nil {
		return respondError(c, h.log.Function("applicationsOverTime"), err, "Error fetching chart data")
	}
	return c.JSON(series)
}

func (h *AdminHandler) statusDistribution(c *fiber.Ctx) error {
	distribution, err := h.controller.StatusDistribution(c.UserContext())
	if err != nil {
		return respondError(c, h.log.Function("statusDistribution"), err, "Error fetching status distribution")
	}
	return c.JSON(distribution)
}

func (h *AdminHandler) pensionApplications(c *fiber.Ctx) error {
	applications, err := h.controller.ListPension(c.UserContext())
	if err != nil {
		return respondError(c, h.log.Function("pensionApplications"), err, "Error fetching applications")
	}
	return c.JSON(applications)
}

func (h *AdminHandler) familyPensionApplications(c *fiber.Ctx) error {
	applications, err := h.controller.ListFamilyPension(c.UserContext())
	if err != nil {
		return respondError(c, h.log.Function("familyPensionApplications"), err, "Error fetching applications")
	}
	return c.JSON(applications)
}

func (h *AdminHandler) contactMessages(c *fiber.Ctx) error {
	filter := ContactFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	messages, err := h.controller.ListContacts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.log.Function("contactMessages"), err, "Error fetching contact messages")
	}
	return c.JSON(messages)
}

func (h *AdminHandler) export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.controller.WriteExport(c.UserContext(), &buf); err != nil {
		return respondError(c, h.log.Function("export"), err, "Error exporting data")
	}

	c.Attachment(adminController.ExportFilename(h.controller.Now()))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
