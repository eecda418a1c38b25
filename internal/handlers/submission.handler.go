package handlers

import (
	"portal/internal/app"
	adminController "portal/internal/controllers/admin"
	submissionController "portal/internal/controllers/submission"
	workflowController "portal/internal/controllers/workflow"
	"portal/internal/logger"
	. "portal/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SubmissionHandler serves the public intake routes of all three kinds and
// their authenticated status and list routes.
type SubmissionHandler struct {
	Handler
	submissions *submissionController.SubmissionController
	workflow    *workflowController.WorkflowController
	admin       *adminController.AdminController
}

func NewSubmissionHandler(app app.App, router fiber.Router) *SubmissionHandler {
	log := logger.New("handlers").File("submission_handler")
	return &SubmissionHandler{
		submissions: app.SubmissionController,
		workflow:    app.WorkflowController,
		admin:       app.AdminController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SubmissionHandler) Register() {
	pension := h.router.Group("/pension")
	pension.Post("/submit", h.submitPension)
	pension.Get("/all", h.middleware.RequireAdmin, h.listPension)
	pension.Get("/:id", h.getPension)
	pension.Patch("/:id/status", h.middleware.RequireAdmin, h.updateStatus(KindPension))

	family := h.router.Group("/family-pension")
	family.Post("/submit", h.submitFamilyPension)
	family.Get("/all", h.middleware.RequireAdmin, h.listFamilyPension)
	family.Get("/:id", h.getFamilyPension)
	family.Patch("/:id/status", h.middleware.RequireAdmin, h.updateStatus(KindFamilyPension))

	contact := h.router.Group("/contact")
	contact.Post("/submit", h.submitContact)
	contact.Get("/all", h.middleware.RequireAdmin, h.listContacts)
	contact.Get("/:id", h.getContact)
	contact.Patch("/:id/status", h.middleware.RequireAdmin, h.updateStatus(KindContact))
}

func (h *SubmissionHandler) submitPension(c *fiber.Ctx) error {
	log := h.log.Function("submitPension")

	var req PensionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Debug("failed to parse pension application", "error", err)
		return badRequest(c, "Invalid request body")
	}

	application, err := h.submissions.SubmitPension(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Error submitting application")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Pension application submitted successfully",
		"applicationId": application.ID,
	})
}

func (h *SubmissionHandler) submitFamilyPension(c *fiber.Ctx) error {
	log := h.log.Function("submitFamilyPension")

	var req FamilyPensionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Debug("failed to parse family pension application", "error", err)
		return badRequest(c, "Invalid request body")
	}

	application, err := h.submissions.SubmitFamilyPension(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Error submitting application")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Family pension application submitted successfully",
		"applicationId": application.ID,
	})
}

func (h *SubmissionHandler) submitContact(c *fiber.Ctx) error {
	log := h.log.Function("submitContact")

	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		log.Debug("failed to parse contact message", "error", err)
		return badRequest(c, "Invalid request body")
	}

	message, err := h.submissions.SubmitContact(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Error submitting message")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Contact message submitted successfully",
		"contactId": message.ID,
	})
}

func (h *SubmissionHandler) getPension(c *fiber.Ctx) error {
	application, err := h.submissions.GetPension(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log.Function("getPension"), err, "Error fetching application")
	}
	return c.JSON(application)
}

func (h *SubmissionHandler) getFamilyPension(c *fiber.Ctx) error {
	application, err := h.submissions.GetFamilyPension(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log.Function("getFamilyPension"), err, "Error fetching application")
	}
	return c.JSON(application)
}

func (h *SubmissionHandler) getContact(c *fiber.Ctx) error {
	message, err := h.submissions.GetContact(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log.Function("getContact"), err, "Error fetching message")
	}
	return c.JSON(message)
}

func (h *SubmissionHandler) listPension(c *fiber.Ctx) error {
	applications, err := h.admin.ListPension(c.UserContext())
	if err != nil {
		return respondError(c, h.log.Function("listPension"), err, "Error fetching applications")
	}
	return c.JSON(applications)
}

func (h *SubmissionHandler) listFamilyPension(c *fiber.Ctx) error {
	applications, err := h.admin.ListFamilyPension(c.UserContext())
	if err != nil {
		return respondError(c, h.log.Function("listFamilyPension"), err, "Error fetching applications")
	}
	return c.JSON(applications)
}

func (h *SubmissionHandler) listContacts(c *fiber.Ctx) error {
	messages, err := h.admin.ListContacts(c.UserContext(), ContactFilter{})
	if err != nil {
		return respondError(c, h.log.Function("listContacts"), err, "Error fetching messages")
	}
	return c.JSON(messages)
}

func (h *SubmissionHandler) updateStatus(kind Kind) fiber.Handler {
	message, key, fallback := "Application status updated successfully", "application", "Error updating application status"
	if kind == KindContact {
		message, key, fallback = "Contact status updated successfully", "contact", "Error updating contact status"
	}

	return func(c *fiber.Ctx) error {
		log := h.log.Function("updateStatus")

		var req StatusUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			log.Debug("failed to parse status update", "error", err)
			return badRequest(c, "Invalid request body")
		}

		record, err := h.workflow.Transition(c.UserContext(), kind, c.Params("id"), req)
		if err != nil {
			return respondError(c, log, err, fallback)
		}

		return c.JSON(fiber.Map{"message": message, key: record})
	}
}
