package submissionController

import (
	"context"

	"portal/internal/apperrors"
	"portal/internal/events"
	"portal/internal/logger"
	"portal/internal/metrics"
	. "portal/internal/models"
	"portal/internal/notifications"
	"portal/internal/repositories"
	"portal/internal/utils"
	"portal/internal/validation"
)

type SubmissionController struct {
	validator   *validation.Validator
	phones      *utils.PhoneNormalizer
	pensionRepo repositories.PensionRepository
	familyRepo  repositories.FamilyPensionRepository
	contactRepo repositories.ContactRepository
	eventBus    *events.EventBus
	metrics     *metrics.Metrics
	notifier    notifications.Notifier
	log         logger.Logger
}

func New(
	validator *validation.Validator,
	phones *utils.PhoneNormalizer,
	pensionRepo repositories.PensionRepository,
	familyRepo repositories.FamilyPensionRepository,
	contactRepo repositories.ContactRepository,
	eventBus *events.EventBus,
	metrics *metrics.Metrics,
	notifier notifications.Notifier,
) *SubmissionController {
	return &SubmissionController{
		validator:   validator,
		phones:      phones,
		pensionRepo: pensionRepo,
		familyRepo:  familyRepo,
		contactRepo: contactRepo,
		eventBus:    eventBus,
		metrics:     metrics,
		notifier:    notifier,
		log:         logger.New("SubmissionController"),
	}
}

func (sc *SubmissionController) SubmitPension(ctx context.Context, req PensionRequest) (*PensionApplication, error) {
	app, fieldErrs := sc.validator.Pension(req)
	if len(fieldErrs) > 0 {
		return nil, sc.rejected(KindPension, fieldErrs)
	}

	app.ContactNumber = sc.phones.Normalize(app.ContactNumber)

	if err := sc.pensionRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	sc.accepted(ctx, app)
	return app, nil
}

func (sc *SubmissionController) SubmitFamilyPension(ctx context.Context, req FamilyPensionRequest) (*FamilyPensionApplication, error) {
	app, fieldErrs := sc.validator.FamilyPension(req)
	if len(fieldErrs) > 0 {
		return nil, sc.rejected(KindFamilyPension, fieldErrs)
	}

	app.ContactNumber = sc.phones.Normalize(app.ContactNumber)

	if err := sc.familyRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	sc.accepted(ctx, app)
	return app, nil
}

func (sc *SubmissionController) SubmitContact(ctx context.Context, req ContactRequest) (*ContactMessage, error) {
	msg, fieldErrs := sc.validator.Contact(req)
	if len(fieldErrs) > 0 {
		return nil, sc.rejected(KindContact, fieldErrs)
	}

	msg.Phone = sc.phones.Normalize(msg.Phone)

	if err := sc.contactRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	sc.accepted(ctx, msg)
	return msg, nil
}

func (sc *SubmissionController) GetPension(ctx context.Context, id string) (*PensionApplication, error) {
	return sc.pensionRepo.GetByID(ctx, id)
}

func (sc *SubmissionController) GetFamilyPension(ctx context.Context, id string) (*FamilyPensionApplication, error) {
	return sc.familyRepo.GetByID(ctx, id)
}

func (sc *SubmissionController) GetContact(ctx context.Context, id string) (*ContactMessage, error) {
	return sc.contactRepo.GetByID(ctx, id)
}

func (sc *SubmissionController) rejected(kind Kind, fieldErrs []apperrors.FieldError) error {
	sc.metrics.IncrementValidationFailure(string(kind))
	sc.log.Function("rejected").Debug("submission failed validation", "kind", kind, "violations", len(fieldErrs))
	return apperrors.Validation(fieldErrs)
}

func (sc *SubmissionController) accepted(ctx context.Context, record Record) {
	log := sc.log.Function("accepted")

	sc.metrics.IncrementSubmission(string(record.RecordKind()))

	event := events.Event{
		Type:     events.TypeSubmissionCreated,
		Channel:  events.ChannelAdmin,
		Kind:     string(record.RecordKind()),
		RecordID: record.RecordID(),
		Status:   string(record.CurrentStatus()),
		Data: map[string]any{
			"name":       record.DisplayName(),
			"identifier": record.Identifier(),
		},
	}
	if err := sc.eventBus.Publish(ctx, event); err != nil {
		log.Warn("failed to publish submission event", "kind", event.Kind, "id", event.RecordID, "error", err)
	}

	sc.notifier.SubmissionReceived(record)

	log.Info("Submission accepted", "kind", event.Kind, "id", event.RecordID)
}
