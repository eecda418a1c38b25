package workflowController

import (
	"context"

	"portal/internal/apperrors"
	"portal/internal/events"
	"portal/internal/logger"
	"portal/internal/metrics"
	. "portal/internal/models"
	"portal/internal/notifications"
	"portal/internal/repositories"
	"portal/internal/services"
)

// WorkflowController is the only writer of status and notes after a record
// is created.
type WorkflowController struct {
	pensionRepo        repositories.PensionRepository
	familyRepo         repositories.FamilyPensionRepository
	contactRepo        repositories.ContactRepository
	transactionService *services.TransactionService
	cacheInvalidation  *services.CacheInvalidationService
	eventBus           *events.EventBus
	metrics            *metrics.Metrics
	notifier           notifications.Notifier
	log                logger.Logger
}

func New(
	pensionRepo repositories.PensionRepository,
	familyRepo repositories.FamilyPensionRepository,
	contactRepo repositories.ContactRepository,
	transactionService *services.TransactionService,
	cacheInvalidation *services.CacheInvalidationService,
	eventBus *events.EventBus,
	metrics *metrics.Metrics,
	notifier notifications.Notifier,
) *WorkflowController {
	return &WorkflowController{
		pensionRepo:        pensionRepo,
		familyRepo:         familyRepo,
		contactRepo:        contactRepo,
		transactionService: transactionService,
		cacheInvalidation:  cacheInvalidation,
		eventBus:           eventBus,
		metrics:            metrics,
		notifier:           notifier,
		log:                logger.New("WorkflowController"),
	}
}

// Transition moves record id of kind to the requested status. An illegal
// status is rejected before the record is looked up and leaves it untouched.
// Applying the current status again succeeds and changes nothing else.
func (wc *WorkflowController) Transition(
	ctx context.Context,
	kind Kind,
	id string,
	req StatusUpdateRequest,
) (Record, error) {
	log := wc.log.Function("Transition")

	status, err := kind.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var updated Record
	err = wc.transactionService.Execute(ctx, func(ctx context.Context) error {
		current, err := wc.load(ctx, kind, id)
		if err != nil {
			return err
		}

		if err := ValidateTransition(kind, current.CurrentStatus(), status); err != nil {
			return err
		}

		updated, err = wc.update(ctx, kind, id, status, req.Notes)
		return err
	})
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, log.Err("failed to update status", err, "kind", kind, "id", id)
	}

	if err := wc.cacheInvalidation.InvalidateRecord(ctx, kind, id); err != nil {
		log.Warn("failed to invalidate cached record", "kind", kind, "id", id, "error", err)
	}

	wc.metrics.IncrementTransition(string(kind), string(status))

	event := events.Event{
		Type:     events.TypeStatusChanged,
		Channel:  events.ChannelAdmin,
		Kind:     string(kind),
		RecordID: id,
		Status:   string(status),
	}
	if err := wc.eventBus.Publish(ctx, event); err != nil {
		log.Warn("failed to publish status event", "kind", kind, "id", id, "error", err)
	}

	wc.notifier.StatusChanged(updated, req.Notes)

	log.Info("Status updated", "kind", kind, "id", id, "status", status)
	return updated, nil
}

func (wc *WorkflowController) load(ctx context.Context, kind Kind, id string) (Record, error) {
	switch kind {
	case KindPension:
		return wc.pensionRepo.GetByID(ctx, id)
	case KindFamilyPension:
		return wc.familyRepo.GetByID(ctx, id)
	case KindContact:
		return wc.contactRepo.GetByID(ctx, id)
	default:
		return nil, apperrors.NotFound("Unknown record kind")
	}
}

func (wc *WorkflowController) update(
	ctx context.Context,
	kind Kind,
	id string,
	status Status,
	notes *string,
) (Record, error) {
	switch kind {
	case KindPension:
		return wc.pensionRepo.UpdateStatus(ctx, id, status, notes)
	case KindFamilyPension:
		return wc.familyRepo.UpdateStatus(ctx, id, status, notes)
	case KindContact:
		return wc.contactRepo.UpdateStatus(ctx, id, status, notes)
	default:
		return nil, apperrors.NotFound("Unknown record kind")
	}
}
