package notifications

import (
	"context"
	"errors"
	"sync"
	"time"

	"portal/internal/logger"
	. "portal/internal/models"
)

type Notifier interface {
	SubmissionReceived(record Record)
	StatusChanged(record Record, notes *string)
	Close()
}

type Outcome func(err error)

// Service sends applicant emails in the background. Delivery failures are
// logged and never reach the request that triggered them. Contact messages
// get no email.
type Service struct {
	sender  Sender
	outcome Outcome
	timeout time.Duration
	wg      sync.WaitGroup
	log     logger.Logger
}

func New(sender Sender, outcome Outcome) *Service {
	if outcome == nil {
		outcome = func(error) {}
	}
	return &Service{
		sender:  sender,
		outcome: outcome,
		timeout: 30 * time.Second,
		log:     logger.New("notifications"),
	}
}

func (s *Service) SubmissionReceived(record Record) {
	if record.RecordKind() == KindContact {
		return
	}
	s.dispatch("SubmissionReceived", SubmissionReceivedEmail(record))
}

func (s *Service) StatusChanged(record Record, notes *string) {
	if record.RecordKind() == KindContact {
		return
	}
	s.dispatch("StatusChanged", StatusChangedEmail(record, notes))
}

func (s *Service) dispatch(function string, msg Message) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		err := s.sender.Send(ctx, msg)
		if errors.Is(err, ErrDisabled) {
			return
		}
		s.outcome(err)
		if err != nil {
			s.log.Function(function).Er("failed to send notification", err, "subject", msg.Subject)
		}
	}()
}

// Close waits for in-flight emails.
func (s *Service) Close() {
	s.wg.Wait()
}

type noop struct{}

func NewNoop() Notifier {
	return noop{}
}

func (noop) SubmissionReceived(Record) {}
func (noop) StatusChanged(Record, *string) {}
func (noop) Close() {}
