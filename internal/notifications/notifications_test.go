package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

func (f *fakeSender) Send(_ context.Context, m Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, m)
	return f.err
}

func pensionRecord() *PensionApplication {
	return &PensionApplication{
		Submission: Submission{
			ID:          "0190f5e2-0000-7000-8000-000000000001",
			Status:      StatusPending,
			SubmittedAt: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		ApplicantName: "Ramesh <Kumar>",
		EmployeeID:    "EMP001",
		Email:         "ramesh@example.com",
	}
}

func TestService_SubmissionReceived(t *testing.T) {
	sender := &fakeSender{}
	var outcomes []error
	svc := New(sender, func(err error) { outcomes = append(outcomes, err) })

	svc.SubmissionReceived(pensionRecord())
	svc.SubmissionReceived(&ContactMessage{Email: "c@example.com"})
	svc.Close()

	require.Len(t, sender.messages, 1)
	msg := sender.messages[0]
	assert.Equal(t, []string{"ramesh@example.com"}, msg.To)
	assert.Equal(t, "Pension application received", msg.Subject)
	assert.Contains(t, msg.TextBody, "2024-03-10")
	assert.Contains(t, msg.HTMLBody, "Ramesh &lt;Kumar&gt;")
	assert.Equal(t, []error{nil}, outcomes)
}

func TestService_StatusChanged(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	var outcomes []error
	svc := New(sender, func(err error) { outcomes = append(outcomes, err) })

	record := pensionRecord()
	record.Status = StatusApproved
	notes := "Approved after verification"
	svc.StatusChanged(record, &notes)
	svc.Close()

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "Your Pension application is approved", sender.messages[0].Subject)
	assert.Contains(t, sender.messages[0].TextBody, "Remarks: Approved after verification")
	require.Len(t, outcomes, 1)
	assert.Error(t, outcomes[0])
}

func TestService_DisabledSenderIsQuiet(t *testing.T) {
	var outcomes []error
	svc := New(NewClient(ClientConfig{Enabled: false}), func(err error) { outcomes = append(outcomes, err) })

	svc.SubmissionReceived(pensionRecord())
	svc.Close()

	assert.Empty(t, outcomes)
}

func TestBuildMessage(t *testing.T) {
	_, err := buildMessage("", Message{To: []string{"a@example.com"}, Subject: "s", TextBody: "b"})
	assert.Error(t, err)

	_, err = buildMessage("portal@example.com", Message{Subject: "s", TextBody: "b"})
	assert.Error(t, err)

	_, err = buildMessage("portal@example.com", Message{To: []string{"a@example.com"}, Subject: "s"})
	assert.Error(t, err)

	msg, err := buildMessage("portal@example.com", Message{
		To:       []string{" a@example.com "},
		Subject:  "Hello",
		TextBody: "text",
		HTMLBody: "<p>html</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, msg.GetHeader("To"))
}

func TestNoop(t *testing.T) {
	n := NewNoop()
	assert.NotPanics(t, func() {
		n.SubmissionReceived(pensionRecord())
		n.StatusChanged(pensionRecord(), nil)
		n.Close()
	})
}
