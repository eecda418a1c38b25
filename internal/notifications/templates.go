package notifications

import (
	"fmt"
	"html"

	. "portal/internal/models"
)

const portalName = "Pension Portal"

func SubmissionReceivedEmail(record Record) Message {
	label := record.RecordKind().Label()
	subject := fmt.Sprintf("%s application received", label)

	text := fmt.Sprintf(`Dear %s,

Your %s application has been received and is now %s.

Reference: %s
Submitted: %s

You will receive another email when its status changes.

%s`,
		record.DisplayName(), label, record.CurrentStatus(),
		record.RecordID(), record.SubmittedTime().UTC().Format("2006-01-02"),
		portalName)

	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>Your %s application has been received and is now <strong>%s</strong>.</p>
<p>Reference: <code>%s</code><br>Submitted: %s</p>
<p>You will receive another email when its status changes.</p>
<p>%s</p>`,
		html.EscapeString(record.DisplayName()), label, record.CurrentStatus(),
		record.RecordID(), record.SubmittedTime().UTC().Format("2006-01-02"),
		portalName)

	return Message{
		To:       []string{record.ContactEmail()},
		Subject:  subject,
		TextBody: text,
		HTMLBody: body,
	}
}

func StatusChangedEmail(record Record, notes *string) Message {
	label := record.RecordKind().Label()
	subject := fmt.Sprintf("Your %s application is %s", label, record.CurrentStatus())

	remark := ""
	htmlRemark := ""
	if notes != nil && *notes != "" {
		remark = fmt.Sprintf("\nRemarks: %s\n", *notes)
		htmlRemark = fmt.Sprintf("<p>Remarks: %s</p>", html.EscapeString(*notes))
	}

	text := fmt.Sprintf(`Dear %s,

The status of your %s application (reference %s) is now %s.
%s
%s`,
		record.DisplayName(), label, record.RecordID(), record.CurrentStatus(), remark, portalName)

	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>The status of your %s application (reference <code>%s</code>) is now <strong>%s</strong>.</p>
%s<p>%s</p>`,
		html.EscapeString(record.DisplayName()), label, record.RecordID(), record.CurrentStatus(),
		htmlRemark, portalName)

	return Message{
		To:       []string{record.ContactEmail()},
		Subject:  subject,
		TextBody: text,
		HTMLBody: body,
	}
}
