package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/aegis/internal/content"
	"github.com/dropDatabas3/aegis/internal/domain"
)

type fakeSender struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	to, subject, text string
}

func (f *fakeSender) Send(to, subject, htmlBody, textBody string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, text: textBody})
	return nil
}

func testReport() domain.Report {
	post := "p1"
	return domain.Report{
		ID:             "rep-1",
		ReporterUserID: "u1",
		Target:         domain.ReportTarget{PostID: &post},
		Status:         domain.ReportResolved,
	}
}

func TestMailerReportClosed(t *testing.T) {
	users := content.NewMemoryDirectory()
	users.AddUser("u1", "u1@example.com")
	sender := &fakeSender{}
	m := NewMailer(sender, users)

	report := testReport()
	note := "content removed"
	report.ResolutionNote = &note
	m.ReportClosed(context.Background(), report, false)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "u1@example.com", sender.sent[0].to)
	assert.Equal(t, "Your report has been resolved", sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].text, "post:p1")
	assert.Contains(t, sender.sent[0].text, "content removed")
}

func TestMailerDismissedOutcome(t *testing.T) {
	users := content.NewMemoryDirectory()
	users.AddUser("u1", "u1@example.com")
	sender := &fakeSender{}
	m := NewMailer(sender, users)

	m.ReportClosed(context.Background(), testReport(), true)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Your report has been dismissed", sender.sent[0].subject)
}

func TestMailerSkipsUnknownReporter(t *testing.T) {
	sender := &fakeSender{}
	m := NewMailer(sender, content.NewMemoryDirectory())

	m.ReportClosed(context.Background(), testReport(), false)
	assert.Empty(t, sender.sent, "sin email no hay envío ni error")
}

func TestMailerSwallowsSendFailure(t *testing.T) {
	users := content.NewMemoryDirectory()
	users.AddUser("u1", "u1@example.com")
	m := NewMailer(&fakeSender{fail: true}, users)

	// No debe panickear ni propagar nada.
	m.ReportClosed(context.Background(), testReport(), false)
}
