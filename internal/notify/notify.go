// Package notify implementa el sink de notificaciones del motor.
// Todo acá es best-effort: un fallo de envío se loguea y nada más.
package notify

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/domain/repository"
	"github.com/dropDatabas3/aegis/internal/observability/logger"
)

// Noop descarta todas las notificaciones.
type Noop struct{}

func (Noop) ReportClosed(ctx context.Context, report domain.Report, dismissed bool) {}

// Sender envía un email ya compuesto. Implementado por SMTPSender.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// Mailer notifica por email usando el directorio de usuarios para
// resolver destinatarios.
type Mailer struct {
	sender Sender
	users  repository.UserDirectory
}

// NewMailer crea un Mailer sobre el sender y directorio dados.
func NewMailer(sender Sender, users repository.UserDirectory) *Mailer {
	return &Mailer{sender: sender, users: users}
}

// ReportClosed avisa al reporter que su report fue resuelto o descartado.
func (m *Mailer) ReportClosed(ctx context.Context, report domain.Report, dismissed bool) {
	log := logger.From(ctx).With(
		logger.Component("notify.mailer"),
		logger.ReportID(report.ID),
	)

	email, err := m.users.EmailOf(ctx, report.ReporterUserID)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("reporter has no email, skipping notification")
		} else {
			log.Warn("reporter email lookup failed", logger.Err(err))
		}
		return
	}

	outcome := "resolved"
	if dismissed {
		outcome = "dismissed"
	}

	subject := fmt.Sprintf("Your report has been %s", outcome)
	text := fmt.Sprintf(
		"Your report about %s has been %s by the moderation team.\n",
		report.Target.Describe(), outcome,
	)
	if report.ResolutionNote != nil && *report.ResolutionNote != "" {
		text += fmt.Sprintf("\nModerator note: %s\n", *report.ResolutionNote)
	}

	if err := m.sender.Send(email, subject, "", text); err != nil {
		log.Warn("report notification failed", logger.Err(err))
		return
	}
	log.Debug("report notification sent")
}
