package domain

import "time"

// LogAction es el tipo de acción privilegiada registrada en el log.
type LogAction string

const (
	ActionRoleAssigned  LogAction = "role.assigned"
	ActionRoleRevoked   LogAction = "role.revoked"
	ActionUserBanned    LogAction = "user.banned"
	ActionUserUnbanned  LogAction = "user.unbanned"
	ActionReportClosed  LogAction = "report.resolved"
	ActionReportDropped LogAction = "report.dismissed"
)

// LogEntry es una entrada del moderation log. Append-only: nunca se muta
// ni se borra.
type LogEntry struct {
	ID                string
	Action            LogAction
	ActorUserID       string
	Scope             Scope
	TargetDescription string
	Reason            *string
	CreatedAt         time.Time
}
