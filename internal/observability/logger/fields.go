package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - MODERACIÓN
// =================================================================================

// UserID crea un campo para el ID del usuario sujeto de la acción.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// ActorID crea un campo para el ID del actor que ejecuta la acción.
func ActorID(v string) zap.Field {
	return zap.String("actor_id", v)
}

// ScopeKey crea un campo para la clave canónica del scope
// (global | community:<id> | hub:<id> | space:<id>).
func ScopeKey(v string) zap.Field {
	return zap.String("scope", v)
}

// GrantID crea un campo para el ID de un role grant.
func GrantID(v string) zap.Field {
	return zap.String("grant_id", v)
}

// BanID crea un campo para el ID de un ban.
func BanID(v string) zap.Field {
	return zap.String("ban_id", v)
}

// ReportID crea un campo para el ID de un report.
func ReportID(v string) zap.Field {
	return zap.String("report_id", v)
}

// Action crea un campo para el action type del moderation log.
func Action(v string) zap.Field {
	return zap.String("action", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (controller, service, repository).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// =================================================================================
// CAMPOS GENÉRICOS
// =================================================================================

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// ID crea un campo genérico para un ID.
func ID(v string) zap.Field {
	return zap.String("id", v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field {
	return zap.Int(key, v)
}

// Bool crea un campo bool genérico.
func Bool(key string, v bool) zap.Field {
	return zap.Bool(key, v)
}

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}
