package middlewares

import "context"

type ctxKey string

const (
	// ctxActorKey guarda el user ID del actor autenticado
	ctxActorKey ctxKey = "actor_id"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// WithActor inyecta el actor en el contexto
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxActorKey, userID)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetActor obtiene el user ID del actor autenticado.
// Retorna cadena vacía si no hay actor (middleware de auth no aplicado).
func GetActor(ctx context.Context) string {
	if v := ctx.Value(ctxActorKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
