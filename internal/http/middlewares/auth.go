package middlewares

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/aegis/internal/http/errors"
	"github.com/dropDatabas3/aegis/internal/observability/logger"
)

// AuthConfig configura la extracción del actor.
type AuthConfig struct {
	// Secret HMAC para validar los bearer tokens del servicio de
	// identidad. Vacío = modo dev: el actor viene de X-Actor-ID.
	Secret string
	Issuer string
}

// WithAuth extrae el actor del request y lo deja en el contexto.
// El motor confía en la identidad que le da el servicio de identidad;
// la AUTORIZACIÓN (quién puede moderar qué) se decide adentro, por rol.
func WithAuth(cfg AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Secret == "" {
				// Modo dev: identidad por header, sin firma.
				if actor := strings.TrimSpace(r.Header.Get("X-Actor-ID")); actor != "" {
					r = r.WithContext(WithActor(r.Context(), actor))
				}
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
			if cfg.Issuer != "" {
				opts = append(opts, jwt.WithIssuer(cfg.Issuer))
			}
			tk, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				return []byte(cfg.Secret), nil
			}, opts...)
			if err != nil || !tk.Valid {
				logger.From(r.Context()).Debug("bearer token rejected", logger.Err(err))
				errors.WriteError(w, errors.ErrTokenInvalid)
				return
			}

			sub, err := tk.Claims.GetSubject()
			if err != nil || sub == "" {
				errors.WriteError(w, errors.ErrTokenInvalid.WithDetail("missing sub claim"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), sub)))
		})
	}
}

// RequireActor corta con 401 los requests sin actor autenticado.
func RequireActor() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetActor(r.Context()) == "" {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
