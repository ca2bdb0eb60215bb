package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/aegis/internal/content"
	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/http/dto"
	"github.com/dropDatabas3/aegis/internal/http/middlewares"
	"github.com/dropDatabas3/aegis/internal/http/router"
	"github.com/dropDatabas3/aegis/internal/moderation"
	"github.com/dropDatabas3/aegis/internal/scope"
	"github.com/dropDatabas3/aegis/internal/store/memory"
)

// env levanta la API completa sobre el store en memoria, en modo dev
// (actor por X-Actor-ID), con "root" como administrador global.
type env struct {
	srv *httptest.Server
	st  *memory.Store
}

func newEnv(t *testing.T, auth middlewares.AuthConfig) *env {
	t.Helper()

	st := memory.New()
	dir := content.NewMemoryDirectory()
	dir.AddHub("h1", "c1")
	dir.AddSpace("s1", "h1")
	dir.AddPost("p1", "s1")

	seq := 0
	services := moderation.New(st, scope.NewResolver(dir), moderation.Options{
		NewID: func() string { seq++; return fmt.Sprintf("id-%03d", seq) },
	})

	ctx := context.Background()
	err := st.Roles().Create(ctx, &domain.RoleGrant{
		ID: "seed-root", SubjectUserID: "root", RoleType: domain.RoleAdministrator,
		Scope: domain.GlobalScope(), GrantedByUserID: "system", GrantedAt: time.Now().UTC(),
	}, nil)
	require.NoError(t, err)
	err = st.ReportReasons().Create(ctx, &domain.ReportReason{
		ID: "r-spam", Name: "spam", Description: "spam o promoción no deseada",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router.New(router.Deps{
		Services: services,
		Store:    st,
		Auth:     auth,
	}))
	t.Cleanup(srv.Close)
	return &env{srv: srv, st: st}
}

// do ejecuta un request como el actor dado (modo dev) y decodifica la
// respuesta JSON en out si no es nil.
func (e *env) do(t *testing.T, method, path, actor string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-Actor-ID", actor)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func errCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

func TestHealthzIsPublic(t *testing.T) {
	e := newEnv(t, middlewares.AuthConfig{})

	var body struct {
		Status string `json:"status"`
	}
	resp := e.do(t, http.MethodGet, "/healthz", "", nil, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t, middlewares.AuthConfig{})
	resp := e.do(t, http.MethodGet, "/metrics", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestV1RequiresActor(t *testing.T) {
	e := newEnv(t, middlewares.AuthConfig{})
	resp := e.do(t, http.MethodGet, "/v1/reports", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errCode(t, resp))
}

func TestRoleLifecycleOverHTTP(t *testing.T) {
	e := newEnv(t, middlewares.AuthConfig{})

	var grant dto.RoleGrantResponse
	resp := e.do(t, http.MethodPost, "/v1/roles", "root", dto.AssignRoleRequest{
		UserID: "u1",
		Role:   "moderator",
		Scope:  dto.ScopeRef{SpaceID: strPtr("s1")},
	}, &grant)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "u1", grant.UserID)
	assert.Equal(t, "root", grant.GrantedBy)

	var perm dto.PermissionResponse
	resp = e.do(t, http.MethodGet, "/v1/users/u1/can-moderate?space_id=s1", "root", nil, &perm)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, perm.Allowed)

	var roles []dto.RoleGrantResponse
	resp = e.do(t, http.MethodGet, "/v1/users/u1/roles", "root", nil, &roles)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, roles, 1)
	assert.Equal(t, grant.ID, roles[0].ID)

	resp = e.do(t, http.MethodDelete, "/v1/roles/"+grant.ID, "root", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Segunda revocación: not found.
	resp = e.do(t, http.MethodDelete, "/v1/roles/"+grant.ID, "root", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssignRoleErrorContracts(t *testing.T) {
	e := newEnv(t, middlewares.AuthConfig{})

	// Scope con dos IDs.
	resp := e.do(t, http.MethodPost, "/v1/roles", "root", dto.AssignRoleRequest{
		UserID: "u1",
		Role:   "moderator",
		Scope:  dto.ScopeRef{HubID: strPtr("h1"), SpaceID: strPtr("s1")},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_SCOPE", errCode(t, resp))

	// Rol desconocido.
	resp = e.do(t, http.MethodPost, "/v1/roles", "root", dto.AssignRoleRequest{
		UserID: "u1", Role: "owner",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Actor sin autoridad.
	resp = e.do(t, http.MethodPost, "/v1/roles", "rando", dto.AssignRoleRequest{
		UserID: "u1", Role: "moderator", Scope: dto.ScopeRef{SpaceID: strPtr("s1")},
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errCode(t, resp))

	// Grant duplicado.
	body := dto.AssignRoleRequest{UserID: "u1", Role: "moderator", Scope: dto.ScopeRef{SpaceID: strPtr("s1")}}
	resp = e.do(t, http.MethodPost, "/v1/roles", "root", body, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = e.do(t, http.MethodPost, "/v1/roles", "root", body, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestBanLifecycleOverHTTP(t *testing.T) {
	e := newEnv(t, middlewares.AuthConfig{})

	var ban dto.BanResponse
	resp := e.do(t, http.MethodPost, "/v1/bans", "root", dto.BanRequest{
		UserID: "u1",
		Scope:  dto.ScopeRef{HubID: strPtr("h1")},
		Reason: strPtr("spam"),
	}, &ban)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "u1", ban.UserID)

	// El ban de hub se ve desde el space por herencia.
	var status dto.BanStatusResponse
	resp = e.do(t, http.MethodGet, "/v1/users/u1/ban-status?space_id=s1", "root", nil, &status)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, status.Banned)

	resp = e.do(t, http.MethodDelete, "/v1/bans/"+ban.ID, "root", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Doble unban: conflicto.
	resp = e.do(t, http.MethodDelete, "/v1/bans/"+ban.ID, "root", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/v1/users/u1/ban-status?space_id=s1", "root", nil, &status)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, status.Banned)

	// expires_at malformado.
	resp = e.do(t, http.MethodPost, "/v1/bans", "root", dto.BanRequest{
		UserID:    "u2",
		ExpiresAt: strPtr("mañana"),
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportWorkflowOverHTTP(t *testing.T) {
	e := newEnv(t, middlewares.AuthConfig{})

	var rep dto.ReportResponse
	resp := e.do(t, http.MethodPost, "/v1/reports", "reporter", dto.CreateReportRequest{
		PostID:   strPtr("p1"),
		ReasonID: "r-spam",
		Details:  strPtr("link farm"),
	}, &rep)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", rep.Status)
	assert.Equal(t, "reporter", rep.ReporterID)

	// Un usuario sin rol no lo resuelve.
	resp = e.do(t, http.MethodPost, "/v1/reports/"+rep.ID+"/resolve", "rando",
		dto.ResolveReportRequest{}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var comment dto.CommentResponse
	resp = e.do(t, http.MethodPost, "/v1/reports/"+rep.ID+"/comments", "root",
		dto.CommentRequest{Content: "confirmed"}, &comment)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/v1/reports/"+rep.ID+"/resolve", "root",
		dto.ResolveReportRequest{Note: strPtr("removed")}, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Estado terminal: segunda resolución choca.
	resp = e.do(t, http.MethodPost, "/v1/reports/"+rep.ID+"/resolve", "root",
		dto.ResolveReportRequest{Dismiss: true}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "REPORT_NOT_PENDING", errCode(t, resp))

	var page dto.ReportPageResponse
	resp = e.do(t, http.MethodGet, "/v1/reports?status=resolved", "root", nil, &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, page.Items, 1)
	assert.Equal(t, rep.ID, page.Items[0].ID)
	assert.Equal(t, "root", page.Items[0].ResolvedBy)

	resp = e.do(t, http.MethodGet, "/v1/reports?status=bogus", "root", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var comments []dto.CommentResponse
	resp = e.do(t, http.MethodGet, "/v1/reports/"+rep.ID+"/comments", "root", nil, &comments)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, comments, 1)

	var reasons []dto.ReasonResponse
	resp = e.do(t, http.MethodGet, "/v1/report-reasons", "reporter", nil, &reasons)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, reasons, 1)
}

func TestModerationLogOverHTTP(t *testing.T) {
	e := newEnv(t, middlewares.AuthConfig{})

	resp := e.do(t, http.MethodPost, "/v1/bans", "root", dto.BanRequest{
		UserID: "u1",
		Scope:  dto.ScopeRef{SpaceID: strPtr("s1")},
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var page dto.LogPageResponse
	resp = e.do(t, http.MethodGet, "/v1/moderation-log?hub_id=h1", "root", nil, &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "user.banned", page.Items[0].Action)
	assert.Equal(t, "user:u1", page.Items[0].Target)

	// Scope con más de un ID.
	resp = e.do(t, http.MethodGet, "/v1/moderation-log?hub_id=h1&space_id=s1", "root", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBearerAuthMode(t *testing.T) {
	const secret = "test-secret"
	e := newEnv(t, middlewares.AuthConfig{Secret: secret, Issuer: "identity"})

	sign := func(claims jwt.MapClaims) string {
		tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, err := tk.SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	call := func(token string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, e.srv.URL+"/v1/report-reasons", nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	// Token válido.
	good := sign(jwt.MapClaims{"sub": "u1", "iss": "identity", "exp": time.Now().Add(time.Hour).Unix()})
	assert.Equal(t, http.StatusOK, call(good).StatusCode)

	// Sin token: ningún actor, 401.
	assert.Equal(t, http.StatusUnauthorized, call("").StatusCode)

	// Issuer equivocado.
	badIss := sign(jwt.MapClaims{"sub": "u1", "iss": "otro", "exp": time.Now().Add(time.Hour).Unix()})
	resp := call(badIss)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_INVALID", errCode(t, resp))

	// Firma inválida.
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "iss": "identity"})
	forged, err := tk.SignedString([]byte("otro-secreto"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(forged).StatusCode)

	// Token sin sub.
	noSub := sign(jwt.MapClaims{"iss": "identity", "exp": time.Now().Add(time.Hour).Unix()})
	assert.Equal(t, http.StatusUnauthorized, call(noSub).StatusCode)

	// En modo bearer el header de dev se ignora.
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+"/v1/report-reasons", nil)
	require.NoError(t, err)
	req.Header.Set("X-Actor-ID", "root")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func strPtr(s string) *string { return &s }
