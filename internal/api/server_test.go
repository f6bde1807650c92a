package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/nerrad567/tasktrack-core/internal/audit"
	"github.com/nerrad567/tasktrack-core/internal/auth"
	"github.com/nerrad567/tasktrack-core/internal/infrastructure/config"
	"github.com/nerrad567/tasktrack-core/internal/infrastructure/database"
	"github.com/nerrad567/tasktrack-core/internal/infrastructure/logging"
	"github.com/nerrad567/tasktrack-core/internal/task"
	"github.com/nerrad567/tasktrack-core/migrations"
)

const (
	testSecret   = "test-secret-key-at-least-32-characters-long"
	testPassword = "Passw0rd!X"

	adminUsername = "administrator"
)

// testEnv is a fully wired server over a temp-file database.
type testEnv struct {
	srv       *Server
	handler   http.Handler
	db        *database.DB
	users     *auth.SQLiteUserRepository
	stopAudit func()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "api-test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}

	users := auth.NewUserRepository(db.DB)
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	if err := users.Create(ctx, &auth.User{Username: adminUsername, PasswordHash: hash, IsAdmin: true}); err != nil {
		t.Fatalf("creating admin: %v", err)
	}

	logger := logging.Discard()
	auditRepo := audit.NewSQLiteRepository(db.DB)
	recorder := audit.NewRecorder(auditRepo, logger.Logger)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		recorder.Run(runCtx)
		close(done)
	}()
	stop := func() {
		cancel()
		<-done
	}
	t.Cleanup(func() {
		select {
		case <-done:
		default:
			stop()
		}
	})

	engine := task.NewEngine(task.NewSQLiteRepository(db.DB),
		task.WithEventSink(recorder),
		task.WithLogger(logger.Logger),
	)

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host:     "127.0.0.1",
			Port:     0,
			Timeouts: config.APITimeoutConfig{Read: 5, Write: 5, Idle: 5},
		},
		Logger:    logger,
		Auth:      auth.NewService(users, auth.Argon2Hasher{}, auth.NewTokenService(testSecret)),
		Tasks:     engine,
		Audit:     recorder,
		AuditRepo: auditRepo,
		DB:        db,
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return &testEnv{
		srv:       srv,
		handler:   srv.buildRouter(),
		db:        db,
		users:     users,
		stopAudit: stop,
	}
}

// do sends a request and returns the recorded response.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns its id.
func (e *testEnv) register(t *testing.T, username string) int64 {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"password": testPassword,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, rec.Code, rec.Body)
	}
	var u auth.PublicUser
	decode(t, rec, &u)
	return u.ID
}

// login signs in and returns the access token.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rec.Code, rec.Body)
	}
	var info auth.TokenInfo
	decode(t, rec, &info)
	return info.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body)
	}
}

func expectReason(t *testing.T, rec *httptest.ResponseRecorder, status int, reason task.Reason) {
	t.Helper()
	expectStatus(t, rec, status)
	var e Error
	decode(t, rec, &e)
	if e.Reason != string(reason) {
		t.Errorf("reason = %q, want %q", e.Reason, reason)
	}
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

// =============================================================================
// Health and middleware
// =============================================================================

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	expectStatus(t, rec, http.StatusOK)

	var body map[string]any
	decode(t, rec, &body)
	if body["status"] != "ok" || body["database"] != "ok" || body["version"] != "test" {
		t.Errorf("health = %v", body)
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	env := newTestEnv(t)
	env.stopAudit()
	env.db.Close() //nolint:errcheck // simulating an outage

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	expectStatus(t, rec, http.StatusServiceUnavailable)
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-chosen-id")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "client-chosen-id" {
		t.Errorf("X-Request-ID = %q, want client-chosen-id", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	expectStatus(t, rec, http.StatusNoContent)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/tasks", tt.token, nil)
			expectStatus(t, rec, http.StatusUnauthorized)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusUnauthorized)
}

// =============================================================================
// Auth
// =============================================================================

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "FreshUser1",
		"password": testPassword,
		"email":    "fresh@example.com",
	})
	expectStatus(t, rec, http.StatusCreated)

	var raw map[string]any
	decode(t, rec, &raw)
	if raw["username"] != "freshuser1" || raw["is_admin"] != false {
		t.Errorf("registered user = %v", raw)
	}
	for _, k := range []string{"password", "password_hash", "PasswordHash"} {
		if _, ok := raw[k]; ok {
			t.Errorf("response leaks %q", k)
		}
	}

	tests := []struct {
		name     string
		username string
		password string
		want     int
	}{
		{"duplicate differs only in case", "FRESHUSER1", testPassword, http.StatusConflict},
		{"username too short", "short", testPassword, http.StatusBadRequest},
		{"weak password", "anotheruser", "password", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
				"username": tt.username,
				"password": tt.password,
			})
			expectStatus(t, rec, tt.want)
		})
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "loginuser1")

	rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "LoginUser1",
		"password": testPassword,
	})
	expectStatus(t, rec, http.StatusOK)

	var info auth.TokenInfo
	decode(t, rec, &info)
	if info.AccessToken == "" || info.TokenType != "Bearer" || info.ExpiresIn != int(auth.TokenLifetime.Seconds()) {
		t.Errorf("token info = %+v", info)
	}

	wrong := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "loginuser1",
		"password": "Wr0ngPass!X",
	})
	unknown := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "nobodyhere",
		"password": testPassword,
	})
	expectStatus(t, wrong, http.StatusUnauthorized)
	expectStatus(t, unknown, http.StatusUnauthorized)
	if wrong.Body.String() != unknown.Body.String() {
		t.Errorf("wrong-password and unknown-user responses differ:\n%s\n%s", wrong.Body, unknown.Body)
	}

	empty := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "loginuser1"})
	expectStatus(t, empty, http.StatusBadRequest)
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	id := env.register(t, "profileuser")
	token := env.login(t, "profileuser", testPassword)

	rec := env.do(t, http.MethodGet, "/auth/profile", token, nil)
	expectStatus(t, rec, http.StatusOK)

	var u auth.PublicUser
	decode(t, rec, &u)
	if u.ID != id || u.Username != "profileuser" {
		t.Errorf("profile = %+v", u)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "rotateuser")
	token := env.login(t, "rotateuser", testPassword)

	const newPassword = "N3wSecret!AB"

	rec := env.do(t, http.MethodPost, "/auth/password", token, map[string]string{
		"current_password": "Wr0ngPass!X",
		"new_password":     newPassword,
	})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = env.do(t, http.MethodPost, "/auth/password", token, map[string]string{
		"current_password": testPassword,
		"new_password":     "weak",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodPost, "/auth/password", token, map[string]string{
		"current_password": testPassword,
		"new_password":     newPassword,
	})
	expectStatus(t, rec, http.StatusNoContent)

	env.login(t, "rotateuser", newPassword)
	old := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "rotateuser",
		"password": testPassword,
	})
	expectStatus(t, old, http.StatusUnauthorized)
}

// =============================================================================
// Tasks
// =============================================================================

func TestTaskScenario(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "taskowner")
	adminToken := env.login(t, adminUsername, testPassword)
	userToken := env.login(t, "taskowner", testPassword)

	rec := env.do(t, http.MethodPost, "/tasks", userToken, map[string]string{
		"title":       "Write quarterly report",
		"description": "numbers first",
	})
	expectStatus(t, rec, http.StatusCreated)
	var created task.Task
	decode(t, rec, &created)
	if created.IsClosed || created.CreatedByID != created.UpdatedByID {
		t.Fatalf("created = %+v", created)
	}

	rec = env.do(t, http.MethodPatch, taskPath(created.ID), userToken, map[string]bool{"is_closed": true})
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodGet, taskPath(created.ID), userToken, nil)
	expectReason(t, rec, http.StatusForbidden, task.ReasonClosedToNonOwnerViewer)

	rec = env.do(t, http.MethodPatch, taskPath(created.ID), adminToken, map[string]bool{"is_closed": false})
	expectStatus(t, rec, http.StatusOK)
	var reopened task.Task
	decode(t, rec, &reopened)
	if reopened.IsClosed || reopened.CreatedByID != created.CreatedByID || reopened.UpdatedByID == created.CreatedByID {
		t.Errorf("reopened = %+v", reopened)
	}

	rec = env.do(t, http.MethodGet, taskPath(created.ID), userToken, nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestTaskDenials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "taskowner")
	env.register(t, "bystander")
	adminToken := env.login(t, adminUsername, testPassword)
	ownerToken := env.login(t, "taskowner", testPassword)
	otherToken := env.login(t, "bystander", testPassword)

	rec := env.do(t, http.MethodPost, "/tasks", ownerToken, map[string]string{"title": "Owner only task"})
	expectStatus(t, rec, http.StatusCreated)
	var tk task.Task
	decode(t, rec, &tk)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
		reason task.Reason
	}{
		{"other reads", http.MethodGet, taskPath(tk.ID), otherToken, nil, http.StatusForbidden, task.ReasonNotOwner},
		{"other closes", http.MethodPatch, taskPath(tk.ID), otherToken, map[string]bool{"is_closed": true}, http.StatusForbidden, task.ReasonNotOwner},
		{"owner reopens open task", http.MethodPatch, taskPath(tk.ID), ownerToken, map[string]bool{"is_closed": false}, http.StatusForbidden, task.ReasonInvalidTransition},
		{"owner deletes", http.MethodDelete, taskPath(tk.ID), ownerToken, nil, http.StatusForbidden, task.ReasonAdminRequired},
		{"missing task", http.MethodGet, taskPath(9999), adminToken, nil, http.StatusNotFound, task.ReasonNotFound},
		{"missing delete", http.MethodDelete, taskPath(9999), ownerToken, nil, http.StatusNotFound, task.ReasonNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.token, tt.body)
			expectReason(t, rec, tt.status, tt.reason)
		})
	}

	rec = env.do(t, http.MethodGet, "/tasks/abc", ownerToken, nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestUpdateTask_RequiresIsClosed(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "taskowner")
	adminToken := env.login(t, adminUsername, testPassword)
	ownerToken := env.login(t, "taskowner", testPassword)

	rec := env.do(t, http.MethodPost, "/tasks", ownerToken, map[string]string{"title": "Needs a field"})
	expectStatus(t, rec, http.StatusCreated)
	var tk task.Task
	decode(t, rec, &tk)

	tests := []struct {
		name  string
		token string
		body  any
	}{
		{"owner empty body", ownerToken, map[string]any{}},
		{"owner null is_closed", ownerToken, map[string]any{"is_closed": nil}},
		{"admin empty body", adminToken, map[string]any{}},
		{"admin null is_closed", adminToken, map[string]any{"is_closed": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPatch, taskPath(tk.ID), tt.token, tt.body)
			expectStatus(t, rec, http.StatusBadRequest)

			var e Error
			decode(t, rec, &e)
			if e.Reason != "" {
				t.Errorf("reason = %q, want none for a malformed request", e.Reason)
			}
		})
	}

	// The task is untouched.
	rec = env.do(t, http.MethodGet, taskPath(tk.ID), adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var got task.Task
	decode(t, rec, &got)
	if got.IsClosed || !got.UpdatedAt.Equal(tk.UpdatedAt) {
		t.Errorf("task changed by rejected updates: %+v", got)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, adminUsername, testPassword)

	for _, title := range []string{"", "short", "This title is far too long to be accepted by the service"} {
		rec := env.do(t, http.MethodPost, "/tasks", token, map[string]string{"title": title})
		expectStatus(t, rec, http.StatusBadRequest)
	}
}

func TestListTasks(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "taskowner")
	adminToken := env.login(t, adminUsername, testPassword)
	ownerToken := env.login(t, "taskowner", testPassword)

	for _, title := range []string{"First owner task", "Second owner task"} {
		expectStatus(t, env.do(t, http.MethodPost, "/tasks", ownerToken, map[string]string{"title": title}), http.StatusCreated)
	}
	expectStatus(t, env.do(t, http.MethodPost, "/tasks", adminToken, map[string]string{"title": "Admin's own task"}), http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPatch, "/tasks/1", ownerToken, map[string]bool{"is_closed": true}), http.StatusOK)

	var ownerList struct {
		Tasks []task.Task `json:"tasks"`
		Count int         `json:"count"`
	}
	rec := env.do(t, http.MethodGet, "/tasks", ownerToken, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &ownerList)
	if ownerList.Count != 1 || ownerList.Tasks[0].Title != "Second owner task" {
		t.Errorf("owner list = %+v, want only the open own task", ownerList)
	}

	var adminList struct {
		Count int `json:"count"`
	}
	rec = env.do(t, http.MethodGet, "/tasks", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &adminList)
	if adminList.Count != 3 {
		t.Errorf("admin count = %d, want 3", adminList.Count)
	}
}

func TestDeleteTask_Admin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "taskowner")
	adminToken := env.login(t, adminUsername, testPassword)
	ownerToken := env.login(t, "taskowner", testPassword)

	rec := env.do(t, http.MethodPost, "/tasks", ownerToken, map[string]string{"title": "Task to remove"})
	var tk task.Task
	decode(t, rec, &tk)

	rec = env.do(t, http.MethodDelete, taskPath(tk.ID), adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var removed task.Task
	decode(t, rec, &removed)
	if removed.ID != tk.ID || removed.UpdatedByID != 1 || removed.CreatedByID != tk.CreatedByID {
		t.Errorf("removed = %+v", removed)
	}

	rec = env.do(t, http.MethodGet, taskPath(tk.ID), adminToken, nil)
	expectReason(t, rec, http.StatusNotFound, task.ReasonNotFound)
}

// =============================================================================
// Users and audit
// =============================================================================

func TestUserManagement(t *testing.T) {
	env := newTestEnv(t)
	userID := env.register(t, "regularjoe")
	adminToken := env.login(t, adminUsername, testPassword)
	userToken := env.login(t, "regularjoe", testPassword)

	expectStatus(t, env.do(t, http.MethodGet, "/users", userToken, nil), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodGet, "/audit", userToken, nil), http.StatusForbidden)

	rec := env.do(t, http.MethodGet, "/users", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, rec, &list)
	if list.Count != 2 {
		t.Errorf("user count = %d, want 2", list.Count)
	}

	userPath := "/users/" + strconv.FormatInt(userID, 10)
	rec = env.do(t, http.MethodPatch, userPath, adminToken, map[string]bool{"is_admin": true})
	expectStatus(t, rec, http.StatusOK)
	var promoted auth.PublicUser
	decode(t, rec, &promoted)
	if !promoted.IsAdmin {
		t.Error("user should be admin after promotion")
	}

	// The promoted user's existing token now carries admin rights.
	expectStatus(t, env.do(t, http.MethodGet, "/users", userToken, nil), http.StatusOK)

	expectStatus(t, env.do(t, http.MethodPatch, "/users/1", adminToken, map[string]bool{"is_admin": false}), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodPatch, userPath, adminToken, map[string]any{}), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPatch, "/users/999", adminToken, map[string]bool{"is_admin": true}), http.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodDelete, "/users/1", adminToken, nil), http.StatusForbidden)

	expectStatus(t, env.do(t, http.MethodDelete, userPath, adminToken, nil), http.StatusNoContent)

	// A deleted account's token stops working.
	expectStatus(t, env.do(t, http.MethodGet, "/auth/profile", userToken, nil), http.StatusUnauthorized)
}

func TestAuditTrail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "audituser1")
	adminToken := env.login(t, adminUsername, testPassword)
	userToken := env.login(t, "audituser1", testPassword)

	rec := env.do(t, http.MethodPost, "/tasks", userToken, map[string]string{"title": "Audited task"})
	expectStatus(t, rec, http.StatusCreated)
	env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "audituser1", "password": "Wr0ngPass!X"})

	// Flush the queue before reading it back.
	env.stopAudit()

	rec = env.do(t, http.MethodGet, "/audit", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var all audit.ListResult
	decode(t, rec, &all)

	seen := map[string]bool{}
	for _, l := range all.Logs {
		seen[l.Action] = true
		if l.RequestID == "" {
			t.Errorf("%s entry has no request id", l.Action)
		}
		if l.Action == audit.ActionLogin && (l.ActorID == 0 || l.ActorID != l.EntityID) {
			t.Errorf("login entry actor/entity = %d/%d, want the signed-in account", l.ActorID, l.EntityID)
		}
	}
	for _, want := range []string{audit.ActionRegister, audit.ActionLogin, audit.ActionLoginFailed, audit.ActionCreate} {
		if !seen[want] {
			t.Errorf("audit trail missing %q (have %v)", want, seen)
		}
	}

	rec = env.do(t, http.MethodGet, "/audit?entity_type=task&action=create", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var tasks audit.ListResult
	decode(t, rec, &tasks)
	if tasks.Total != 1 || tasks.Logs[0].EntityType != audit.EntityTask {
		t.Errorf("filtered audit = %+v", tasks)
	}
}

// =============================================================================
// Lifecycle
// =============================================================================

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Error("New() without logger should fail")
	}
	if _, err := New(Deps{Logger: logging.Discard()}); err == nil {
		t.Error("New() without auth should fail")
	}
}

func TestStartAndClose(t *testing.T) {
	env := newTestEnv(t)

	if err := env.srv.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() before Start should fail")
	}
	if err := env.srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if env.srv.Addr() == nil {
		t.Fatal("Addr() = nil after Start")
	}

	resp, err := http.Get("http://" + env.srv.Addr().String() + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	if err := env.srv.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if err := env.srv.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
