package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/porchest/portal-api/internal/adapters/http/respond"
	"github.com/porchest/portal-api/internal/domain/user"
	"github.com/porchest/portal-api/internal/platform/config"
	"github.com/porchest/portal-api/internal/platform/logging"
	"github.com/porchest/portal-api/internal/ports"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

var errFakeNotWired = errors.New("fake service method not wired")

// apiEnvelope mirrors the wire shape of the response envelope for decoding
// in assertions.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta map[string]any `json:"meta"`
}

// fakeUserService implements ports.UserService with per-method hooks.
// Unhooked methods fail loudly so tests only exercise what they wire.
type fakeUserService struct {
	registerFn func(ctx context.Context, u *user.User, password string) (*user.User, error)
	getFn      func(ctx context.Context, id string) (*user.User, error)
	listFn     func(ctx context.Context, page, limit int) (*ports.UserPage, error)
	updateFn   func(ctx context.Context, id string, u *user.User) (*user.User, error)
	deleteFn   func(ctx context.Context, id string) error
	verifyFn   func(ctx context.Context, id string) (*user.User, error)
	rejectFn   func(ctx context.Context, id string) (*user.User, error)
}

func (f *fakeUserService) Register(ctx context.Context, u *user.User, password string) (*user.User, error) {
	if f.registerFn == nil {
		return nil, errFakeNotWired
	}
	return f.registerFn(ctx, u, password)
}

func (f *fakeUserService) GetUser(ctx context.Context, id string) (*user.User, error) {
	if f.getFn == nil {
		return nil, errFakeNotWired
	}
	return f.getFn(ctx, id)
}

func (f *fakeUserService) ListUsers(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	if f.listFn == nil {
		return nil, errFakeNotWired
	}
	return f.listFn(ctx, page, limit)
}

func (f *fakeUserService) UpdateUser(ctx context.Context, id string, u *user.User) (*user.User, error) {
	if f.updateFn == nil {
		return nil, errFakeNotWired
	}
	return f.updateFn(ctx, id, u)
}

func (f *fakeUserService) DeleteUser(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		return errFakeNotWired
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeUserService) VerifyUser(ctx context.Context, id string) (*user.User, error) {
	if f.verifyFn == nil {
		return nil, errFakeNotWired
	}
	return f.verifyFn(ctx, id)
}

func (f *fakeUserService) RejectUser(ctx context.Context, id string) (*user.User, error) {
	if f.rejectFn == nil {
		return nil, errFakeNotWired
	}
	return f.rejectFn(ctx, id)
}

func testResponder() *respond.Responder {
	logger := logging.New(logging.Config{Out: io.Discard, ErrOut: io.Discard})
	return respond.NewResponder(config.EnvProduction, logger)
}

func validUser() *user.User {
	return &user.User{
		ID:           "65f1a2b3c4d5e6f708192a3b",
		Email:        "ana@northlight.agency",
		Name:         "Ana Duarte",
		Company:      "Northlight",
		Role:         user.RoleClient,
		Status:       user.StatusPending,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    testTime,
		UpdatedAt:    testTime,
	}
}

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	return env
}

func decodeData[T any](t *testing.T, env apiEnvelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("failed to decode envelope data: %v", err)
	}
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
