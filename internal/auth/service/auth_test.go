package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hotelbox/pkg/client"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/session"
	"hotelbox/pkg/validation"
)

type mockAuthAPI struct {
	loginFunc    func(ctx context.Context, req model.LoginRequest) (*client.AuthResult, error)
	refreshFunc  func(ctx context.Context, cookies []*http.Cookie) (*client.AuthResult, error)
	registerFunc func(ctx context.Context, req model.RegisterRequest) (string, error)
}

func (m *mockAuthAPI) Login(ctx context.Context, req model.LoginRequest) (*client.AuthResult, error) {
	return m.loginFunc(ctx, req)
}

func (m *mockAuthAPI) Refresh(ctx context.Context, cookies []*http.Cookie) (*client.AuthResult, error) {
	return m.refreshFunc(ctx, cookies)
}

func (m *mockAuthAPI) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	return m.registerFunc(ctx, req)
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	claims := session.Claims{
		Username: "agent",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m := session.NewManager(session.Config{TTL: time.Hour, InboxSize: 5}, session.NewTokenParser("test-secret"), logger.Discard())
	t.Cleanup(m.Stop)
	return m
}

func TestLogin(t *testing.T) {
	manager := newManager(t)
	refresh := &http.Cookie{Name: client.RefreshTokenCookie, Value: "r1"}
	api := &mockAuthAPI{loginFunc: func(_ context.Context, req model.LoginRequest) (*client.AuthResult, error) {
		if req.Username != "agent01" {
			t.Errorf("username = %q", req.Username)
		}
		return &client.AuthResult{Tokens: model.AuthTokens{AccessToken: signToken(t, "user-1")}, Cookies: []*http.Cookie{refresh}}, nil
	}}
	svc := NewAuthService(api, manager, validation.New("ID"), logger.Discard())

	res, err := svc.Login(context.Background(), model.LoginRequest{Username: "  agent01 ", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Message != MsgLoggedIn || len(res.Cookies) != 1 {
		t.Errorf("Result = %+v", res)
	}
	view := res.View()
	if view.UserID != "user-1" || view.Username != "agent" || view.SessionID == "" {
		t.Errorf("View() = %+v", view)
	}
	if _, ok := manager.Get(view.SessionID); !ok {
		t.Error("session not registered")
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		req      model.LoginRequest
		token    string
		apiErr   error
		wantCode string
	}{
		{"validation", model.LoginRequest{Username: "a", Password: "x"}, "", nil, apperrors.CodeValidation},
		{"upstream rejects", model.LoginRequest{Username: "agent01", Password: "secret123"}, "", apperrors.Upstream(401, "Invalid credentials"), apperrors.CodeUpstream},
		{"garbage token", model.LoginRequest{Username: "agent01", Password: "secret123"}, "not-a-jwt", nil, apperrors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAuthAPI{loginFunc: func(context.Context, model.LoginRequest) (*client.AuthResult, error) {
				if tt.apiErr != nil {
					return nil, tt.apiErr
				}
				return &client.AuthResult{Tokens: model.AuthTokens{AccessToken: tt.token}}, nil
			}}
			svc := NewAuthService(api, newManager(t), validation.New("ID"), logger.Discard())

			if _, err := svc.Login(context.Background(), tt.req); !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("Login() error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	manager := newManager(t)
	existing, err := manager.Create(signToken(t, "user-1"))
	if err != nil {
		t.Fatal(err)
	}

	var forwarded []*http.Cookie
	api := &mockAuthAPI{refreshFunc: func(_ context.Context, cookies []*http.Cookie) (*client.AuthResult, error) {
		forwarded = cookies
		return &client.AuthResult{Tokens: model.AuthTokens{AccessToken: signToken(t, "user-1")}}, nil
	}}
	svc := NewAuthService(api, manager, validation.New("ID"), logger.Discard())

	cookies := []*http.Cookie{
		{Name: "hotelbox_session", Value: existing.ID},
		{Name: client.RefreshTokenCookie, Value: "r1"},
	}

	res, err := svc.Refresh(context.Background(), existing.ID, cookies)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if res.Session.ID != existing.ID {
		t.Errorf("session id = %q, want renewed %q", res.Session.ID, existing.ID)
	}
	if len(forwarded) != 1 || forwarded[0].Name != client.RefreshTokenCookie {
		t.Errorf("forwarded cookies = %+v", forwarded)
	}

	res, err = svc.Refresh(context.Background(), "gone", cookies)
	if err != nil {
		t.Fatalf("Refresh() unknown session error = %v", err)
	}
	if res.Session.ID == "gone" || res.Session.ID == existing.ID {
		t.Errorf("expected a new session, got %q", res.Session.ID)
	}
}

func TestRefresh_RequiresCookie(t *testing.T) {
	svc := NewAuthService(&mockAuthAPI{}, newManager(t), validation.New("ID"), logger.Discard())
	_, err := svc.Refresh(context.Background(), "", nil)
	if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("Refresh() error = %v", err)
	}
}

func TestRefresh_OtherUserTokenRejected(t *testing.T) {
	manager := newManager(t)
	existing, err := manager.Create(signToken(t, "user-1"))
	if err != nil {
		t.Fatal(err)
	}
	api := &mockAuthAPI{refreshFunc: func(context.Context, []*http.Cookie) (*client.AuthResult, error) {
		return &client.AuthResult{Tokens: model.AuthTokens{AccessToken: signToken(t, "user-2")}}, nil
	}}
	svc := NewAuthService(api, manager, validation.New("ID"), logger.Discard())

	_, err = svc.Refresh(context.Background(), existing.ID, []*http.Cookie{{Name: client.RefreshTokenCookie, Value: "r"}})
	if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("Refresh() error = %v", err)
	}
}

func TestRegister(t *testing.T) {
	var sent model.RegisterRequest
	api := &mockAuthAPI{registerFunc: func(_ context.Context, req model.RegisterRequest) (string, error) {
		sent = req
		return "", nil
	}}
	svc := NewAuthService(api, newManager(t), validation.New("ID"), logger.Discard())

	req := model.RegisterRequest{
		FirstName:       " Siti ",
		AgentCompany:    "Travel  Co",
		Email:           "Siti@Travel.CO",
		PhoneNumber:     "0812 3456 7890",
		Username:        "siti01",
		Password:        "password1",
		ConfirmPassword: "password1",
	}
	msg, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if msg != MsgRegistered {
		t.Errorf("message = %q", msg)
	}
	if sent.PhoneNumber != "+6281234567890" || sent.Email != "siti@travel.co" || sent.FirstName != "Siti" || sent.AgentCompany != "Travel Co" {
		t.Errorf("sent = %+v", sent)
	}

	req.ConfirmPassword = "different"
	_, err = svc.Register(context.Background(), req)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Details["confirm_password"] == nil {
		t.Errorf("Register() mismatch error = %v", err)
	}
}

func TestLogout(t *testing.T) {
	manager := newManager(t)
	sess, err := manager.Create(signToken(t, "user-1"))
	if err != nil {
		t.Fatal(err)
	}
	svc := NewAuthService(&mockAuthAPI{}, manager, validation.New("ID"), logger.Discard())

	if err := svc.Logout(session.WithSession(context.Background(), sess)); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, ok := manager.Get(sess.ID); ok {
		t.Error("session still registered after logout")
	}
	if !sess.Closed() {
		t.Error("session not closed")
	}

	if err := svc.Logout(context.Background()); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("Logout() without session error = %v", err)
	}
}
