package service

import (
	"context"
	"errors"
	"net/http"

	autherrors "hotelbox/internal/auth/errors"
	"hotelbox/pkg/client"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/sanitizer"
	"hotelbox/pkg/session"
	"hotelbox/pkg/validation"
)

const (
	MsgLoggedIn   = "Login successful"
	MsgRefreshed  = "Session refreshed"
	MsgRegistered = "Registration successful"
	MsgLoggedOut  = "Logged out"
)

type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (*client.AuthResult, error)
	Refresh(ctx context.Context, cookies []*http.Cookie) (*client.AuthResult, error)
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
}

// Sessions is satisfied by *session.Manager.
type Sessions interface {
	Create(accessToken string) (*session.Session, error)
	Renew(id, accessToken string) (*session.Session, error)
	Destroy(id string) bool
}

type Result struct {
	Session *session.Session
	Message string
	// Cookies are the backend's Set-Cookie values, passed through to the browser.
	Cookies []*http.Cookie
}

func (r *Result) View() model.SessionView {
	return model.SessionView{
		SessionID: r.Session.ID,
		UserID:    r.Session.UserID,
		Username:  r.Session.Username,
		ExpiresAt: r.Session.ExpiresAt().Unix(),
	}
}

type AuthService interface {
	Login(ctx context.Context, req model.LoginRequest) (*Result, error)
	Refresh(ctx context.Context, sessionID string, cookies []*http.Cookie) (*Result, error)
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
	Logout(ctx context.Context) error
}

type authService struct {
	api       AuthAPI
	sessions  Sessions
	validator *validation.Validator
	log       *logger.Logger
}

func NewAuthService(api AuthAPI, sessions Sessions, v *validation.Validator, log *logger.Logger) AuthService {
	return &authService{
		api:       api,
		sessions:  sessions,
		validator: v,
		log:       log,
	}
}

func (s *authService) Login(ctx context.Context, req model.LoginRequest) (*Result, error) {
	req.Username = sanitizer.TrimAndNormalize(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	res, err := s.api.Login(ctx, req)
	if err != nil {
		s.log.Info("Login rejected", "username", req.Username, "error", err)
		return nil, err
	}

	sess, err := s.sessions.Create(res.Tokens.AccessToken)
	if err != nil {
		return nil, tokenError(err)
	}
	return &Result{Session: sess, Message: messageOr(res.Message, MsgLoggedIn), Cookies: res.Cookies}, nil
}

// Refresh trades the refresh cookie for a new access token. A known session
// is renewed in place; otherwise a fresh one is started.
func (s *authService) Refresh(ctx context.Context, sessionID string, cookies []*http.Cookie) (*Result, error) {
	var refresh *http.Cookie
	for _, c := range cookies {
		if c.Name == client.RefreshTokenCookie && c.Value != "" {
			refresh = c
			break
		}
	}
	if refresh == nil {
		return nil, apperrors.Wrap(autherrors.ErrRefreshCookieMissing, apperrors.CodeUnauthorized, "Refresh token missing", http.StatusUnauthorized)
	}

	res, err := s.api.Refresh(ctx, []*http.Cookie{refresh})
	if err != nil {
		return nil, err
	}

	var sess *session.Session
	if sessionID != "" {
		sess, err = s.sessions.Renew(sessionID, res.Tokens.AccessToken)
		if errors.Is(err, session.ErrNotFound) {
			sess, err = s.sessions.Create(res.Tokens.AccessToken)
		}
	} else {
		sess, err = s.sessions.Create(res.Tokens.AccessToken)
	}
	if err != nil {
		return nil, tokenError(err)
	}
	return &Result{Session: sess, Message: messageOr(res.Message, MsgRefreshed), Cookies: res.Cookies}, nil
}

func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	req.FirstName = sanitizer.NormalizeName(req.FirstName)
	req.LastName = sanitizer.NormalizeName(req.LastName)
	req.AgentCompany = sanitizer.TrimAndNormalize(req.AgentCompany)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Username = sanitizer.TrimAndNormalize(req.Username)
	req.KakaoTalkID = sanitizer.TrimAndNormalize(req.KakaoTalkID)
	req.PhoneNumber = sanitizer.TrimAndNormalize(req.PhoneNumber)

	if err := s.validator.Struct(req); err != nil {
		return "", err
	}
	req.PhoneNumber = sanitizer.NormalizePhone(req.PhoneNumber, s.validator.Region())

	msg, err := s.api.Register(ctx, req)
	if err != nil {
		return "", err
	}
	s.log.Info("Agent registered", "username", req.Username, "agent_company", req.AgentCompany)
	return messageOr(msg, MsgRegistered), nil
}

func (s *authService) Logout(ctx context.Context) error {
	sess, err := session.Require(ctx)
	if err != nil {
		return err
	}
	s.sessions.Destroy(sess.ID)
	return nil
}

func tokenError(err error) error {
	if errors.Is(err, session.ErrInvalidToken) || errors.Is(err, session.ErrMissingToken) {
		return apperrors.Wrap(autherrors.ErrTokenRejected, apperrors.CodeUnauthorized, "Invalid access token", http.StatusUnauthorized)
	}
	return apperrors.Internal("Failed to start session", err)
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
