package model

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// AuthTokens is the data payload of POST /login and GET /refresh-token.
type AuthTokens struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

type RegisterRequest struct {
	FirstName       string `json:"first_name" validate:"required,min=1,max=64"`
	LastName        string `json:"last_name" validate:"max=64"`
	AgentCompany    string `json:"agent_company" validate:"required,max=128"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phone_number" validate:"required,phone"`
	Username        string `json:"username" validate:"required,min=3,max=64,alphanum"`
	KakaoTalkID     string `json:"kakao_talk_id" validate:"max=64"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type SessionView struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	ExpiresAt int64  `json:"expires_at"`
}
