package model

// Guest is one entry of a cart's guest list. No is the 1-based position.
// ID identifies the entry; UserID is set when it was picked from the users.
type Guest struct {
	ID     string `json:"id"`
	No     int    `json:"no"`
	Name   string `json:"name"`
	UserID string `json:"user_id,omitempty"`
}

// User is an account that can be picked as a guest.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func (u User) CandidateID() string        { return u.ID }
func (u User) CandidateName() string      { return u.Name }
func (u User) CandidateSecondary() string { return u.Email }

type AddGuestRequest struct {
	UserID string `json:"user_id" validate:"max=64"`
	Name   string `json:"name" validate:"max=100"`
}

type RenameGuestRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}
