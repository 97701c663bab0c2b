package models

import "fmt"

// LoginInput is the request payload for POST /login.
type LoginInput struct {
	Email    string `json:"user_email"`
	Password string `json:"password"`
}

// Validate checks the login form the same way the UI does, so obviously bad
// input fails before a network round trip.
func (in LoginInput) Validate() error {
	if in.Email == "" {
		return fmt.Errorf("email is required")
	}
	if in.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// RegisterInput is the request payload for POST /register.
type RegisterInput struct {
	Nickname             string `json:"user_nickname"`
	Email                string `json:"user_email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Plan                 Plan   `json:"plan"`
}

// Validate applies the registration form rules: matching confirmation, a
// minimum password length of 8, and a selected plan.
func (in RegisterInput) Validate() error {
	if in.Nickname == "" {
		return fmt.Errorf("nickname is required")
	}
	if in.Email == "" {
		return fmt.Errorf("email is required")
	}
	if len(in.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if in.PasswordConfirmation != "" && in.Password != in.PasswordConfirmation {
		return fmt.Errorf("passwords do not match")
	}
	if in.Plan == PlanNone {
		return fmt.Errorf("a subscription plan is required")
	}
	return nil
}

// Credential is the data payload returned by the login and register
// endpoints: an opaque bearer token plus the authenticated profile.
type Credential struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
