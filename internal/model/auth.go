package model

// LoginRequest is the login form. Role is the tab the user submitted from.
type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Role     Role   `form:"userRole"`
}

// RegisterRequest is the registration form. Nothing beyond presence of the
// form itself is checked.
type RegisterRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Role     Role   `form:"userRole"`
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// NewPrincipal derives a principal from a user record.
func NewPrincipal(u *User) *Principal {
	if u == nil {
		return nil
	}
	return &Principal{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}
}
