package models

// Session represents an authenticated user session extracted from a JWT
type Session struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"` // "mentor", "mentee" or "admin"
	IssuedAt  int64  `json:"issuedAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

// IsMentor reports whether the session belongs to a mentor account.
func (s *Session) IsMentor() bool {
	return s.Role == "mentor"
}
