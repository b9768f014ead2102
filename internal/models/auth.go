package models

// RequestLoginRequest asks for a one-time login link to be emailed
type RequestLoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=mentor mentee"`
}

// RequestLoginResponse acknowledges a login link request
type RequestLoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// VerifyLoginRequest exchanges a one-time token for a session cookie
type VerifyLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegisterMentorRequest creates a new mentor account
type RegisterMentorRequest struct {
	Name       string   `json:"name" binding:"required,min=2,max=100"`
	Email      string   `json:"email" binding:"required,email"`
	Headline   string   `json:"headline" binding:"omitempty,max=200"`
	About      string   `json:"about" binding:"omitempty,max=5000"`
	Languages  []string `json:"languages" binding:"required,min=1,dive,min=2,max=40"`
	HourlyRate int      `json:"hourlyRate" binding:"required,min=1,max=100000"`
	Timezone   string   `json:"timezone" binding:"omitempty,max=64"`
	Country    string   `json:"country" binding:"omitempty,len=2|len=3"`
}

// RegisterMentorResponse returns the new mentor's identifiers
type RegisterMentorResponse struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// RegisterMenteeRequest creates a new mentee account
type RegisterMenteeRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Timezone string `json:"timezone" binding:"omitempty,max=64"`
	Country  string `json:"country" binding:"omitempty,len=2|len=3"`
}

// RegisterMenteeResponse returns the new mentee's identifier
type RegisterMenteeResponse struct {
	ID string `json:"id"`
}
