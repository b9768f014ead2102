package models

import "time"

// Mentee represents a student account. Lessons are paid for in credits held
// on the mentee's balance.
type Mentee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timezone  string    `json:"timezone"` // IANA name, may be empty
	Country   string    `json:"country"`  // ISO code fallback for timezone
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Secure fields (cleared before serving unless explicitly requested)
	AuthToken string `json:"authToken,omitempty"`
}
