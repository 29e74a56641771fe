package user

import "time"

// User is an account that costs are recorded against. TotalCost is the
// denormalized running sum of all costs ever recorded for the user; the
// store keeps it in sync with the costs collection on every write.
type User struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Birthday      *time.Time `json:"birthday,omitempty"`
	MaritalStatus string     `json:"marital_status,omitempty"`
	TotalCost     float64    `json:"total_cost"`
}

// Summary is the public projection of a user.
type Summary struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Total     float64 `json:"total"`
}
