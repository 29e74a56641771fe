package cost

import "time"

// Cost is a single recorded expense entry belonging to a user.
// It is immutable once persisted.
type Cost struct {
	ID          int64     `json:"id,omitempty"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	UserID      string    `json:"userid"`
	Sum         float64   `json:"sum"`
	CreatedAt   time.Time `json:"created_at"`
}
