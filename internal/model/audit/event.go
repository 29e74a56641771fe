package audit

import "time"

// CostEvent is the payload published to kafka after every successfully
// recorded cost. RecordedAt is when the service accepted the cost;
// CreatedAt is the cost's own timestamp, which callers may backdate.
type CostEvent struct {
	UserID      string    `json:"userid"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Sum         float64   `json:"sum"`
	CreatedAt   time.Time `json:"created_at"`
	RecordedAt  time.Time `json:"recorded_at"`
}
