package model

import "time"

// Category groups transactions for budgeting. Names are unique with
// case-insensitive lookup; categories are created explicitly or lazily
// during import.
type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
