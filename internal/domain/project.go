package domain

import "time"

// Project is a stored workspace: one budget tree plus its price database,
// saved under a name in the local database.
type Project struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
