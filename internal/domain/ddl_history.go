package domain

import "time"

// DDLStatus is the outcome recorded for a generated statement.
type DDLStatus string

const (
	// DDLStatusPlanned marks a statement recorded without being executed.
	DDLStatusPlanned DDLStatus = "planned"
	// DDLStatusApplied marks a statement the executor accepted.
	DDLStatusApplied DDLStatus = "applied"
	// DDLStatusFailed marks a statement the executor rejected.
	DDLStatusFailed DDLStatus = "failed"
)

// DDLRecord is one generated CREATE TABLE statement in the history store.
type DDLRecord struct {
	ID        string
	PlanID    string
	Category  string
	Feed      string
	Role      string
	TableName string
	Statement string
	Status    DDLStatus
	Error     *string
	CreatedAt time.Time
}

// DDLFilter narrows a history listing. Empty fields match everything.
type DDLFilter struct {
	Category string
	Feed     string
	Role     string
	Limit    int
}

// EffectiveLimit returns the listing limit, defaulting to 100.
func (f DDLFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}
