// Package shared holds contracts common to every domain package.
package shared

import "time"

// DomainEvent is implemented by events raised inside aggregates.
// Events are collected on the aggregate and drained by the application
// layer after a successful save.
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}
