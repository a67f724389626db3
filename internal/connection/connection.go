// Package connection owns the lifetime of opened stores. Every other
// component reaches a store by checking out a Handle from the Registry.
package connection

import "time"

// Info describes an open connection.
type Info struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
}
