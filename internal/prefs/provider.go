// Package prefs defines the key-value persistence contract used by the budgeting core and its
// in-memory and YAML-file implementations.
package prefs

// Provider is a small preference store.
//
// Reads never fail: a missing or unreadable value yields the supplied default. Writes are staged
// and become durable when Commit returns nil.
type Provider interface {
	GetString(key, def string) string
	SetString(key, value string) error
	GetFloat(key string, def float64) float64
	SetFloat(key string, value float64) error
	GetInt(key string, def int) int
	SetInt(key string, value int) error
	Commit() error
}
