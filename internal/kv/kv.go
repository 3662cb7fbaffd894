// Package kv is the device-local persistent store: one complete serialized
// blob per logical key. Every mutation of a collection rewrites the whole
// blob; there is no partial or streaming update.
package kv

type Store interface {
	// Get returns the blob under key, or ok=false when the key is absent.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	// Remove is a no-op for absent keys.
	Remove(key string) error
}
