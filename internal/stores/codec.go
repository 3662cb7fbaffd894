package stores

import (
	"encoding/json"

	"minimarket/internal/domain"
	"minimarket/internal/kv"
)

// loadSlice reads a collection snapshot; an absent key is an empty
// collection, not an error.
func loadSlice[T any](s kv.Store, key string) ([]T, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// saveSlice rewrites the full collection snapshot under key.
func saveSlice[T any](s kv.Store, key string, items []T) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.Set(key, b)
}

// copySlice is the copy-on-read for snapshot accessors. It is never nil:
// an empty collection must serialize as [] at the facade, not null.
func copySlice[T any](src []T) []T {
	out := make([]T, 0, len(src))
	return append(out, src...)
}

// The session user is the one scalar snapshot: a single object, not a slice.
func encodeUser(u *domain.User) ([]byte, error) { return json.Marshal(u) }

func decodeUser(raw []byte) (*domain.User, error) {
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
