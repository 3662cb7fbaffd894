package kv_test

import (
	"bytes"
	"testing"

	"minimarket/internal/kv"
)

func TestSQLiteRoundTrip(t *testing.T) {
	s, err := kv.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("absent key: ok=%v err=%v", ok, err)
	}

	if err := s.Set("products", []byte(`[{"id":"p1"}]`)); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Get("products")
	if err != nil || !ok {
		t.Fatalf("get after set: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, []byte(`[{"id":"p1"}]`)) {
		t.Fatalf("value changed in round trip: %s", got)
	}

	// Set overwrites the whole snapshot
	if err := s.Set("products", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	got, _, _ = s.Get("products")
	if string(got) != `[]` {
		t.Fatalf("overwrite failed: %s", got)
	}

	if err := s.Remove("products"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("products"); ok {
		t.Fatal("key survived Remove")
	}
	// removing again is a no-op
	if err := s.Remove("products"); err != nil {
		t.Fatal(err)
	}
}
