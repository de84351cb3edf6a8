package store

import (
	"context"
	"testing"
)

func TestMemoryStoreScalars(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, ok, _ := s.Get(ctx, "missing"); ok {
		t.Error("get on missing key: ok = true, want false")
	}

	if err := s.Set(ctx, "k", "hello"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != "hello" {
		t.Errorf("get = %q, %v; want %q, true", v, ok, "hello")
	}
}

func TestMemoryStoreSetNX(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	set, err := s.SetNX(ctx, "k", "0")
	if err != nil {
		t.Fatal(err)
	}
	if !set {
		t.Error("first setnx: set = false, want true")
	}

	set, err = s.SetNX(ctx, "k", "other")
	if err != nil {
		t.Fatal(err)
	}
	if set {
		t.Error("second setnx: set = true, want false")
	}

	v, _, _ := s.Get(ctx, "k")
	if v != "0" {
		t.Errorf("value after setnx = %q, want %q", v, "0")
	}
}

func TestMemoryStoreIncr(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		got, err := s.Incr(ctx, "counter")
		if err != nil {
			t.Fatal(err)
		}
		if got != i {
			t.Errorf("incr %d: got %d, want %d", i, got, i)
		}
	}

	s.Set(ctx, "bad", "not-a-number")
	if _, err := s.Incr(ctx, "bad"); err == nil {
		t.Error("incr on non-integer value: expected error, got nil")
	}
}

func TestMemoryStoreListOps(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, ok, _ := s.PopFront(ctx, "l"); ok {
		t.Error("pop on empty list: ok = true, want false")
	}
	if n, _ := s.Len(ctx, "l"); n != 0 {
		t.Errorf("len of empty list = %d, want 0", n)
	}

	s.Append(ctx, "l", "a")
	s.Append(ctx, "l", "b")
	s.Append(ctx, "l", "c")

	if last, ok, _ := s.Last(ctx, "l"); !ok || last != "c" {
		t.Errorf("last = %q, %v; want %q, true", last, ok, "c")
	}
	if n, _ := s.Len(ctx, "l"); n != 3 {
		t.Errorf("len = %d, want 3", n)
	}

	head, ok, err := s.PopFront(ctx, "l")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || head != "a" {
		t.Errorf("pop = %q, %v; want %q, true", head, ok, "a")
	}

	// Restore the head and make sure order is preserved.
	if err := s.PushFront(ctx, "l", head); err != nil {
		t.Fatal(err)
	}
	head, _, _ = s.PopFront(ctx, "l")
	if head != "a" {
		t.Errorf("pop after push front = %q, want %q", head, "a")
	}
	head, _, _ = s.PopFront(ctx, "l")
	if head != "b" {
		t.Errorf("second pop = %q, want %q", head, "b")
	}
}

func TestMemoryStoreExistsAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "scalar", "1")
	s.Append(ctx, "list", "x")

	for _, key := range []string{"scalar", "list"} {
		ok, err := s.Exists(ctx, key)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Errorf("exists(%q) = false, want true", key)
		}
	}

	if err := s.Delete(ctx, "scalar", "list", "missing"); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"scalar", "list"} {
		if ok, _ := s.Exists(ctx, key); ok {
			t.Errorf("exists(%q) after delete = true, want false", key)
		}
	}
}
