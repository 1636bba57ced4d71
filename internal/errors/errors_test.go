package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestForEntry_Attribution(t *testing.T) {
	base := fmt.Errorf("%w: %w: reading key", ErrKeySource, ErrKeyFileNotFound)
	err := ForEntry(KindVariable, "DB_PASSWORD", base)

	if !errors.Is(err, ErrKeySource) {
		t.Errorf("Expected error to match ErrKeySource, got: %v", err)
	}
	if !errors.Is(err, ErrKeyFileNotFound) {
		t.Errorf("Expected error to match ErrKeyFileNotFound, got: %v", err)
	}

	var entryErr *EntryError
	if !errors.As(err, &entryErr) {
		t.Fatalf("Expected an EntryError, got: %T", err)
	}
	if entryErr.Name != "DB_PASSWORD" || entryErr.Kind != KindVariable {
		t.Errorf("Unexpected attribution: %+v", entryErr)
	}
	if !strings.HasPrefix(err.Error(), `variable "DB_PASSWORD": `) {
		t.Errorf("Expected message to name the variable, got: %s", err.Error())
	}
}

func TestForEntry_NilStaysNil(t *testing.T) {
	if err := ForEntry(KindFile, "/tmp/x", nil); err != nil {
		t.Errorf("Expected nil, got: %v", err)
	}
}

func TestJoinEntries_StableOrder(t *testing.T) {
	errs := []error{
		ForEntry(KindVariable, "ZETA", ErrConfiguration),
		ForEntry(KindFile, "/b", ErrAlreadyExists),
		ForEntry(KindVariable, "ALPHA", ErrEncoding),
		ForEntry(KindFile, "/a", ErrAlreadyExists),
	}

	joined := JoinEntries(errs)
	entries := Entries(joined)
	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries, got: %d", len(entries))
	}

	want := []string{"/a", "/b", "ALPHA", "ZETA"}
	for i, e := range entries {
		var entryErr *EntryError
		if !errors.As(e, &entryErr) {
			t.Fatalf("Entry %d is not an EntryError: %v", i, e)
		}
		if entryErr.Name != want[i] {
			t.Errorf("Entry %d: expected %s, got: %s", i, want[i], entryErr.Name)
		}
	}

	if !errors.Is(joined, ErrEncoding) {
		t.Errorf("Expected joined error to match ErrEncoding")
	}
}

func TestJoinEntries_Empty(t *testing.T) {
	if err := JoinEntries(nil); err != nil {
		t.Errorf("Expected nil, got: %v", err)
	}
}
