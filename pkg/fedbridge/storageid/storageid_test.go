package storageid

import (
	"testing"
)

func TestParse(t *testing.T) {
	provider, external, ok := Parse("f:fedbridge:42")
	if !ok {
		t.Fatal("Expected qualified ID to parse")
	}
	if provider != "fedbridge" {
		t.Errorf("Expected provider fedbridge, got %q", provider)
	}
	if external != "42" {
		t.Errorf("Expected external 42, got %q", external)
	}
}

func TestParseExternalWithColons(t *testing.T) {
	// Only the first separator after the provider splits; the rest belongs
	// to the external part.
	_, external, ok := Parse("f:fedbridge:a:b:c")
	if !ok {
		t.Fatal("Expected qualified ID to parse")
	}
	if external != "a:b:c" {
		t.Errorf("Expected external a:b:c, got %q", external)
	}
}

func TestParseUnqualified(t *testing.T) {
	for _, id := range []string{"", "42", "550e8400-e29b-41d4-a716-446655440000", "f:noseparator"} {
		if _, _, ok := Parse(id); ok {
			t.Errorf("Expected %q not to parse as qualified", id)
		}
	}
}

func TestExternalID(t *testing.T) {
	c := Codec{ProviderID: "fedbridge"}

	if got := c.ExternalID("f:fedbridge:17"); got != "17" {
		t.Errorf("Expected external 17, got %q", got)
	}

	// Another provider's qualified ID is foreign, not ours.
	if got := c.ExternalID("f:other:17"); got != "" {
		t.Errorf("Expected empty external for foreign provider, got %q", got)
	}

	// An unqualified consumer ID falls through to a stored-ID lookup.
	if got := c.ExternalID("550e8400-e29b-41d4-a716-446655440000"); got != "" {
		t.Errorf("Expected empty external for unqualified ID, got %q", got)
	}
}

func TestQualifiedID(t *testing.T) {
	c := Codec{ProviderID: "fedbridge"}

	id := c.QualifiedID(42)
	if id != "f:fedbridge:42" {
		t.Errorf("Expected f:fedbridge:42, got %q", id)
	}

	if got := c.ExternalID(id); got != "42" {
		t.Errorf("Expected qualified ID to round-trip, got %q", got)
	}
}
