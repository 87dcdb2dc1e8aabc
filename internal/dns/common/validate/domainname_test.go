package validate

import (
	"strings"
	"testing"
)

func TestDomainName_Valid(t *testing.T) {
	valid := []string{
		"example.com",
		"EXAMPLE.com.",
		"www.example.com",
		"a.b.c.d.e.f.example.com",
		"xn--exmple-cua.com",
		"localhost",
		strings.Repeat("a", 63) + ".com",
	}
	for _, name := range valid {
		if err := DomainName(name); err != nil {
			t.Errorf("DomainName(%q) returned unexpected error: %v", name, err)
		}
	}
}

func TestDomainName_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"root domain", "."},
		{"whitespace only", "   "},
		{"label too long", strings.Repeat("a", 64) + ".com"},
		{"empty label", "foo..com"},
		{"leading hyphen", "-foo.com"},
		{"trailing hyphen", "foo-.com"},
		{"invalid character", "foo_bar.com"},
		{"total textual length too long", strings.Repeat("a.", 127) + "com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := DomainName(tc.input); err == nil {
				t.Errorf("DomainName(%q) expected an error, got none", tc.input)
			}
		})
	}
}

func TestDomainName_BoundaryLengths(t *testing.T) {
	label63 := strings.Repeat("a", 63)
	if err := DomainName(label63 + ".com"); err != nil {
		t.Errorf("label of exactly 63 bytes should be accepted: %v", err)
	}
	label64 := strings.Repeat("a", 64)
	if err := DomainName(label64 + ".com"); err == nil {
		t.Errorf("label of 64 bytes should be rejected")
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("  WWW.Example.COM.  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "www.example.com" {
		t.Errorf("Normalize = %q, want %q", got, "www.example.com")
	}

	if _, err := Normalize(""); err == nil {
		t.Errorf("expected error normalising an empty name")
	}
}
