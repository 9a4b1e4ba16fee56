package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplateIncludesVersion(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = old })

	if got := Template(); !strings.Contains(got, "version v1.2.3") {
		t.Errorf("Template() = %q", got)
	}
	if got := UserAgent(); got != "orgchart/v1.2.3" {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestShortSHA(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"abc123":           "abc123",
		"0123456789abcdef": "0123456789ab",
	}
	for in, want := range tests {
		if got := shortSHA(in); got != want {
			t.Errorf("shortSHA(%q) = %q, want %q", in, got, want)
		}
	}
}
