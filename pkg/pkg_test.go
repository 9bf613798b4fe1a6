package pkg

import (
	"regexp"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "cadscript" {
		t.Errorf("expected Name to be %q, got %q", "cadscript", Name)
	}
}

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Fatal("expected embedded version to be non-empty")
	}

	if strings.ContainsAny(Version, " \t\r\n") {
		t.Errorf("expected trimmed version, got %q", Version)
	}

	semver := regexp.MustCompile(`^\d+\.\d+\.\d+`)
	if !semver.MatchString(Version) {
		t.Errorf("expected semantic version, got %q", Version)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("expected at least one author")
	}

	for _, a := range Author {
		if a.Name == "" || !strings.Contains(a.Email, "@") {
			t.Errorf("malformed author entry: %+v", a)
		}
	}
}
