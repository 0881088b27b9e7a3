package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "minilang" {
		t.Errorf("Expected Name to be %q, got %q", "minilang", Name)
	}

	if Description == "" {
		t.Error("Expected a non-empty Description")
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}

	if strings.Count(Version(), ".") != 2 {
		t.Errorf("Version %q is not a semantic version", Version())
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew, got %v", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/minilang", "minilang"},
		{"ml.exe", "ml"},
		{"/tmp/__debug_bin3141", Name},
		{"/home/me/.hidden", "hidden"},
		{"...", Name},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := prefixOf(tt.path); got != tt.want {
				t.Errorf("prefixOf(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	if got := ConfigPath("config.yaml"); filepath.Dir(got) != ConfigDir() {
		t.Errorf("ConfigPath not under ConfigDir: %s", got)
	}

	if got := CachePath("history"); filepath.Dir(got) != CacheDir() {
		t.Errorf("CachePath not under CacheDir: %s", got)
	}

	if filepath.Base(ConfigDir()) != Prefix() {
		t.Errorf("ConfigDir %s does not end with %s", ConfigDir(), Prefix())
	}
}
