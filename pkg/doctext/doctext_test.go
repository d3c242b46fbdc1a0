package doctext

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSupported(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"resume.pdf", true},
		{"Resume.PDF", true},
		{"notes.txt", true},
		{"readme.md", true},
		{"photo.png", false},
		{"noext", false},
	}
	for _, c := range cases {
		if got := Supported(c.path); got != c.want {
			t.Errorf("Supported(%s) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	content := "John Doe  \r\n\r\n\r\njohn@example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "John Doe\n\njohn@example.com"
	if got != want {
		t.Errorf("Load = %q, want %q", got, want)
	}
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("photo.png")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trailing space", "a  \nb\t\n", "a\nb"},
		{"blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"crlf", "a\r\nb", "a\nb"},
		{"empty", "   \n\n", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Normalize(c.in); got != c.want {
				t.Errorf("Normalize = %q, want %q", got, c.want)
			}
		})
	}
}
