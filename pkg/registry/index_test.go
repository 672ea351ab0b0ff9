package registry

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/errors"
)

func indexDoc(versions ...string) *crate.IndexDocument {
	var b strings.Builder
	for _, v := range versions {
		b.WriteString(`{"name":"foo","vers":"` + v + `","deps":[],"cksum":"00","features":{},"yanked":false}` + "\n")
	}
	return &crate.IndexDocument{Name: "foo", ShardPath: []string{"3", "f"}, Content: b.String()}
}

func TestVersionTail(t *testing.T) {
	doc := indexDoc("0.1.0", "0.2.0", "0.3.0", "1.0.0", "1.1.0")

	tests := []struct {
		name string
		max  int
		want []string
	}{
		{"last two", 2, []string{"1.0.0", "1.1.0"}},
		{"exactly all", 5, []string{"0.1.0", "0.2.0", "0.3.0", "1.0.0", "1.1.0"}},
		{"more than available", 10, []string{"0.1.0", "0.2.0", "0.3.0", "1.0.0", "1.1.0"}},
		{"unbounded", Unbounded, []string{"0.1.0", "0.2.0", "0.3.0", "1.0.0", "1.1.0"}},
		{"zero", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VersionTail(doc, tt.max)
			if err != nil {
				t.Fatalf("VersionTail() error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("VersionTail(%d) = %v, want %v", tt.max, got, tt.want)
			}
		})
	}
}

func TestVersionTailIgnoresHead(t *testing.T) {
	doc := &crate.IndexDocument{
		Name:    "foo",
		Content: "not json\n{\"vers\":\"1.0.0\"}\r\n\n{\"vers\":\"2.0.0\"}",
	}
	got, err := VersionTail(doc, 2)
	if err != nil {
		t.Fatalf("VersionTail() error: %v", err)
	}
	if !slices.Equal(got, []string{"1.0.0", "2.0.0"}) {
		t.Errorf("VersionTail() = %v", got)
	}
}

func TestVersionTailMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{\"vers\":\"1.0.0\"}\n{oops\n"},
		{"missing vers", "{\"name\":\"foo\"}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VersionTail(&crate.IndexDocument{Name: "foo", Content: tt.content}, Unbounded)
			if !errors.Is(err, errors.ErrCodeMalformedIndex) {
				t.Errorf("VersionTail() error = %v, want MALFORMED_INDEX", err)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	doc := indexDoc("0.1.0", "0.2.0")
	entries, err := ParseIndex(doc)
	if err != nil {
		t.Fatalf("ParseIndex() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[1].Version != "0.2.0" {
		t.Errorf("Version = %q, want 0.2.0", entries[1].Version)
	}
	if !strings.Contains(string(entries[0].Raw), `"cksum":"00"`) {
		t.Errorf("Raw should pass other fields through, got %s", entries[0].Raw)
	}
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument("serde", "x")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(doc.ShardPath, []string{"se", "rd"}) {
		t.Errorf("ShardPath = %v", doc.ShardPath)
	}
	if _, err := NewDocument("", "x"); !errors.Is(err, errors.ErrCodeInvalidPackage) {
		t.Errorf("NewDocument(\"\") error = %v, want INVALID_PACKAGE_NAME", err)
	}
}
