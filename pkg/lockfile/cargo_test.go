package lockfile

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/errors"
)

const registrySource = `"registry+https://github.com/rust-lang/crates.io-index"`

const sampleLock = `# This file is automatically @generated by Cargo.
version = 3

[[package]]
name = "anyhow"
version = "1.0.75"
source = ` + registrySource + `

[[package]]
name = "myapp"
version = "0.1.0"
dependencies = [
 "anyhow",
 "serde 1.0.193",
 "local-helper",
]

[[package]]
name = "local-helper"
version = "0.1.0"

[[package]]
name = "forked"
version = "0.3.0"
source = "git+https://github.com/example/forked?rev=abc#abc"
dependencies = [
 "libc 0.2.150",
]

[[package]]
name = "serde"
version = "1.0.193"
source = ` + registrySource + `
dependencies = [
 "serde_derive",
 "itoa 1.0.9 (registry+https://github.com/rust-lang/crates.io-index)",
]

[[package]]
name = "serde_derive"
version = "1.0.193"
source = ` + registrySource + `
`

func TestDecode(t *testing.T) {
	res, err := Decode([]byte(sampleLock))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := []crate.Package{
		{Name: "anyhow", Version: "1.0.75"},
		{Name: "itoa", Version: "1.0.9"},
		{Name: "serde", Version: "1.0.193"},
		{Name: "serde_derive", Version: "1.0.193"},
	}
	if got := res.Packages.Sorted(); !slices.Equal(got, want) {
		t.Errorf("packages = %v, want %v", got, want)
	}
	if res.Records != 6 {
		t.Errorf("Records = %d, want 6", res.Records)
	}
	if res.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", res.Skipped)
	}
}

func TestDecodeSkipsSourcelessAndGit(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"no source", ""},
		{"empty source", `source = ""`},
		{"git source", `source = "git+https://example.com/repo#deadbeef"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "[[package]]\nname = \"foo\"\nversion = \"1.0.0\"\n" + tt.source + "\n"
			res, err := Decode([]byte(doc))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if res.Packages.Len() != 0 {
				t.Errorf("expected no packages, got %v", res.Packages.Sorted())
			}
		})
	}
}

func TestDecodeSkippedRecordStillReferenced(t *testing.T) {
	doc := `
[[package]]
name = "ws"
version = "0.1.0"

[[package]]
name = "consumer"
version = "2.0.0"
source = ` + registrySource + `
dependencies = ["ws 0.1.0"]
`
	res, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !res.Packages.Has(crate.Package{Name: "ws", Version: "0.1.0"}) {
		t.Error("dependency on a skipped record should still be collected")
	}
}

func TestDecodeDependencySpecs(t *testing.T) {
	tests := []struct {
		name string
		dep  string
		want []crate.Package
	}{
		{"single token", "foo", nil},
		{"name and version", "foo 1.2.3", []crate.Package{{Name: "foo", Version: "1.2.3"}}},
		{"with source suffix", "foo 1.2.3 (registry+https://x)", []crate.Package{{Name: "foo", Version: "1.2.3"}}},
		{"trailing space", "foo ", nil},
		{"tab is not a separator", "b\t2.0.0", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `
[[package]]
name = "root"
version = "1.0.0"
source = ` + registrySource + `
dependencies = ["` + tt.dep + `"]
`
			res, err := Decode([]byte(doc))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			pkgs := res.Packages.Clone()
			delete(pkgs, crate.Package{Name: "root", Version: "1.0.0"})
			if got := pkgs.Sorted(); !slices.Equal(got, tt.want) {
				t.Errorf("dependency %q contributed %v, want %v", tt.dep, got, tt.want)
			}
		})
	}
}

func TestDecodeDeduplicates(t *testing.T) {
	doc := `
[[package]]
name = "a"
version = "1.0.0"
source = ` + registrySource + `
dependencies = ["c 3.0.0"]

[[package]]
name = "b"
version = "2.0.0"
source = ` + registrySource + `
dependencies = ["c 3.0.0", "a 1.0.0"]

[[package]]
name = "c"
version = "3.0.0"
source = ` + registrySource + `
`
	res, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if res.Packages.Len() != 3 {
		t.Errorf("Len() = %d, want 3: %v", res.Packages.Len(), res.Packages.Sorted())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{
			name: "invalid toml",
			doc:  "[[package]\nname = ",
			code: errors.ErrCodeMalformedDocument,
		},
		{
			name: "no packages",
			doc:  "version = 3\n",
			code: errors.ErrCodeMalformedDocument,
		},
		{
			name: "package not an array",
			doc:  "package = \"serde\"\n",
			code: errors.ErrCodeMalformedDocument,
		},
		{
			name: "package array of strings",
			doc:  "package = [\"serde\"]\n",
			code: errors.ErrCodeMalformedDocument,
		},
		{
			name: "missing name",
			doc:  "[[package]]\nversion = \"1.0.0\"\nsource = " + registrySource + "\n",
			code: errors.ErrCodeMissingField,
		},
		{
			name: "missing version",
			doc:  "[[package]]\nname = \"foo\"\nsource = " + registrySource + "\n",
			code: errors.ErrCodeMissingField,
		},
		{
			name: "blank dependency",
			doc:  "[[package]]\nname = \"foo\"\nversion = \"1\"\nsource = " + registrySource + "\ndependencies = [\"\"]\n",
			code: errors.ErrCodeMalformedDepSpec,
		},
		{
			name: "leading whitespace dependency",
			doc:  "[[package]]\nname = \"foo\"\nversion = \"1\"\nsource = " + registrySource + "\ndependencies = [\" bar 1.0\"]\n",
			code: errors.ErrCodeMalformedDepSpec,
		},
		{
			name: "non-string dependency",
			doc:  "[[package]]\nname = \"foo\"\nversion = \"1\"\nsource = " + registrySource + "\ndependencies = [1]\n",
			code: errors.ErrCodeMalformedDepSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestDecodeSkippedRecordNeedsNoFields(t *testing.T) {
	// Workspace members are skipped before name/version are checked.
	res, err := Decode([]byte("[[package]]\nname = \"ws\"\n"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if res.Packages.Len() != 0 {
		t.Errorf("Len() = %d, want 0", res.Packages.Len())
	}
}

func TestCargoLock_Parse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.lock")
	if err := os.WriteFile(path, []byte(sampleLock), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := CargoLock{}.Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Packages.Len() != 4 {
		t.Errorf("Len() = %d, want 4", res.Packages.Len())
	}

	if _, err := (CargoLock{}).Parse(filepath.Join(dir, "missing.lock")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing file error = %v, want INVALID_INPUT", err)
	}
}

func TestRead(t *testing.T) {
	res, err := Read(strings.NewReader(sampleLock))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if res.Packages.Len() != 4 {
		t.Errorf("Len() = %d, want 4", res.Packages.Len())
	}
}

func TestCargoLock_Supports(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"Cargo.lock", true},
		{"cargo.lock", true},
		{"Cargo.toml", false},
		{"poetry.lock", false},
	}
	for _, tt := range tests {
		if got := (CargoLock{}).Supports(tt.filename); got != tt.want {
			t.Errorf("Supports(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}
