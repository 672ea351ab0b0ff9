package crate

import (
	"slices"
	"testing"

	"github.com/matzehuels/cratesync/pkg/errors"
)

func TestPackageEquality(t *testing.T) {
	a := Package{Name: "serde", Version: "1.0.0"}
	b := Package{Name: "serde", Version: "1.0.0"}
	c := Package{Name: "serde", Version: "1.0.1"}

	if a != b {
		t.Error("packages with equal fields should be equal")
	}
	if a == c {
		t.Error("packages with different versions should differ")
	}
}

func TestSetDeduplicates(t *testing.T) {
	s := NewSet(
		Package{Name: "libc", Version: "0.2.150"},
		Package{Name: "libc", Version: "0.2.150"},
		Package{Name: "libc", Version: "0.2.151"},
	)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if !s.Has(Package{Name: "libc", Version: "0.2.151"}) {
		t.Error("Has() = false for inserted package")
	}
	if s.Has(Package{Name: "libc", Version: "0.2.152"}) {
		t.Error("Has() = true for missing package")
	}
}

func TestSetSorted(t *testing.T) {
	s := NewSet(
		Package{Name: "serde", Version: "1.9.0"},
		Package{Name: "anyhow", Version: "1.0.75"},
		Package{Name: "serde", Version: "1.10.0"},
		Package{Name: "Zzz", Version: "0.1.0"},
	)

	got := s.Sorted()
	want := []Package{
		{Name: "Zzz", Version: "0.1.0"},
		{Name: "anyhow", Version: "1.0.75"},
		// byte-wise, not semver: "1.10.0" < "1.9.0"
		{Name: "serde", Version: "1.10.0"},
		{Name: "serde", Version: "1.9.0"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}

func TestSetUnionAndClone(t *testing.T) {
	a := NewSet(Package{Name: "a", Version: "1"})
	b := NewSet(Package{Name: "b", Version: "1"}, Package{Name: "a", Version: "1"})

	c := a.Clone()
	c.Union(b)

	if c.Len() != 2 {
		t.Errorf("union Len() = %d, want 2", c.Len())
	}
	if a.Len() != 1 {
		t.Errorf("Clone() should not alias the original, Len() = %d", a.Len())
	}
	if got := c.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestNilSetClone(t *testing.T) {
	var s Set
	c := s.Clone()
	c.Add(Package{Name: "x", Version: "1"})
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestPackageValidate(t *testing.T) {
	tests := []struct {
		name string
		pkg  Package
		code errors.Code
	}{
		{"valid", Package{Name: "serde", Version: "1.0.0"}, ""},
		{"empty name", Package{Version: "1.0.0"}, errors.ErrCodeInvalidPackage},
		{"empty version", Package{Name: "serde"}, errors.ErrCodeInvalidVersion},
		{"traversal", Package{Name: "../x", Version: "1"}, errors.ErrCodeInvalidPackage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pkg.Validate()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestPackageString(t *testing.T) {
	if got := (Package{Name: "foo", Version: "1.0.0"}).String(); got != "foo 1.0.0" {
		t.Errorf("String() = %q", got)
	}
}
