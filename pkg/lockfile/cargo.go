package lockfile

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/errors"
)

// gitSourcePrefix marks records that are checked out from git.
const gitSourcePrefix = "git+"

// depSpecRE matches a dependency entry: one token, optionally followed by
// whitespace and more content. Only the start is anchored.
var depSpecRE = regexp.MustCompile(`^\S+(\s.+)*`)

// Result holds the crates extracted from a lock file.
type Result struct {
	Packages crate.Set // Registry crates to vendor
	Records  int       // Number of [[package]] records in the document
	Skipped  int       // Records skipped as workspace, path, or git packages
}

// CargoLock parses Cargo.lock files.
type CargoLock struct{}

// Supports reports whether filename is named like a Cargo lock file.
func (CargoLock) Supports(filename string) bool { return strings.EqualFold(filename, "cargo.lock") }

// Parse reads and decodes the lock file at path.
func (c CargoLock) Parse(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Decode(data)
}

// Read decodes a lock file from r.
func Read(r io.Reader) (*Result, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read lock file")
	}
	return Decode(buf.Bytes())
}

// Decode extracts the registry crates pinned by a Cargo.lock document.
//
// It fails with MALFORMED_DOCUMENT when the TOML is invalid or has no
// [[package]] array, MISSING_FIELD when a registry record lacks its name or
// version, and MALFORMED_DEPENDENCY_SPEC when a dependency entry is blank or
// starts with whitespace.
func Decode(data []byte) (*Result, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "invalid TOML")
	}

	records, err := packageRecords(doc)
	if err != nil {
		return nil, err
	}

	res := &Result{Packages: crate.NewSet(), Records: len(records)}
	for i, rec := range records {
		ok, err := collect(res.Packages, i, rec)
		if err != nil {
			return nil, err
		}
		if !ok {
			res.Skipped++
		}
	}
	return res, nil
}

func packageRecords(doc map[string]any) ([]map[string]any, error) {
	raw, ok := doc["package"]
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedDocument, "no [[package]] records")
	}

	switch v := raw.(type) {
	case []map[string]any:
		return v, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		for i, item := range v {
			rec, ok := item.(map[string]any)
			if !ok {
				return nil, errors.New(errors.ErrCodeMalformedDocument, "package record %d is not a table", i)
			}
			out = append(out, rec)
		}
		return out, nil
	default:
		return nil, errors.New(errors.ErrCodeMalformedDocument, "package is %T, want an array of tables", raw)
	}
}

// collect adds the crates contributed by one record to set. It returns false
// if the record is not a registry package.
func collect(set crate.Set, i int, rec map[string]any) (bool, error) {
	source, err := optionalString(rec, "source", i)
	if err != nil {
		return false, err
	}
	if source == "" || strings.HasPrefix(source, gitSourcePrefix) {
		return false, nil
	}

	name, err := requiredString(rec, "name", i)
	if err != nil {
		return false, err
	}
	version, err := requiredString(rec, "version", i)
	if err != nil {
		return false, err
	}
	set.Add(crate.Package{Name: name, Version: version})

	deps, err := dependencies(rec, name)
	if err != nil {
		return false, err
	}
	for _, dep := range deps {
		if !depSpecRE.MatchString(dep) {
			return false, errors.New(errors.ErrCodeMalformedDepSpec, "%s: dependency %q", name, dep)
		}
		parts := strings.Split(dep, " ")
		if len(parts) < 2 || parts[1] == "" {
			continue
		}
		set.Add(crate.Package{Name: parts[0], Version: parts[1]})
	}
	return true, nil
}

func dependencies(rec map[string]any, owner string) ([]string, error) {
	raw, ok := rec["dependencies"]
	if !ok {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedDocument, "%s: dependencies is %T, want an array", owner, raw)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeMalformedDepSpec, "%s: dependency %v is not a string", owner, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func requiredString(rec map[string]any, key string, i int) (string, error) {
	raw, ok := rec[key]
	if !ok {
		return "", errors.New(errors.ErrCodeMissingField, "package record %d has no %s", i, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.New(errors.ErrCodeMalformedDocument, "package record %d: %s is %T, want a string", i, key, raw)
	}
	if s == "" {
		return "", errors.New(errors.ErrCodeMissingField, "package record %d has an empty %s", i, key)
	}
	return s, nil
}

func optionalString(rec map[string]any, key string, i int) (string, error) {
	raw, ok := rec[key]
	if !ok {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.New(errors.ErrCodeMalformedDocument, "package record %d: %s is %T, want a string", i, key, raw)
	}
	return s, nil
}
