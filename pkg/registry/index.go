package registry

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/errors"
)

// lines splits an index document into its non-blank lines.
func lines(content string) []string {
	raw := strings.Split(content, "\n")
	out := raw[:0]
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func parseLine(name string, n int, line string) (crate.IndexEntry, error) {
	var e crate.IndexEntry
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		return e, errors.Wrap(errors.ErrCodeMalformedIndex, err, "%s: line %d", name, n+1)
	}
	if e.Version == "" {
		return e, errors.New(errors.ErrCodeMalformedIndex, "%s: line %d has no vers", name, n+1)
	}
	e.Raw = json.RawMessage(line)
	return e, nil
}

// ParseIndex decodes every line of an index document.
func ParseIndex(doc *crate.IndexDocument) ([]crate.IndexEntry, error) {
	ls := lines(doc.Content)
	entries := make([]crate.IndexEntry, 0, len(ls))
	for i, l := range ls {
		e, err := parseLine(doc.Name, i, l)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// VersionTail returns the versions on the last max lines of doc, in document
// order. Lines before the tail are not decoded. A max below 1 yields nothing.
func VersionTail(doc *crate.IndexDocument, max int) ([]string, error) {
	if max < 1 {
		return nil, nil
	}
	ls := lines(doc.Content)
	start := 0
	if len(ls) > max {
		start = len(ls) - max
	}

	versions := make([]string, 0, len(ls)-start)
	for i := start; i < len(ls); i++ {
		e, err := parseLine(doc.Name, i, ls[i])
		if err != nil {
			return nil, err
		}
		versions = append(versions, e.Version)
	}
	return versions, nil
}
