// Package compatdb implements the compatibility database: a static,
// case-insensitive lookup from a mod's unique_id to curated guidance
// about its compatibility status, display name, and canonical page URL.
//
// Construction is a file-backed JSON document; the pipeline itself only
// ever sees the read-only DB interface, mirroring how the database is
// described as "outside the core" — a boundary, not an algorithm.
package compatdb

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jordanvance/modseq/internal/caseid"
	"github.com/jordanvance/modseq/internal/semver"
)

// Status mirrors the compatibility classification a record can carry.
type Status string

const (
	StatusOK           Status = "Ok"
	StatusObsolete     Status = "Obsolete"
	StatusAssumeBroken Status = "AssumeBroken"
)

// Record is one entry in the compatibility database.
type Record struct {
	Status             Status          `json:"status"`
	ReasonPhrase       string          `json:"reason_phrase,omitempty"`
	StatusUpperVersion *semver.Version `json:"status_upper_version,omitempty"`
	AlternativeURL     string          `json:"alternative_url,omitempty"`
	DisplayName        string          `json:"display_name,omitempty"`
	UpdateKey          string          `json:"update_key,omitempty"`
}

// DB is the read-only interface the pipeline depends on. It is satisfied
// by *Static, and by any test double a caller wants to substitute.
type DB interface {
	// Lookup returns the record for id, if one is known.
	Lookup(id caseid.ID) (Record, bool)
	// DisplayName returns a known display name for id, if any.
	DisplayName(id caseid.ID) (string, bool)
	// PageURL returns a known canonical mod-page URL for id, if any.
	PageURL(id caseid.ID) (string, bool)
}

// Static is a DB backed by an in-memory table, typically loaded once at
// startup from a JSON document.
type Static struct {
	records map[string]Record
}

// Empty returns a Static database with no records. Useful as a default
// when no compatibility-database document is configured.
func Empty() *Static {
	return &Static{records: map[string]Record{}}
}

// Load reads a compatibility database document from path. The document
// is a JSON object mapping unique_id to a Record; keys are matched
// case-insensitively at lookup time regardless of the casing on disk.
func Load(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compatdb: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a compatibility database document from raw JSON bytes.
func Parse(data []byte) (*Static, error) {
	var raw map[string]Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("compatdb: parse: %w", err)
	}
	records := make(map[string]Record, len(raw))
	for id, rec := range raw {
		rec.Status = ParseStatus(string(rec.Status))
		records[caseid.New(id).Key()] = rec
	}
	return &Static{records: records}, nil
}

func (s *Static) Lookup(id caseid.ID) (Record, bool) {
	rec, ok := s.records[id.Key()]
	return rec, ok
}

func (s *Static) DisplayName(id caseid.ID) (string, bool) {
	rec, ok := s.records[id.Key()]
	if !ok || rec.DisplayName == "" {
		return "", false
	}
	return rec.DisplayName, true
}

func (s *Static) PageURL(id caseid.ID) (string, bool) {
	rec, ok := s.records[id.Key()]
	if !ok || rec.AlternativeURL == "" {
		return "", false
	}
	return rec.AlternativeURL, true
}

// ParseStatus converts the loose casing a hand-edited JSON document might
// use into a Status, defaulting to StatusOK for anything unrecognized.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "obsolete":
		return StatusObsolete
	case "assumebroken", "assume_broken":
		return StatusAssumeBroken
	default:
		return StatusOK
	}
}
