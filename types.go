// Package modseq implements the mod-loading pipeline: discovery of
// candidate mod folders, manifest parsing, compatibility-policy
// evaluation, and a cycle-aware topological load-order resolver.
//
// The pipeline is a sequence of pure, synchronous stages strung together
// by Load:
//
//	Discoverer -> Manifest Loader -> Validator -> Dependency Resolver
//
// Each stage operates over a []*ModMetadata and never drops a record: a
// mod that fails at any stage is carried through to the output, marked
// Failed with a human-readable reason, rather than removed from the
// sequence.
package modseq

import (
	"fmt"

	"github.com/jordanvance/modseq/internal/caseid"
	"github.com/jordanvance/modseq/internal/semver"
)

// CompatibilityStatus classifies a mod against the compatibility database.
type CompatibilityStatus int

const (
	// StatusOK means the compatibility database has no objection.
	StatusOK CompatibilityStatus = iota
	// StatusObsolete means the mod is permanently unsupported.
	StatusObsolete
	// StatusAssumeBroken means the mod is assumed incompatible until a
	// known-good version is reached.
	StatusAssumeBroken
)

// ManifestDependency is one entry in a manifest's Dependencies list.
type ManifestDependency struct {
	UniqueID       string
	MinimumVersion *semver.Version
	IsRequired     bool
}

// ContentPackFor declares that a manifest describes a content pack bound
// to a parent mod.
type ContentPackFor struct {
	UniqueID       string
	MinimumVersion *semver.Version
}

// Manifest is the parsed shape of a mod folder's manifest document.
type Manifest struct {
	Name              string
	UniqueID          string
	Version           semver.Version
	MinimumAPIVersion *semver.Version
	EntryPoint        string
	ContentPackFor    *ContentPackFor
	Dependencies      []ManifestDependency
	UpdateKeys        []string
	Author            string
}

// CaseID returns the manifest's unique_id wrapped for case-insensitive
// comparison.
func (m *Manifest) CaseID() caseid.ID {
	if m == nil {
		return caseid.ID{}
	}
	return caseid.New(m.UniqueID)
}

// CompatibilityRecord is a static, curated record about a known mod,
// looked up by unique_id.
type CompatibilityRecord struct {
	Status             CompatibilityStatus
	ReasonPhrase       string
	StatusUpperVersion *semver.Version
	AlternativeURL     string
	DisplayName        string
	UpdateKey          string
}

// Status is a ModMetadata's terminal pipeline outcome.
type Status int

const (
	// Found means the mod passed every stage and is ready to load.
	Found Status = iota
	// Failed means the mod was rejected at some stage; Error explains why.
	Failed
)

func (s Status) String() string {
	switch s {
	case Found:
		return "Found"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ModMetadata is the pipeline's unit of work: one candidate mod folder,
// carried through every stage from discovery to load-order.
//
// A ModMetadata is never dropped once created. It is mutated only through
// SetStatus, which is idempotent once Failed: the first failure wins and
// later stages cannot overwrite it.
type ModMetadata struct {
	DisplayName   string
	DirectoryPath string
	Manifest      *Manifest
	DataRecord    *CompatibilityRecord
	Status        Status
	Error         string

	// synthID backstops the identity key for a mod whose manifest never
	// parsed far enough to expose a unique_id. It is never compared
	// against a real dependency's unique_id (those are always non-blank)
	// and never surfaced to callers.
	synthID string
}

// SetStatus transitions m to status, recording err as the failure reason.
// If m is already Failed, the call is a no-op: the earlier error is kept.
func (m *ModMetadata) SetStatus(status Status, err string) {
	if m.Status == Failed {
		return
	}
	m.Status = status
	if status == Failed {
		m.Error = err
	}
}

// Fail is shorthand for SetStatus(Failed, err).
func (m *ModMetadata) Fail(err string) {
	m.SetStatus(Failed, err)
}

// CaseID returns the mod's identity for case-insensitive comparison,
// derived from its manifest's unique_id. A mod with no manifest has a
// zero ID and never matches any dependency edge.
func (m *ModMetadata) CaseID() caseid.ID {
	if m.Manifest == nil {
		return caseid.ID{}
	}
	return m.Manifest.CaseID()
}

// identityKey returns a key guaranteed unique within one pipeline run,
// used only by the resolver to index mods internally. Mods with a real
// unique_id key on it; mods that never got far enough to have one key on
// a synthetic identifier instead, so two manifest-less mods never
// collide in the resolver's index map.
func (m *ModMetadata) identityKey() string {
	if m.Manifest != nil {
		return m.CaseID().Key()
	}
	return m.synthID
}

// InternalError represents a programming error: an invariant the pipeline
// assumes can never be violated in practice (an unknown Status value, a
// node observed Checking while not on the active visit chain). Unlike
// every other failure mode, which is localized to one ModMetadata,
// InternalError is meant to abort the process.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "modseq: internal error: " + e.Msg
}
