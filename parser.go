package modseq

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jordanvance/modseq/internal/compatdb"
	"github.com/jordanvance/modseq/internal/semver"
)

// manifestFilename is the name of the manifest document inside each mod
// folder.
const manifestFilename = "manifest.json"

// rawManifest is the JSON shape of a manifest document. Field names are
// matched case-insensitively by encoding/json's fallback matcher, so a
// manifest written "uniqueid" or "UNIQUEID" parses the same as "UniqueID".
type rawManifest struct {
	Name              string             `json:"Name"`
	Author            string             `json:"Author"`
	Version           *rawVersion        `json:"Version"`
	Description       string             `json:"Description"`
	UniqueID          string             `json:"UniqueID"`
	MinimumApiVersion *rawVersion        `json:"MinimumApiVersion"`
	EntryDll          string             `json:"EntryDll"`
	ContentPackFor    *rawContentPackFor `json:"ContentPackFor"`
	Dependencies      []rawDependency    `json:"Dependencies"`
	UpdateKeys        []string           `json:"UpdateKeys"`
}

type rawContentPackFor struct {
	UniqueID       string      `json:"UniqueID"`
	MinimumVersion *rawVersion `json:"MinimumVersion"`
}

type rawDependency struct {
	UniqueID       string      `json:"UniqueID"`
	MinimumVersion *rawVersion `json:"MinimumVersion"`
	IsRequired     *bool       `json:"IsRequired"`
}

// rawVersion accepts the manifest's loosely-typed semver-shape field,
// including the "0.0" sentinel meaning "absent".
type rawVersion struct {
	v   semver.Version
	set bool
}

func (r *rawVersion) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("version field must be a string: %w", err)
	}
	v, err := semver.Parse(s)
	if err != nil {
		return err
	}
	r.v, r.set = v, true
	return nil
}

// loadManifest reads and parses the manifest document in dir, returning
// the three outcomes the loading contract distinguishes: a populated
// Manifest, or a non-empty errMsg describing why it failed. Exactly one
// of the two return values is meaningful.
func loadManifest(dir string) (*Manifest, string) {
	path := filepath.Join(dir, manifestFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "it doesn't have a manifest."
		}
		return nil, fmt.Sprintf("parsing its manifest failed: %s", err)
	}

	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Sprintf("parsing its manifest failed: %s", err)
	}
	if isEmptyManifest(raw) {
		return nil, "its manifest is invalid."
	}

	m := &Manifest{
		Name:       raw.Name,
		UniqueID:   raw.UniqueID,
		Author:     raw.Author,
		EntryPoint: raw.EntryDll,
		UpdateKeys: append([]string(nil), raw.UpdateKeys...),
	}
	if raw.Version != nil && raw.Version.set {
		m.Version = raw.Version.v
	}
	if raw.MinimumApiVersion != nil && raw.MinimumApiVersion.set {
		v := raw.MinimumApiVersion.v
		m.MinimumAPIVersion = &v
	}
	if raw.ContentPackFor != nil {
		cpf := &ContentPackFor{UniqueID: raw.ContentPackFor.UniqueID}
		if raw.ContentPackFor.MinimumVersion != nil && raw.ContentPackFor.MinimumVersion.set {
			v := raw.ContentPackFor.MinimumVersion.v
			cpf.MinimumVersion = &v
		}
		m.ContentPackFor = cpf
	}
	for _, d := range raw.Dependencies {
		dep := ManifestDependency{UniqueID: d.UniqueID, IsRequired: true}
		if d.IsRequired != nil {
			dep.IsRequired = *d.IsRequired
		}
		if d.MinimumVersion != nil && d.MinimumVersion.set {
			v := d.MinimumVersion.v
			dep.MinimumVersion = &v
		}
		m.Dependencies = append(m.Dependencies, dep)
	}

	return m, ""
}

// isEmptyManifest reports whether raw deserialized to something
// indistinguishable from an empty or null document.
func isEmptyManifest(raw rawManifest) bool {
	return raw.Name == "" && raw.UniqueID == "" && raw.Version == nil &&
		raw.EntryDll == "" && raw.ContentPackFor == nil && len(raw.Dependencies) == 0
}

// loadOneMod runs the Manifest Loader stage for a single mod folder: it
// reads the manifest, looks up the compatibility record, derives the
// display name, and applies the database's update-key override. It never
// returns an error; every failure becomes a Failed ModMetadata.
func loadOneMod(root, dir string, db compatdb.DB) *ModMetadata {
	m := &ModMetadata{DirectoryPath: dir}

	manifest, errMsg := loadManifest(dir)
	if manifest == nil {
		m.DisplayName = relDisplayName(root, dir)
		m.synthID = uuid.NewString()
		m.Fail(errMsg)
		return m
	}
	m.Manifest = manifest

	var rec *CompatibilityRecord
	if hit, ok := db.Lookup(manifest.CaseID()); ok {
		rec = &CompatibilityRecord{
			Status:             compatStatus(hit.Status),
			ReasonPhrase:       hit.ReasonPhrase,
			StatusUpperVersion: hit.StatusUpperVersion,
			AlternativeURL:     hit.AlternativeURL,
			DisplayName:        hit.DisplayName,
			UpdateKey:          hit.UpdateKey,
		}
		m.DataRecord = rec
	}

	m.DisplayName = deriveDisplayName(manifest, rec, root, dir)

	if rec != nil && rec.UpdateKey != "" {
		manifest.UpdateKeys = []string{rec.UpdateKey}
	}

	m.Status = Found
	return m
}

func compatStatus(s compatdb.Status) CompatibilityStatus {
	switch s {
	case compatdb.StatusObsolete:
		return StatusObsolete
	case compatdb.StatusAssumeBroken:
		return StatusAssumeBroken
	default:
		return StatusOK
	}
}

// deriveDisplayName picks the first non-blank of manifest.Name, the
// compatibility record's DisplayName, and the path relative to root.
func deriveDisplayName(manifest *Manifest, rec *CompatibilityRecord, root, dir string) string {
	if !isBlank(manifest.Name) {
		return manifest.Name
	}
	if rec != nil && !isBlank(rec.DisplayName) {
		return rec.DisplayName
	}
	return relDisplayName(root, dir)
}

func relDisplayName(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return dir
	}
	return rel
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
