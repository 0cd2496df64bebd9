package modseq

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jordanvance/modseq/internal/semver"
	"github.com/jordanvance/modseq/internal/updatekeys"
)

// invalidFilenameChars are characters that cannot appear in an entry-point
// filename on at least one major OS; manifests are meant to be portable
// so any of these disqualifies the filename outright.
const invalidFilenameChars = `<>:"/\|?*`

// Validate applies every non-topological check to mods, in place. It
// materializes mods into an indexable slice (already true here, since
// the caller owns it) and applies the per-record checks in order,
// stopping at the first failing check per record; already-Failed records
// are left untouched. After the per-record pass, a cross-mod uniqueness
// pass runs over the full set.
//
// apiVersion is the current framework version; resolveUpdateKey resolves
// a manifest's "vendor:id" update-key token to a URL, or reports it
// unknown.
func Validate(mods []*ModMetadata, apiVersion semver.Version, resolveUpdateKey updatekeys.Resolver) {
	for _, m := range mods {
		if m.Status == Failed {
			continue
		}
		validateOne(m, apiVersion, resolveUpdateKey)
	}
	enforceUniqueness(mods)
}

func validateOne(m *ModMetadata, apiVersion semver.Version, resolveUpdateKey updatekeys.Resolver) {
	manifest := m.Manifest

	if err := checkCompatibilityPolicy(m, resolveUpdateKey); err != "" {
		m.Fail(err)
		return
	}
	if manifest.MinimumAPIVersion != nil && manifest.MinimumAPIVersion.IsNewerThan(apiVersion) {
		m.Fail(fmt.Sprintf("it needs a newer version of the mod loader: this mod needs at least %s but you have %s. Please update.", manifest.MinimumAPIVersion, apiVersion))
		return
	}
	if err := checkEntryPointExclusivity(m); err != "" {
		m.Fail(err)
		return
	}
	if err := checkRequiredFields(manifest); err != "" {
		m.Fail(err)
		return
	}
}

// checkCompatibilityPolicy applies the compatibility database's verdict.
// Obsolete is checked unconditionally before AssumeBroken.
func checkCompatibilityPolicy(m *ModMetadata, resolveUpdateKey updatekeys.Resolver) string {
	rec := m.DataRecord
	if rec == nil {
		return ""
	}

	switch rec.Status {
	case StatusObsolete:
		return fmt.Sprintf("it's obsolete: %s", rec.ReasonPhrase)
	case StatusAssumeBroken:
		urls := assumeBrokenURLs(m.Manifest, rec, resolveUpdateKey)
		clause := "newer version"
		if rec.StatusUpperVersion != nil && !rec.StatusUpperVersion.Equal(m.Manifest.Version) {
			clause = fmt.Sprintf("version newer than %s", rec.StatusUpperVersion)
		}
		reason := rec.ReasonPhrase
		if reason == "" {
			reason = "it's outdated"
		}
		return fmt.Sprintf("%s. Please check for a %s at %s", reason, clause, strings.Join(urls, " or "))
	default:
		return ""
	}
}

func assumeBrokenURLs(manifest *Manifest, rec *CompatibilityRecord, resolveUpdateKey updatekeys.Resolver) []string {
	var urls []string
	if resolveUpdateKey != nil {
		for _, key := range manifest.UpdateKeys {
			if url, ok := resolveUpdateKey(key); ok {
				urls = append(urls, url)
			}
		}
	}
	if rec.AlternativeURL != "" {
		urls = append(urls, rec.AlternativeURL)
	}
	urls = append(urls, "https://smapi.io/compat")
	return urls
}

// checkEntryPointExclusivity enforces that a manifest declares exactly
// one of an entry-point assembly or a content-pack parent, and that an
// entry-point actually names a file in the mod folder.
func checkEntryPointExclusivity(m *ModMetadata) string {
	manifest := m.Manifest
	hasEntry := manifest.EntryPoint != ""
	hasContentPack := manifest.ContentPackFor != nil

	switch {
	case !hasEntry && !hasContentPack:
		return "manifest has no entry-point or content-pack field"
	case hasEntry && hasContentPack:
		return "manifest sets both an entry-point and a content-pack field, which are mutually exclusive"
	case hasEntry:
		if strings.ContainsAny(manifest.EntryPoint, invalidFilenameChars) {
			return fmt.Sprintf("its entry-point %q is not a valid filename", manifest.EntryPoint)
		}
		full := filepath.Join(m.DirectoryPath, manifest.EntryPoint)
		if _, err := os.Stat(full); err != nil {
			return fmt.Sprintf("its entry-point %q doesn't exist", manifest.EntryPoint)
		}
		return ""
	default: // hasContentPack
		if isBlank(manifest.ContentPackFor.UniqueID) {
			return "its content-pack field is missing a unique ID for the required mod"
		}
		return ""
	}
}

// checkRequiredFields accumulates the manifest fields that are missing
// or blank, so one message can name all of them.
func checkRequiredFields(manifest *Manifest) string {
	var missing []string
	if isBlank(manifest.Name) {
		missing = append(missing, "Name")
	}
	if manifest.Version.IsZeroSentinel() {
		missing = append(missing, "Version")
	}
	if isBlank(manifest.UniqueID) {
		missing = append(missing, "UniqueID")
	}
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("manifest is missing required fields (%s)", strings.Join(missing, ", "))
}

// enforceUniqueness runs the cross-mod uniqueness pass: mods are
// grouped by trimmed, case-insensitive unique_id; any group with more
// than one member fails every still-Found member.
func enforceUniqueness(mods []*ModMetadata) {
	groups := map[string][]*ModMetadata{}
	for _, m := range mods {
		if m.Manifest == nil {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(m.Manifest.UniqueID))
		groups[key] = append(groups[key], m)
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		id := strings.TrimSpace(group[0].Manifest.UniqueID)
		names := displayNames(group)
		msg := fmt.Sprintf("its unique ID '%s' is used by multiple mods (%s)", id, strings.Join(names, ", "))
		for _, m := range group {
			if m.Status == Found {
				m.Fail(msg)
			}
		}
	}
}

func displayNames(mods []*ModMetadata) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.DisplayName
	}
	return names
}
