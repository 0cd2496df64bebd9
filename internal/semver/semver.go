// Package semver implements the three-part version used throughout the
// mod-loading pipeline: major.minor.patch plus an optional prerelease tag.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a semantic version: three non-negative integers and an
// optional prerelease tag. The zero value represents "0.0.0" with no
// prerelease, which is also what the sentinel "0.0" manifests use to
// mean "absent" parses to; IsZeroSentinel reports true for it.
type Version struct {
	major, minor, patch int
	prerelease          string
}

// Parse parses a version string of the form "major.minor.patch" or
// "major.minor.patch-prerelease". Two-part versions ("1.2") are accepted
// with patch defaulting to zero, matching the looser forms mod manifests
// occasionally ship.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	core := s
	var prerelease string
	if i := strings.IndexByte(s, '-'); i >= 0 {
		core, prerelease = s[:i], s[i+1:]
	}

	parts := strings.Split(core, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor[.patch]", s)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil || minor < 0 {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}
	patch := 0
	if len(parts) == 3 {
		patch, err = strconv.Atoi(parts[2])
		if err != nil || patch < 0 {
			return Version{}, fmt.Errorf("invalid version %q: bad patch component", s)
		}
	}

	return Version{major: major, minor: minor, patch: patch, prerelease: prerelease}, nil
}

// MustParse parses a version or panics. Used only for constants and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// New constructs a Version directly from its components.
func New(major, minor, patch int, prerelease string) Version {
	return Version{major: major, minor: minor, patch: patch, prerelease: prerelease}
}

func (v Version) Major() int { return v.major }
func (v Version) Minor() int { return v.minor }
func (v Version) Patch() int { return v.patch }

// Prerelease returns the prerelease tag, or "" if this is a release version.
func (v Version) Prerelease() string { return v.prerelease }

// IsPrerelease reports whether v carries a prerelease tag.
func (v Version) IsPrerelease() bool { return v.prerelease != "" }

// IsZeroSentinel reports whether v is the "0.0" sentinel manifests use to
// mean "no version was declared".
func (v Version) IsZeroSentinel() bool {
	return v.major == 0 && v.minor == 0 && v.patch == 0 && v.prerelease == ""
}

// String renders the version as "major.minor.patch" or
// "major.minor.patch-prerelease".
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
	if v.prerelease != "" {
		s += "-" + v.prerelease
	}
	return s
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other. Ordering is lexicographic on (major, minor, patch); a version
// carrying a prerelease tag is strictly less than the same triple without
// one; prerelease tags otherwise compare lexicographically as strings.
func (v Version) Compare(other Version) int {
	if v.major != other.major {
		return intCompare(v.major, other.major)
	}
	if v.minor != other.minor {
		return intCompare(v.minor, other.minor)
	}
	if v.patch != other.patch {
		return intCompare(v.patch, other.patch)
	}
	if v.prerelease == "" && other.prerelease != "" {
		return 1
	}
	if v.prerelease != "" && other.prerelease == "" {
		return -1
	}
	return strings.Compare(v.prerelease, other.prerelease)
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Equal reports whether v and other compare equal.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// IsNewerThan is the strict-greater relation: v.IsNewerThan(other) iff
// v sorts strictly after other.
func (v Version) IsNewerThan(other Version) bool { return v.Compare(other) > 0 }

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MarshalJSON renders the version as its string form.
func (v Version) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(v.String())), nil
}

// UnmarshalJSON parses the version from its string form.
func (v *Version) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("version must be a JSON string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
