package modseq

import (
	"fmt"
	"log/slog"

	"github.com/jordanvance/modseq/internal/compatdb"
	"github.com/jordanvance/modseq/internal/discovery"
	"github.com/jordanvance/modseq/internal/semver"
	"github.com/jordanvance/modseq/internal/updatekeys"
)

// Option configures a Load call. Load starts from its defaults (an empty
// compatibility database, the default update-key resolver, a nil
// logger); Options let a host override individual pieces without
// constructing the whole struct by hand. The zero value of LoadOptions
// itself has a nil DB and a nil ResolveUpdateKey.
type Option func(*LoadOptions)

// LoadOptions configures a pipeline run.
type LoadOptions struct {
	// APIVersion is the framework's current version, checked against
	// each manifest's MinimumApiVersion.
	APIVersion semver.Version

	// DB is the compatibility database consulted during manifest
	// loading and validation. Defaults to an empty database.
	DB compatdb.DB

	// ResolveUpdateKey resolves a manifest's "vendor:id" update-key to a
	// URL. Defaults to updatekeys.Default().
	ResolveUpdateKey updatekeys.Resolver

	// Logger receives Debug-level progress and Warn-level per-mod
	// failure notices. A nil Logger means silent operation, following
	// the frontend/backend split log/slog is designed for: callers plug
	// in whatever handler they want, or none at all.
	Logger *slog.Logger
}

func defaultOptions() LoadOptions {
	return LoadOptions{
		DB:               compatdb.Empty(),
		ResolveUpdateKey: updatekeys.Default(),
	}
}

// WithAPIVersion sets the current framework version checked against
// each manifest's minimum-API-version requirement.
func WithAPIVersion(v semver.Version) Option {
	return func(o *LoadOptions) { o.APIVersion = v }
}

// WithCompatibilityDatabase sets the database consulted during loading
// and validation.
func WithCompatibilityDatabase(db compatdb.DB) Option {
	return func(o *LoadOptions) { o.DB = db }
}

// WithUpdateKeyResolver overrides the default vendor:id -> URL resolver.
func WithUpdateKeyResolver(r updatekeys.Resolver) Option {
	return func(o *LoadOptions) { o.ResolveUpdateKey = r }
}

// WithLogger attaches a structured logger to the run.
func WithLogger(l *slog.Logger) Option {
	return func(o *LoadOptions) { o.Logger = l }
}

// Load runs the full pipeline over root: discovery, manifest loading,
// validation, and dependency resolution. It returns the mods in load
// order, dependencies before their dependents. Mods that failed during
// loading or validation come last; mods that fail during resolution keep
// their place in the resolver's finish order among the Found mods.
//
// Load only returns an error for conditions that are exceptional at the
// library boundary itself (an empty or unreadable root); every per-mod
// failure is recorded on that mod's ModMetadata instead.
func Load(root string, opts ...Option) ([]*ModMetadata, error) {
	if root == "" {
		return nil, ErrNoRoot
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	dirs, err := discovery.Discover(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootUnreadable, err)
	}
	log.Debug("discovered mod folders", "root", root, "count", len(dirs))

	mods := make([]*ModMetadata, 0, len(dirs))
	for _, dir := range dirs {
		m := loadOneMod(root, dir, o.DB)
		if m.Status == Failed {
			log.Warn("mod failed to load", "dir", dir, "reason", m.Error)
		} else {
			log.Debug("mod manifest loaded", "dir", dir, "mod", m.DisplayName)
		}
		mods = append(mods, m)
	}

	Validate(mods, o.APIVersion, o.ResolveUpdateKey)
	for _, m := range mods {
		if m.Status == Failed {
			log.Warn("mod failed validation", "mod", m.DisplayName, "reason", m.Error)
		}
	}

	ordered := Resolve(mods, o.DB)
	log.Debug("resolved load order", "found", countStatus(ordered, Found), "failed", countStatus(ordered, Failed))
	return ordered, nil
}

func countStatus(mods []*ModMetadata, status Status) int {
	n := 0
	for _, m := range mods {
		if m.Status == status {
			n++
		}
	}
	return n
}
