// Package updatekeys resolves a manifest's "vendor:id" update-key tokens
// into canonical mod-page URLs. The mapping is a static table, injected
// into the validator rather than hard-coded into the core, so a host can
// substitute its own vendor list without touching the pipeline.
package updatekeys

import (
	"fmt"
	"strings"
)

// Resolver maps an update_key string to a URL, or reports that the
// vendor is unknown.
type Resolver func(updateKey string) (url string, ok bool)

// vendorURL builds the canonical URL template for each recognized vendor.
// %s is replaced with the vendor-specific id portion of the update key.
var vendorURL = map[string]string{
	"chucklefish": "https://community.playstarbound.com/resources/%s",
	"github":      "https://github.com/%s/releases",
	"nexus":       "https://www.nexusmods.com/stardewvalley/mods/%s",
}

// Default is the built-in Resolver recognizing Chucklefish, GitHub, and
// Nexus update keys, matching the vendor list the validator's compatible
// host is expected to support.
func Default() Resolver {
	return func(updateKey string) (string, bool) {
		vendor, id, ok := splitUpdateKey(updateKey)
		if !ok {
			return "", false
		}
		tmpl, ok := vendorURL[strings.ToLower(vendor)]
		if !ok {
			return "", false
		}
		return fmt.Sprintf(tmpl, id), true
	}
}

func splitUpdateKey(key string) (vendor, id string, ok bool) {
	i := strings.IndexByte(key, ':')
	if i < 0 || i == 0 || i == len(key)-1 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}
