package updatekeys

import "testing"

func TestDefaultKnownVendors(t *testing.T) {
	resolve := Default()

	cases := []struct {
		key  string
		want string
	}{
		{"Nexus:42", "https://www.nexusmods.com/stardewvalley/mods/42"},
		{"GitHub:someuser/somerepo", "https://github.com/someuser/somerepo/releases"},
		{"Chucklefish:123", "https://community.playstarbound.com/resources/123"},
	}
	for _, c := range cases {
		got, ok := resolve(c.key)
		if !ok {
			t.Errorf("resolve(%q): expected ok", c.key)
			continue
		}
		if got != c.want {
			t.Errorf("resolve(%q) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestDefaultUnknownVendor(t *testing.T) {
	resolve := Default()
	if _, ok := resolve("Carrier Pigeon:1"); ok {
		t.Error("expected unknown vendor to report not-ok")
	}
}

func TestMalformedKey(t *testing.T) {
	resolve := Default()
	for _, key := range []string{"", "nocolon", ":noid", "novendor:"} {
		if _, ok := resolve(key); ok {
			t.Errorf("resolve(%q): expected not-ok for malformed key", key)
		}
	}
}
