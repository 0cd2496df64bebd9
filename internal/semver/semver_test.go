package semver

import "testing"

func TestParseAndString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.2.3", "1.2.3"},
		{"1.2", "1.2.0"},
		{"0.0", "0.0.0"},
		{"1.5.0-beta", "1.5.0-beta"},
	}
	for _, c := range cases {
		v, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got := v.String(); got != c.want {
			t.Errorf("Parse(%q).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3.4", "1"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", in)
		}
	}
}

func TestCompareOrdering(t *testing.T) {
	asc := []string{"1.0.0-alpha", "1.0.0", "1.0.1", "1.1.0", "2.0.0"}
	for i := 0; i+1 < len(asc); i++ {
		a, b := MustParse(asc[i]), MustParse(asc[i+1])
		if !a.Less(b) {
			t.Errorf("expected %s < %s", a, b)
		}
		if b.IsNewerThan(a) != true {
			t.Errorf("expected %s.IsNewerThan(%s)", b, a)
		}
	}
}

func TestPrereleaseLessThanRelease(t *testing.T) {
	pre := MustParse("1.2.3-rc1")
	rel := MustParse("1.2.3")
	if !pre.Less(rel) {
		t.Fatalf("expected prerelease %s to sort before release %s", pre, rel)
	}
}

func TestIsZeroSentinel(t *testing.T) {
	if !MustParse("0.0").IsZeroSentinel() {
		t.Error("expected 0.0 to be the zero sentinel")
	}
	if MustParse("0.0.1").IsZeroSentinel() {
		t.Error("0.0.1 should not be the zero sentinel")
	}
}

func TestEqual(t *testing.T) {
	a := MustParse("1.2.3")
	b := MustParse("1.2.3")
	if !a.Equal(b) {
		t.Errorf("expected %s to equal %s", a, b)
	}
}
