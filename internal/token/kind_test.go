package token

import "testing"

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		EOF:     "EOF",
		Newline: "Newline",
		Ident:   "Ident",
		String:  "String",
		Dash:    "Dash",
		RBrace:  "RBrace",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestLegacyPrefix(t *testing.T) {
	cases := []struct {
		line string
		want string
		ok   bool
	}{
		{":::AIL_METADATA v1", ":::AIL_METADATA", true},
		{"FEATURE: snake", "FEATURE:", true},
		{"FACET: schema", "FACET:", true},
		{"VERSION: 2.1", "VERSION:", true},
		{"SUMMARY: fine", "", false},
		{"FEATURES: plural is fine", "", false},
	}
	for _, tc := range cases {
		got, ok := LegacyPrefix(tc.line)
		if got != tc.want || ok != tc.ok {
			t.Errorf("LegacyPrefix(%q) = %q,%v want %q,%v", tc.line, got, ok, tc.want, tc.ok)
		}
	}
}
