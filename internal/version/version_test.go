// Where: internal/version/version_test.go
// What: Tests for version string derivation.
package version

import (
	"runtime/debug"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	cases := []struct {
		name string
		info debug.BuildInfo
		want string
	}{
		{name: "no data", info: debug.BuildInfo{}, want: "dev"},
		{name: "module version", info: debug.BuildInfo{Main: debug.Module{Version: "v1.2.0"}}, want: "v1.2.0"},
		{
			name: "revision",
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
			},
			want: "0123456",
		},
		{
			name: "dirty",
			info: debug.BuildInfo{Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc"},
				{Key: "vcs.modified", Value: "true"},
			}},
			want: "abc (dirty)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := fromBuildInfo(&tc.info); got != tc.want {
				t.Fatalf("fromBuildInfo() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGetVersionPrefersLinkTimeValue(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	t.Cleanup(func() { Version = old })
	if got := GetVersion(); got != "v9.9.9" {
		t.Fatalf("GetVersion() = %q", got)
	}
}
