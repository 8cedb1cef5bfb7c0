// SPDX-License-Identifier: MIT
package build

import (
	"strings"
	"testing"
)

// link sets the ldflags variables and a fresh Info, restoring both after the test.
func link(t *testing.T, name, time, commit, version string) {
	t.Helper()
	n, tm, c, v, f := buildName, buildTime, buildCommit, buildVersion, buildFlags
	t.Cleanup(func() {
		buildName, buildTime, buildCommit, buildVersion, buildFlags = n, tm, c, v, f
	})
	buildName, buildTime, buildCommit, buildVersion = name, time, commit, version
	buildFlags = defaultInfo()
}

func TestInitializeMissingFlag(t *testing.T) {
	tests := []struct {
		name    string
		linked  [4]string // name, time, commit, version
		missing string
	}{
		{"name", [4]string{"", "2025-04-13", "abcdef1", "v1.0.0"}, "BuildName"},
		{"time", [4]string{"vocaltract", "", "abcdef1", "v1.0.0"}, "BuildTime"},
		{"commit", [4]string{"vocaltract", "2025-04-13", "", "v1.0.0"}, "BuildCommit"},
		{"version", [4]string{"vocaltract", "2025-04-13", "abcdef1", ""}, "BuildVersion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link(t, tt.linked[0], tt.linked[1], tt.linked[2], tt.linked[3])

			err := Initialize()
			if err == nil || !strings.HasPrefix(err.Error(), tt.missing) {
				t.Fatalf("Initialize() = %v, want %s error", err, tt.missing)
			}
			// Development defaults survive a partial link.
			if got := GetBuildFlags(); got.Name != DefaultName || got.Version != "dev" {
				t.Errorf("flags after failed Initialize = %+v", got)
			}
		})
	}
}

func TestInitialize(t *testing.T) {
	link(t, "vt", "2025-04-13", "abcdef1", "v1.0.0")

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	got := GetBuildFlags()
	if got.Name != "vt" || got.Time != "2025-04-13" || got.Commit != "abcdef1" || got.Version != "v1.0.0" {
		t.Errorf("GetBuildFlags() = %+v", got)
	}
	if got.Description == "" {
		t.Error("description lost")
	}
	if s, want := got.String(), "v1.0.0 (commit abcdef1, built 2025-04-13)"; s != want {
		t.Errorf("String() = %q, want %q", s, want)
	}
}
