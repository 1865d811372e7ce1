package gitrepo

import "testing"

func feat() Commit     { return Commit{Type: "feat"} }
func fix() Commit      { return Commit{Type: "fix"} }
func breaking() Commit { return Commit{Type: "feat", Breaking: true} }

func TestBumpFor(t *testing.T) {
	tests := []struct {
		name    string
		commits []Commit
		want    string
	}{
		{"empty", nil, BumpPatch},
		{"fixOnly", []Commit{fix(), fix()}, BumpPatch},
		{"feat", []Commit{fix(), feat()}, BumpMinor},
		{"breakingWins", []Commit{fix(), feat(), breaking()}, BumpMajor},
		{"unconventional", []Commit{{Description: "update docs"}}, BumpPatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := BumpFor(tc.commits); got != tc.want {
				t.Errorf("BumpFor = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		major   int
		minor   int
		patch   int
		wantErr bool
	}{
		{"v1.2.3", 1, 2, 3, false},
		{"0.4.0", 0, 4, 0, false},
		{"v2.0.1-rc.1", 2, 0, 1, false},
		{"v1.2", 0, 0, 0, true},
		{"abc", 0, 0, 0, true},
		{"", 0, 0, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			major, minor, patch, err := ParseVersion(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if err == nil && (major != tc.major || minor != tc.minor || patch != tc.patch) {
				t.Errorf("got %d.%d.%d, want %d.%d.%d", major, minor, patch, tc.major, tc.minor, tc.patch)
			}
		})
	}
}

func TestNextVersion(t *testing.T) {
	tests := []struct {
		name    string
		current string
		commits []Commit
		want    string
	}{
		{"patch", "v1.2.3", []Commit{fix()}, "v1.2.4"},
		{"minor", "v1.2.3", []Commit{feat()}, "v1.3.0"},
		{"major", "v1.2.3", []Commit{breaking()}, "v2.0.0"},
		{"firstRelease", "", []Commit{feat()}, "v0.1.0"},
		{"badCurrent", "garbage", []Commit{fix()}, "v0.0.1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextVersion(tc.current, tc.commits); got != tc.want {
				t.Errorf("NextVersion = %q, want %q", got, tc.want)
			}
		})
	}
}
