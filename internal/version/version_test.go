package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuildInfo(t *testing.T, version, commit, date string) {
	t.Helper()
	oldVersion, oldCommit, oldDate := Version, GitCommit, BuildDate
	SetBuildInfo(version, commit, date)
	t.Cleanup(func() { SetBuildInfo(oldVersion, oldCommit, oldDate) })
}

func TestGetInfo(t *testing.T) {
	withBuildInfo(t, "1.2.3+45.abcdef0", "abcdef0123456", "2025-01-01")

	info, err := GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3+45.abcdef0", info.Version)
	assert.Equal(t, "abcdef0123456", info.GitCommit)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
	assert.Equal(t, "1.2.3", GetBaseVersion())
}

func TestGetInfo_InvalidVersion(t *testing.T) {
	withBuildInfo(t, "not-a-version", "unknown", "unknown")

	_, err := GetInfo()
	assert.Error(t, err)
	assert.Equal(t, "not-a-version", GetBaseVersion())
	assert.Contains(t, GetFormattedVersion(), "invalid version")
	assert.Contains(t, GetDetailedVersion(), "error")
}

func TestGetFormattedVersion(t *testing.T) {
	tests := []struct {
		name    string
		commit  string
		date    string
		want    string
		wantDev bool
	}{
		{"development build", "unknown", "unknown", "devicecall v0.1.0", true},
		{"release build", "abcdef0123456", "2025-01-01", "devicecall v0.1.0, commit abcdef0, built 2025-01-01", false},
		{"short commit", "abc", "unknown", "devicecall v0.1.0, commit abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildInfo(t, "0.1.0", tt.commit, tt.date)
			assert.Equal(t, tt.want, GetFormattedVersion())
			assert.Equal(t, tt.wantDev, IsDevelopment())
		})
	}
}

func TestGetDetailedVersion(t *testing.T) {
	withBuildInfo(t, "0.3.0+12.deadbee", "deadbeef", "2025-02-03")

	lines := strings.Split(GetDetailedVersion(), "\n")
	assert.Equal(t, "devicecall v0.3.0+12.deadbee", lines[0])
	assert.Contains(t, lines, "Build Metadata: 12.deadbee")
	assert.Contains(t, lines, "Git Commit: deadbeef")
}

func TestIsPrerelease(t *testing.T) {
	withBuildInfo(t, "0.2.0-alpha.1", "unknown", "unknown")
	assert.True(t, IsPrerelease())

	withBuildInfo(t, "0.2.0", "unknown", "unknown")
	assert.False(t, IsPrerelease())
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"0.1.0", "0.2.0", -1},
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0-beta", "1.0.0", -1},
	}
	for _, tt := range tests {
		got, err := CompareVersions(tt.v1, tt.v2)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s vs %s", tt.v1, tt.v2)
	}

	_, err := CompareVersions("bad", "1.0.0")
	assert.Error(t, err)
}
