package preflight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckJWTSecret(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		hasError bool
	}{
		{"valid secret", strings.Repeat("s", 32), false},
		{"long secret", strings.Repeat("x", 64), false},
		{"empty", "", true},
		{"too short", "shortsecret", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckJWTSecret(tt.secret)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRunExecutesAllProbes(t *testing.T) {
	// Every probe must run even when an earlier one fails.
	var ran []string
	probes := []Probe{
		{Name: "first", Check: func(ctx context.Context) error {
			ran = append(ran, "first")
			return errors.New("broken")
		}},
		{Name: "second", Check: func(ctx context.Context) error {
			ran = append(ran, "second")
			return nil
		}},
	}

	report := Run(context.Background(), probes)

	assert.Equal(t, []string{"first", "second"}, ran)
	require.Len(t, report.Results, 2)
	assert.Error(t, report.Results[0].Err)
	assert.NoError(t, report.Results[1].Err)
	assert.False(t, report.Passed())
}

func TestReportPassed(t *testing.T) {
	ok := &Report{Results: []ProbeResult{{Name: "a"}, {Name: "b"}}}
	assert.True(t, ok.Passed())

	bad := &Report{Results: []ProbeResult{{Name: "a"}, {Name: "b", Err: errors.New("x")}}}
	assert.False(t, bad.Passed())
}

func TestCheckAssetRoots(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, checkAssetRoots([]string{dir}))
	assert.Error(t, checkAssetRoots([]string{dir + "/missing"}))
}
