package listener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queueworks/qlisten/internal/core"
)

func TestOptions_Validate(t *testing.T) {
	valid := Options{Memory: 128, Sleep: 3, MaxTries: 3, Timeout: 60}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		opts Options
	}{
		{"zero memory", Options{Memory: 0}},
		{"negative memory", Options{Memory: -1}},
		{"negative delay", Options{Memory: 128, Delay: -1}},
		{"negative sleep", Options{Memory: 128, Sleep: -1}},
		{"negative tries", Options{Memory: 128, MaxTries: -1}},
		{"negative timeout", Options{Memory: 128, Timeout: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			require.Error(t, err)
			assert.True(t, core.IsCategory(err, core.ErrCatValidation))
		})
	}
}

func TestOptions_ZeroTriesMeansUnlimited(t *testing.T) {
	opts := Options{Memory: 128, MaxTries: 0}
	require.NoError(t, opts.Validate())

	spec := posixBuilder().Build("redis", "emails", opts)
	assert.Contains(t, spec.Args, "--tries=0")
}
