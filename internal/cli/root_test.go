package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name     string
		info     BuildInfo
		expected string
	}{
		{
			name:     "empty version falls back to dev",
			info:     BuildInfo{},
			expected: "dev",
		},
		{
			name:     "full build info",
			info:     BuildInfo{Version: "1.2.3", Commit: "abc1234", Date: "2024-06-01"},
			expected: "1.2.3 (abc1234, 2024-06-01)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, formatVersion(tc.info))
		})
	}
}

func TestRootCmd_RequiresMessage(t *testing.T) {
	cmd := newRootCmd(BuildInfo{})

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message")
}

func TestRootCmd_Version(t *testing.T) {
	cmd := newRootCmd(BuildInfo{Version: "1.2.3", Commit: "abc1234", Date: "2024-06-01"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "1.2.3 (abc1234, 2024-06-01)")
}
