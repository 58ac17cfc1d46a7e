package toolchain

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEnvironment(t *testing.T) {
	tests := []struct {
		name      string
		sysEnv    []string
		overrides map[string]string
		expected  []string
	}{
		{
			name:     "System Only",
			sysEnv:   []string{"USER=test", "PATH=/bin"},
			expected: []string{"PATH=/bin", "USER=test"},
		},
		{
			name:      "Override",
			sysEnv:    []string{"USER=test", "PATH=/bin"},
			overrides: map[string]string{"USER": "hotspot", "JAVA_HOME": "/opt/jdk"},
			expected:  []string{"JAVA_HOME=/opt/jdk", "PATH=/bin", "USER=hotspot"},
		},
		{
			name:      "Prepend PATH",
			sysEnv:    []string{"PATH=/bin"},
			overrides: map[string]string{"PATH": "/opt/jdk/bin"},
			expected:  []string{"PATH=/opt/jdk/bin" + string(os.PathListSeparator) + "/bin"},
		},
		{
			name:      "PATH without system PATH",
			sysEnv:    []string{"USER=test"},
			overrides: map[string]string{"PATH": "/opt/jdk/bin"},
			expected:  []string{"PATH=/opt/jdk/bin", "USER=test"},
		},
		{
			name:     "Malformed entries are dropped",
			sysEnv:   []string{"NOEQUALS", "A=1"},
			expected: []string{"A=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveEnvironment(tt.sysEnv, tt.overrides))
		})
	}
}

func TestPlaceholders_Expand(t *testing.T) {
	p := placeholders{source: "/w/Main.java", dir: "/w", entry: "Main", ext: ".java"}

	got := p.expand([]string{"java", "-cp", "{dir}", "{entry}", "--src={source}", "x{ext}"})
	assert.Equal(t, []string{"java", "-cp", "/w", "Main", "--src=/w/Main.java", "x.java"}, got)
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	bin := dir + "/tool"
	assert.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o700)) //nolint:gosec // Test executable

	got, err := lookPath("tool", []string{"PATH=" + dir})
	assert.NoError(t, err)
	assert.Equal(t, bin, got)

	_, err = lookPath("tool", []string{"HOME=/root"})
	assert.Error(t, err)
}
