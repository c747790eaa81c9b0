package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	defaultStorage := filepath.Join(".medquery", "session.db")

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "https://api.example.org", "-t", "10", "-l", "debug"}, expectPanic: false,
			expected: &Config{ServerURL: "https://api.example.org", StoragePath: defaultStorage, RequestTimeout: 10 * time.Second, LogLevel: "debug"}},
		{name: "Test2 storage disabled", args: []string{"cmd", "-s="}, expectPanic: false,
			expected: &Config{ServerURL: "http://localhost:8000", StoragePath: "", LogLevel: "warn"}},
		{name: "Test3 unrelated flags ignored", args: []string{"cmd", "-c", "x.json", "-s", "my.db"}, expectPanic: false,
			expected: &Config{ServerURL: "http://localhost:8000", StoragePath: "my.db", LogLevel: "warn"}},
		{name: "Test4 incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}
			config.LoadDefaults()

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
