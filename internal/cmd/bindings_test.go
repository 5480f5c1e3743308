package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrazer/razerctl/translate"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected translate.KeyTranslation
		wantErr  bool
	}{
		{name: "decimal pair", input: "2=30", expected: translate.KeyTranslation{From: 2, To: 30}},
		{name: "hex destination", input: "2=0x1e", expected: translate.KeyTranslation{From: 2, To: 0x1E}},
		{name: "hex both", input: "0x102=0xa0b0", expected: translate.KeyTranslation{From: 0x102, To: 0xA0B0}},
		{name: "missing separator", input: "2", wantErr: true},
		{name: "bad source", input: "x=3", wantErr: true},
		{name: "bad destination", input: "2=", wantErr: true},
		{name: "out of range", input: "2=65536", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBinding(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestBindingsSetWritesPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "button_translations")

	b := BindingsSet{Path: path, Pairs: []string{"2=0x1e", "3=0x30"}}
	require.NoError(t, b.Run(slog.Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x00, 0x1E, 0x00, 0x03, 0x00, 0x30, 0x00}, data)
}

func TestBindingsClearWritesSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "button_translations")

	b := BindingsClear{Path: path}
	require.NoError(t, b.Run(slog.Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, data)
}

func TestBindingsGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "button_translations")

	// Sentinel payload: no bindings, not an error.
	require.NoError(t, os.WriteFile(path, []byte{0x00}, 0o644))
	g := BindingsGet{Path: path}
	assert.NoError(t, g.Run(slog.Default()))

	// Odd-length payload is a malformed read.
	require.NoError(t, os.WriteFile(path, []byte{0x01, 0x02, 0x03}, 0o644))
	assert.ErrorIs(t, g.Run(slog.Default()), translate.ErrInvalidLength)
}
