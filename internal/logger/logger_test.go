package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := map[string]struct {
		level       string
		development bool
		wantErr     bool
	}{
		"debug development": {level: "debug", development: true},
		"warn production":   {level: "warn"},
		"error":             {level: "error"},
		"unknown level":     {level: "loud", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			l, err := NewLogger(tc.level, tc.development)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			l.WithComponent("test").Debugw("hello", "k", "v")
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	nop := NewNopLogger()
	SetDefaultLogger(nop)
	require.Same(t, nop, GetDefaultLogger())
}
