package xlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerSuppressesBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Infof("ignored")
	require.Empty(t, buf.String())

	l.Warnf("seen %d", 1)
	require.Contains(t, buf.String(), "seen 1")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, LevelDebug, lvl)

	_, err = ParseLevel("bogus")
	require.Error(t, err)
}
