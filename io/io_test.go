package specio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func newBuffered() (*IOManager, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	m := New().WithOut(&out).WithErr(&errOut).WithIn(strings.NewReader(""))
	return m, &out, &errOut
}

func TestIOManager_Streams(t *testing.T) {
	m, out, errOut := newBuffered()
	require.Same(t, out, m.Out())
	require.Same(t, errOut, m.Err())
	require.NotNil(t, m.In())

	require.False(t, m.IsTTY(), "a buffer is never a terminal")
	require.True(t, m.IsPiped())
	require.False(t, m.IsInteractive())
}

func TestIOManager_SizeFallback(t *testing.T) {
	m, _, _ := newBuffered()

	t.Setenv("COLUMNS", "132")
	t.Setenv("LINES", "50")
	require.Equal(t, 132, m.Width())
	require.Equal(t, 50, m.Height())

	t.Setenv("COLUMNS", "wide")
	t.Setenv("LINES", "")
	require.Equal(t, 80, m.Width())
	require.Equal(t, 24, m.Height())
}

func TestIOManager_SupportsColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")
	m, _, _ := newBuffered()

	require.False(t, m.SupportsColor(), "no tty, no override")

	t.Setenv("FORCE_COLOR", "1")
	require.True(t, m.SupportsColor())

	t.Setenv("NO_COLOR", "1")
	require.False(t, m.SupportsColor(), "NO_COLOR wins over FORCE_COLOR")

	require.True(t, m.ForceColor().SupportsColor(), "explicit ForceColor wins over env")
	require.False(t, m.NoColor().SupportsColor())

	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")
	require.False(t, m.ColorAuto().SupportsColor())
}

func TestIOManager_Colorize(t *testing.T) {
	m, _, _ := newBuffered()

	require.Equal(t, "plain", m.NoColor().Bold("plain"))

	got := m.ForceColor().Colorize("red", color.FgRed)
	require.Equal(t, "\x1b[31mred\x1b[0m", got)
	require.True(t, strings.HasPrefix(m.Bold("b"), "\x1b[1mb\x1b["))
	require.True(t, strings.HasPrefix(m.Faint("f"), "\x1b[2mf\x1b["))
}
