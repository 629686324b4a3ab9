package registers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bmf-san/ce/internal/editor/buffer"
)

func TestMarksUpsert(t *testing.T) {
	m := NewMarks()
	_, ok := m.Get('a')
	require.False(t, ok)

	m.Set('a', buffer.Point{X: 1, Y: 2})
	p, ok := m.Get('a')
	require.True(t, ok)
	require.Equal(t, buffer.Point{X: 1, Y: 2}, p)

	m.Set('a', buffer.Point{X: 3, Y: 4})
	p, _ = m.Get('a')
	require.Equal(t, buffer.Point{X: 3, Y: 4}, p)
}

func TestYanksWriteMirrorsToZeroAndDefault(t *testing.T) {
	y := NewYanks()
	y.Write('x', Yank{Text: "hello", Mode: ModeNormal})

	v, ok := y.Read('x')
	require.True(t, ok)
	require.Equal(t, "hello", v.Text)

	v, ok = y.Read(LastYankRegister)
	require.True(t, ok)
	require.Equal(t, "hello", v.Text)

	v, ok = y.Read(DefaultRegister)
	require.True(t, ok)
	require.Equal(t, "hello", v.Text)
}

func TestYanksReadFallsBackToDefault(t *testing.T) {
	y := NewYanks()
	y.Write(DefaultRegister, Yank{Text: "implicit"})

	v, ok := y.Read(0)
	require.True(t, ok)
	require.Equal(t, "implicit", v.Text)
}

func TestYanksWriteRawDoesNotMirror(t *testing.T) {
	y := NewYanks()
	y.WriteRaw(SearchRegister, Yank{Text: "alpha"})

	v, ok := y.Read(SearchRegister)
	require.True(t, ok)
	require.Equal(t, "alpha", v.Text)

	_, ok = y.Read(LastYankRegister)
	require.False(t, ok)
	_, ok = y.Read(DefaultRegister)
	require.False(t, ok)
}

func TestYanksWriteDeleteSkipsZero(t *testing.T) {
	y := NewYanks()
	y.Write('x', Yank{Text: "yanked"})
	y.WriteDelete('d', Yank{Text: "deleted"})

	v, _ := y.Read('d')
	require.Equal(t, "deleted", v.Text)
	v, _ = y.Read(DefaultRegister)
	require.Equal(t, "deleted", v.Text)

	// '0' still shadows the last true yank, not the delete.
	v, _ = y.Read(LastYankRegister)
	require.Equal(t, "yanked", v.Text)
}

func TestMacrosUpsert(t *testing.T) {
	m := NewMacros()
	m.Write('q', `dw\e`)
	body, ok := m.Read('q')
	require.True(t, ok)
	require.Equal(t, `dw\e`, body)

	m.Write('q', `x`)
	body, _ = m.Read('q')
	require.Equal(t, `x`, body)
}
