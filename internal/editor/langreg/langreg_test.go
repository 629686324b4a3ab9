package langreg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupKnownFiletype(t *testing.T) {
	e := Lookup("go")
	require.Equal(t, "// ", e.Comment)
	require.Equal(t, "\t", e.TabString())
}

func TestLookupSoftTabFiletype(t *testing.T) {
	e := Lookup("py")
	require.True(t, e.SoftTabs)
	require.Equal(t, "    ", e.TabString())
}

func TestLookupNormalizesCaseAndDot(t *testing.T) {
	e := Lookup(".GO")
	require.Equal(t, "// ", e.Comment)
}

func TestLookupUnknownFallsBack(t *testing.T) {
	e := Lookup("unknownlang")
	require.Equal(t, fallback, e)
}
