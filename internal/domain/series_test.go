package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Series_Diff(t *testing.T) {
	t.Parallel()
	s := Series{
		Dates:  []string{"2026-01-02", "2026-01-03", "2026-01-04"},
		Values: []float64{100, 103, 101},
	}
	d := s.Diff()
	require.Equal(t, s.Dates, d.Dates)
	require.InDeltaSlice(t, []float64{0, 3, -2}, d.Values, 1e-9)
}

func Test_Series_Diff_Empty(t *testing.T) {
	t.Parallel()
	var s Series
	require.Equal(t, 0, s.Diff().Len())
}

func Test_Series_Normalize(t *testing.T) {
	t.Parallel()
	s := Series{
		Dates:  []string{"a", "b", "c"},
		Values: []float64{50, 100, 25},
	}
	n := s.Normalize()
	require.InDeltaSlice(t, []float64{1, 2, 0.5}, n.Values, 1e-9)
}

func Test_Series_Normalize_ZeroFirst(t *testing.T) {
	t.Parallel()
	s := Series{Dates: []string{"a", "b"}, Values: []float64{0, 5}}
	n := s.Normalize()
	require.InDeltaSlice(t, []float64{0, 5}, n.Values, 1e-9)
}

func Test_Series_MinMax(t *testing.T) {
	t.Parallel()
	s := Series{Values: []float64{3, -1, 7, 2}}
	require.InDelta(t, -1, s.Min(), 1e-9)
	require.InDelta(t, 7, s.Max(), 1e-9)
}

func Test_DeriveUSDPerOz(t *testing.T) {
	t.Parallel()
	v := DeriveUSDPerOz("USD", "XAU", 0.0005)
	require.NotNil(t, v)
	require.InDelta(t, 2000.0, *v, 1e-9)

	v = DeriveUSDPerOz("XAU", "USD", 2000)
	require.NotNil(t, v)
	require.InDelta(t, 2000.0, *v, 1e-9)

	require.Nil(t, DeriveUSDPerOz("USD", "XAU", 0))
	require.Nil(t, DeriveUSDPerOz("EUR", "XAU", 0.0005))
}

func Test_ValidateMetal(t *testing.T) {
	t.Parallel()
	require.True(t, ValidateMetal("XAU"))
	require.True(t, ValidateMetal("XAG"))
	require.False(t, ValidateMetal("XPT"))
	require.False(t, ValidateMetal("xau"))
	require.False(t, ValidateMetal("XAU/USD"))
}
