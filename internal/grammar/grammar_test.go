package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g, err := New([]int{1, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Dim())
	assert.Equal(t, 0, g.Square(2))
	assert.Equal(t, "[1 1 0]", g.String())
	assert.Equal(t, uint64(0b111), g.PseudoScalarMask())
}

func TestSquaresIsACopy(t *testing.T) {
	in := []int{1, -1}
	g := MustNew(in)
	in[0] = 5
	out := g.Squares()
	out[1] = 7
	assert.Equal(t, []int{1, -1}, g.Squares())
}

func TestConventions(t *testing.T) {
	tests := []struct {
		name    string
		conv    Convention
		wantErr string
	}{
		{
			name: "valid reordering",
			conv: Convention{Canonical: []VecIndex{0, 2}, Preferred: []VecIndex{2, 0}},
		},
		{
			name:    "different generator set",
			conv:    Convention{Canonical: []VecIndex{0, 2}, Preferred: []VecIndex{2, 1}},
			wantErr: "not a reordering",
		},
		{
			name:    "repeated generator",
			conv:    Convention{Canonical: []VecIndex{1, 1}, Preferred: []VecIndex{1, 1}},
			wantErr: "repeated generator",
		},
		{
			name:    "out of range",
			conv:    Convention{Canonical: []VecIndex{0, 3}, Preferred: []VecIndex{3, 0}},
			wantErr: "out of range",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New([]int{1, 1, 0}, tt.conv)
			if tt.wantErr == "" {
				require.NoError(t, err)
				p, ok := g.Preferred(Mask(tt.conv.Canonical...))
				require.True(t, ok)
				assert.Equal(t, tt.conv.Preferred, p)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDuplicateConvention(t *testing.T) {
	c := Convention{Canonical: []VecIndex{0, 1}, Preferred: []VecIndex{1, 0}}
	_, err := New([]int{1, 1}, c, c)
	var convErr *ConventionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "duplicate convention", convErr.Reason)
}

func TestCheck(t *testing.T) {
	g := MustNew([]int{1, 1})
	assert.NoError(t, g.Check(1))
	var idxErr *IndexError
	require.True(t, errors.As(g.Check(2), &idxErr))
	assert.Equal(t, VecIndex(2), idxErr.Index)
	assert.Panics(t, func() { g.Square(2) })
}

func TestTooManyGenerators(t *testing.T) {
	_, err := New(make([]int, MaxDim+1))
	assert.Error(t, err)
}
