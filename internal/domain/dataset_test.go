package domain_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"datavision/internal/domain"
)

const sample = "@a\tx\t0,0\n" +
	"\n" +
	"@b\tx\t0,1.5\n" +
	"@c\ty\t-2,3\n" +
	"@d\tnull\t4,-1\n"

func TestParseTSD(t *testing.T) {
	ds, err := domain.ParseTSD(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, []string{"@a", "@b", "@c", "@d"}, ds.Names())
	assert.Equal(t, 2, ds.NumLabels())

	p, ok := ds.Point("@b")
	require.True(t, ok)
	assert.Equal(t, domain.Point{X: 0, Y: 1.5}, p)

	label, ok := ds.Label("@c")
	require.True(t, ok)
	assert.Equal(t, "y", label)

	labels, points := ds.Labels(), ds.Points()
	require.Len(t, labels, len(points))
	for name := range labels {
		assert.Contains(t, points, name)
	}
}

func TestParseTSD_ReportsEveryBadLine(t *testing.T) {
	input := "@a\tx\t0,0\n" +
		"b\tx\t1,1\n" +
		"@c\tx\n" +
		"@a\ty\t2,2\n" +
		"@e\tx\t1;2\n" +
		"@f\tx\tNaN,0\n"

	ds, err := domain.ParseTSD(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, ds)

	errs := multierr.Errors(err)
	require.Len(t, errs, 5)
	assert.ErrorIs(t, errs[0], domain.ErrInvalidInstanceName)
	assert.Contains(t, errs[0].Error(), "line 2")
	assert.ErrorIs(t, errs[1], domain.ErrInvalidFileFormat)
	assert.Contains(t, errs[1].Error(), "line 3")
	assert.ErrorIs(t, errs[2], domain.ErrDuplicateInstance)
	assert.Contains(t, errs[2].Error(), "line 4")
	assert.ErrorIs(t, errs[3], domain.ErrInvalidFileFormat)
	assert.ErrorIs(t, errs[4], domain.ErrInvalidFileFormat)
	assert.Contains(t, errs[4].Error(), "line 6")
}

func TestDataSet_AddInstance(t *testing.T) {
	ds := domain.NewDataSet()
	require.NoError(t, ds.AddInstance("@a", "x", domain.Point{X: 1}))

	assert.ErrorIs(t, ds.AddInstance("@", "x", domain.Point{}), domain.ErrInvalidInstanceName)
	assert.ErrorIs(t, ds.AddInstance("a", "x", domain.Point{}), domain.ErrInvalidInstanceName)
	assert.ErrorIs(t, ds.AddInstance("@a", "y", domain.Point{}), domain.ErrDuplicateInstance)

	// Failed inserts leave the set untouched.
	assert.Equal(t, 1, ds.Len())
	label, _ := ds.Label("@a")
	assert.Equal(t, "x", label)
}

func TestDataSet_UpdateLabel(t *testing.T) {
	ds := domain.NewDataSet()
	require.NoError(t, ds.AddInstance("@a", "x", domain.Point{}))

	require.NoError(t, ds.UpdateLabel("@a", "0"))
	label, _ := ds.Label("@a")
	assert.Equal(t, "0", label)

	assert.ErrorIs(t, ds.UpdateLabel("@missing", "0"), domain.ErrUnknownInstance)
	assert.Equal(t, 1, ds.Len())
	_, ok := ds.Label("@missing")
	assert.False(t, ok)
}

func TestDataSet_NumLabelsIgnoresNull(t *testing.T) {
	ds := domain.NewDataSet()
	require.NoError(t, ds.AddInstance("@a", domain.NullLabel, domain.Point{}))
	require.NoError(t, ds.AddInstance("@b", domain.NullLabel, domain.Point{}))
	assert.Equal(t, 0, ds.NumLabels())

	require.NoError(t, ds.UpdateLabel("@a", "1"))
	assert.Equal(t, 1, ds.NumLabels())
}

func TestDataSet_Bounds(t *testing.T) {
	_, _, err := domain.NewDataSet().Bounds()
	require.ErrorIs(t, err, domain.ErrEmptyDataSet)

	ds, err := domain.ParseTSD(strings.NewReader(sample))
	require.NoError(t, err)
	lo, hi, err := ds.Bounds()
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: -2, Y: -1}, lo)
	assert.Equal(t, domain.Point{X: 4, Y: 3}, hi)
}

func TestDataSet_CloneIsIndependent(t *testing.T) {
	ds, err := domain.ParseTSD(strings.NewReader(sample))
	require.NoError(t, err)

	clone := ds.Clone()
	require.NoError(t, clone.UpdateLabel("@a", "changed"))
	require.NoError(t, clone.AddInstance("@z", "x", domain.Point{}))

	label, _ := ds.Label("@a")
	assert.Equal(t, "x", label)
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, 5, clone.Len())
}

func TestDataSet_WriteTSD(t *testing.T) {
	ds, err := domain.ParseTSD(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ds.WriteTSD(&buf))
	assert.Equal(t, "@a\tx\t0,0\n@b\tx\t0,1.5\n@c\ty\t-2,3\n@d\tnull\t4,-1\n", buf.String())

	back, err := domain.ParseTSD(&buf)
	require.NoError(t, err)
	assert.Equal(t, ds.Labels(), back.Labels())
	assert.Equal(t, ds.Points(), back.Points())
}
