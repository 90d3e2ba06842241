package testkit

import (
	"testing"

	"ksboot/domain/partition"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestTestKit_Reproducible(t *testing.T) {
	a := NewTestKit(1).Normal(10, 0, 1)
	b := NewTestKit(1).Normal(10, 0, 1)
	c := NewTestKit(2).Normal(10, 0, 1)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestTestKit_NormalMoments(t *testing.T) {
	values := NewTestKit(3).Normal(20000, 2, 0.5)
	mean, std := stat.MeanStdDev(values, nil)

	assert.InDelta(t, 2.0, mean, 0.02)
	assert.InDelta(t, 0.5, std, 0.02)
}

func TestTestKit_RandomSplitIsPartition(t *testing.T) {
	kit := NewTestKit(4)
	values := kit.Normal(100, 0, 1)

	a, b := kit.RandomSplit(values, 30)
	assert.Len(t, a, 30)
	assert.Len(t, b, 70)
	assert.True(t, partition.SameMultiset(values, a, b))
}

func TestTestKit_ShiftedPair(t *testing.T) {
	parent, a, b := NewTestKit(5).ShiftedPair(300, 700, 0.3)

	assert.Len(t, parent, 1000)
	assert.Equal(t, a, parent[:300])
	assert.Equal(t, b, parent[300:])
}
