package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupProducts_CollapsesByGroupID(t *testing.T) {
	hits := []ProductHit{
		{ProductID: "1", GroupID: "A"},
		{ProductID: "2", GroupID: "A"},
		{ProductID: "3", GroupID: "B"},
	}

	groups := GroupProducts(hits)

	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].GroupID)
	assert.Equal(t, "1", groups[0].Representative.ProductID)
	require.Len(t, groups[0].Siblings, 1)
	assert.Equal(t, "2", groups[0].Siblings[0].ProductID)
	assert.Equal(t, "B", groups[1].GroupID)
	assert.Equal(t, "3", groups[1].Representative.ProductID)
	assert.Empty(t, groups[1].Siblings)
}

func TestGroupProducts_PreservesFirstSeenOrder(t *testing.T) {
	hits := []ProductHit{
		{ProductID: "1", GroupID: "B"},
		{ProductID: "2", GroupID: "A"},
		{ProductID: "3", GroupID: "B"},
		{ProductID: "4", GroupID: "C"},
		{ProductID: "5", GroupID: "A"},
	}

	groups := GroupProducts(hits)

	require.Len(t, groups, 3)
	assert.Equal(t, "B", groups[0].GroupID)
	assert.Equal(t, "A", groups[1].GroupID)
	assert.Equal(t, "C", groups[2].GroupID)
}

func TestGroupProducts_MissingGroupIDBecomesSingleton(t *testing.T) {
	hits := []ProductHit{
		{ProductID: "p1"},
		{ProductID: "p2", GroupID: "G"},
		{ProductID: "p3"},
	}

	groups := GroupProducts(hits)

	require.Len(t, groups, 3)
	assert.Equal(t, "p1", groups[0].GroupID)
	assert.Equal(t, "G", groups[1].GroupID)
	assert.Equal(t, "p3", groups[2].GroupID)
	for _, g := range groups {
		assert.Empty(t, g.Siblings)
	}
}

func TestGroupProducts_Deterministic(t *testing.T) {
	hits := []ProductHit{
		{ProductID: "1", GroupID: "X"},
		{ProductID: "2", GroupID: "Y"},
		{ProductID: "3", GroupID: "X"},
		{ProductID: "4"},
	}

	first := GroupProducts(hits)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, GroupProducts(hits))
	}
}

func TestGroupProducts_EmptyInput(t *testing.T) {
	assert.Empty(t, GroupProducts(nil))
	assert.Empty(t, GroupProducts([]ProductHit{}))
}
