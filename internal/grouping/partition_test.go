package grouping

import (
	"testing"

	"github.com/jonathan/resume-editor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b(id, text string) types.Bullet {
	return types.Bullet{ID: types.ID(id), Text: text}
}

func hiddenHeader(id, text string) types.Bullet {
	return types.Bullet{ID: types.ID(id), Text: text, Params: types.Params{Visible: types.Bool(false)}}
}

func ids(bullets []types.Bullet) []types.ID {
	out := make([]types.ID, len(bullets))
	for i, x := range bullets {
		out[i] = x.ID
	}
	return out
}

func TestPartition_HeadersAbsorbDetails(t *testing.T) {
	bullets := []types.Bullet{
		b("h1", "**Acme / Engineer / 2020**"),
		b("d1", "• one"),
		b("d2", "• two"),
		b("h2", "**Globex / Lead / 2018**"),
		b("d3", "• three"),
	}

	groups := Partition(bullets)

	require.Len(t, groups, 2)
	assert.True(t, groups[0].HasHeader)
	assert.Equal(t, []types.ID{"h1", "d1", "d2"}, ids(groups[0].Bullets))
	assert.Equal(t, []types.ID{"h2", "d3"}, ids(groups[1].Bullets))
}

func TestPartition_LeadingDetailsFormSingletonGroups(t *testing.T) {
	bullets := []types.Bullet{
		b("d1", "• orphan one"),
		b("d2", "• orphan two"),
		b("h1", "**Acme / Engineer / 2020**"),
		b("d3", "• owned"),
	}

	groups := Partition(bullets)

	require.Len(t, groups, 3)
	assert.False(t, groups[0].HasHeader)
	assert.Equal(t, []types.ID{"d1"}, ids(groups[0].Bullets))
	assert.False(t, groups[1].HasHeader)
	assert.Equal(t, []types.ID{"d2"}, ids(groups[1].Bullets))
	assert.Equal(t, []types.ID{"h1", "d3"}, ids(groups[2].Bullets))
}

func TestPartition_Empty(t *testing.T) {
	assert.Empty(t, Partition(nil))
}

func TestPartitionFlatten_RoundTrip(t *testing.T) {
	cases := [][]types.Bullet{
		{},
		{b("d1", "• a")},
		{b("d1", "• a"), b("d2", "• b")},
		{b("h1", "**A / B / 2020**")},
		{b("d0", "x"), b("h1", "**A / B / 2020**"), b("d1", "• a"), b("h2", "C / D"), b("d2", "y")},
	}

	for _, bullets := range cases {
		assert.Equal(t, ids(bullets), ids(Flatten(Partition(bullets))))
	}
}

func TestOrder_HiddenGroupsLastStable(t *testing.T) {
	bullets := []types.Bullet{
		hiddenHeader("h1", "**A / Eng / 2020**"),
		b("d1", "• a"),
		b("h2", "**B / Eng / 2019**"),
		hiddenHeader("h3", "**C / Eng / 2018**"),
		b("d3", "• c"),
		b("h4", "**D / Eng / 2017**"),
	}

	ordered := Order(Partition(bullets))

	require.Len(t, ordered, 4)
	assert.Equal(t, types.ID("h2"), ordered[0].Bullets[0].ID)
	assert.Equal(t, types.ID("h4"), ordered[1].Bullets[0].ID)
	assert.Equal(t, types.ID("h1"), ordered[2].Bullets[0].ID)
	assert.Equal(t, types.ID("h3"), ordered[3].Bullets[0].ID)
	assert.Equal(t, []types.ID{"h2", "h4", "h1", "d1", "h3", "d3"}, ids(Flatten(ordered)))
}

func TestOrder_HeaderlessGroupsNeverHidden(t *testing.T) {
	bullets := []types.Bullet{
		{ID: "d1", Text: "• orphan", Params: types.Params{Visible: types.Bool(false)}},
		b("h1", "**A / Eng / 2020**"),
	}

	assert.Equal(t, []types.ID{"d1", "h1"}, ids(Reorder(bullets)))
}

func TestOrder_HiddenDetailDoesNotHideGroup(t *testing.T) {
	bullets := []types.Bullet{
		b("h1", "**A / Eng / 2020**"),
		{ID: "d1", Text: "• hidden detail", Params: types.Params{Visible: types.Bool(false)}},
		b("h2", "**B / Eng / 2019**"),
	}

	assert.Equal(t, []types.ID{"h1", "d1", "h2"}, ids(Reorder(bullets)))
}

func TestGroupIndexOf(t *testing.T) {
	groups := Partition([]types.Bullet{
		b("h1", "**A / Eng / 2020**"),
		b("d1", "• a"),
		b("h2", "**B / Eng / 2019**"),
	})

	assert.Equal(t, 0, GroupIndexOf(groups, "d1"))
	assert.Equal(t, 1, GroupIndexOf(groups, "h2"))
	assert.Equal(t, -1, GroupIndexOf(groups, "missing"))
}
