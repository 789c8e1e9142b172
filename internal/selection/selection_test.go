package selection

import (
	"testing"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allIDs = []string{"A", "B", "C"}

func TestEffectiveSet(t *testing.T) {
	tests := []struct {
		name string
		sel  models.Selection
		want []string
	}{
		{"nil selection is all", nil, allIDs},
		{"empty selection is all", models.Selection{}, allIDs},
		{"all false is all", models.Selection{"A": false, "B": false}, allIDs},
		{"full selection is all", models.SelectionOf("A", "B", "C"), allIDs},
		{"partial selection", models.SelectionOf("A", "B"), []string{"A", "B"}},
		{"single", models.SelectionOf("C"), []string{"C"}},
		{"false entries ignored", models.Selection{"A": true, "B": false}, []string{"A"}},
		{"catalog order wins", models.SelectionOf("C", "A"), []string{"A", "C"}},
		{"unknown ids ignored", models.SelectionOf("A", "Z"), []string{"A"}},
		{"only unknown ids is none", models.SelectionOf("Z", "Y"), allIDs},
		{"unknown ids do not block all", models.SelectionOf("A", "B", "C", "Z"), allIDs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveSet(tt.sel, allIDs)
			assert.Equal(t, tt.want, got.IDs())
			for _, id := range got.IDs() {
				assert.Contains(t, allIDs, id)
			}
		})
	}
}

func TestEffectiveSet_NoneEqualsAll(t *testing.T) {
	none := EffectiveSet(models.Selection{}, allIDs)
	all := EffectiveSet(models.SelectionOf(allIDs...), allIDs)
	assert.True(t, none.Equal(all))
}

func TestEffectiveSet_EmptyCatalog(t *testing.T) {
	got := EffectiveSet(models.SelectionOf("A"), nil)
	assert.Equal(t, 0, got.Len())
}

func TestIsIndexMode(t *testing.T) {
	assert.True(t, IsIndexMode(nil, allIDs))
	assert.True(t, IsIndexMode(models.SelectionOf("A", "B", "C"), allIDs))
	assert.False(t, IsIndexMode(models.SelectionOf("A"), allIDs))
	assert.True(t, IsIndexMode(models.SelectionOf("Z"), allIDs))
}

func TestSet_Filter(t *testing.T) {
	datasets := []models.Dataset{{ID: "A"}, {ID: "B"}, {ID: "C"}}
	set := EffectiveSet(models.SelectionOf("C", "A"), allIDs)
	got := set.Filter(datasets)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, "C", got[1].ID)
	assert.True(t, set.Contains("C"))
	assert.False(t, set.Contains("B"))
}

func TestSet_IDsIsACopy(t *testing.T) {
	set := EffectiveSet(nil, allIDs)
	ids := set.IDs()
	ids[0] = "mutated"
	assert.Equal(t, "A", set.IDs()[0])
}

func TestParse(t *testing.T) {
	sel := Parse([]string{"A", "", "C"})
	assert.Equal(t, models.SelectionOf("A", "C"), sel)
}
