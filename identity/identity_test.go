package identity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/s8rbridge/errors"
)

func TestFromValues_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		reason  string
		lineage []string
	}{
		{"empty lineage", "tube-1", "sensor intake", []string{}},
		{"single entry", "tube-2", "filter", []string{"adam"}},
		{"deep lineage", "tube-3", "", []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cid, err := FromValues(tt.id, tt.reason, tt.lineage)
			require.NoError(t, err)

			assert.Equal(t, tt.id, cid.ID())
			assert.Equal(t, tt.reason, cid.Reason())
			assert.Equal(t, tt.lineage, cid.Lineage())
		})
	}
}

func TestFromValues_RejectsEmptyID(t *testing.T) {
	_, err := FromValues("  ", "reason", nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestFromValues_CopiesLineage(t *testing.T) {
	lineage := []string{"a", "b"}
	cid := MustFromValues("id", "r", lineage)

	lineage[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, cid.Lineage())

	got := cid.Lineage()
	got[1] = "mutated"
	assert.Equal(t, []string{"a", "b"}, cid.Lineage())
}

func TestNew(t *testing.T) {
	cid, err := New("root component")
	require.NoError(t, err)

	assert.NotEmpty(t, cid.ID())
	assert.Equal(t, "root component", cid.Reason())
	assert.Empty(t, cid.Lineage())
	_, hasParent := cid.ParentID()
	assert.False(t, hasParent)
	assert.False(t, cid.CreatedAt().IsZero())

	_, err = New("")
	assert.True(t, errors.IsInvalid(err))
}

func TestNew_ChildInheritsLineage(t *testing.T) {
	parent := MustFromValues("parent", "p", []string{"adam"})

	child, err := New("child", parent)
	require.NoError(t, err)

	parentID, ok := child.ParentID()
	require.True(t, ok)
	assert.Equal(t, "parent", parentID)
	assert.Equal(t, []string{"adam", "parent"}, child.Lineage())
	assert.Equal(t, []string{"adam"}, parent.Lineage())
}

func TestWithLineage_OnlyGrows(t *testing.T) {
	base := MustFromValues("id", "r", []string{"a"})

	next := base.WithLineage("b")
	again := next.WithLineage("c")

	assert.Equal(t, []string{"a"}, base.Lineage())
	assert.Equal(t, []string{"a", "b"}, next.Lineage())
	assert.Equal(t, []string{"a", "b", "c"}, again.Lineage())
	assert.Equal(t, base.ID(), again.ID())
	assert.True(t, base.Equal(again))
}

func TestShortIDAndString(t *testing.T) {
	cid := MustFromValues("0123456789abcdef", "r", nil)
	assert.Equal(t, "01234567", cid.ShortID())
	assert.Contains(t, cid.String(), "0123456789abcdef")

	short := MustFromValues("abc", "r", nil)
	assert.Equal(t, "abc", short.ShortID())
	assert.True(t, ComponentID{}.IsZero())
}

func TestJSON(t *testing.T) {
	cid := MustFromValues("id-1", "reason", []string{"x"}).WithParent("p-1")

	data, err := json.Marshal(cid)
	require.NoError(t, err)

	var decoded ComponentID
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "id-1", decoded.ID())
	assert.Equal(t, "reason", decoded.Reason())
	assert.Equal(t, []string{"x"}, decoded.Lineage())
	parent, ok := decoded.ParentID()
	assert.True(t, ok)
	assert.Equal(t, "p-1", parent)

	err = json.Unmarshal([]byte(`{"reason":"no id"}`), &decoded)
	assert.True(t, errors.IsInvalid(err))
}
