package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoodUnmarshalJSON(t *testing.T) {
	t.Run("Integer", func(t *testing.T) {
		var m Mood
		require.NoError(t, json.Unmarshal([]byte(`4`), &m))
		assert.Equal(t, Mood(4), m)
	})

	t.Run("Numeric String", func(t *testing.T) {
		var m Mood
		require.NoError(t, json.Unmarshal([]byte(`" 2 "`), &m))
		assert.Equal(t, Mood(2), m)
	})

	t.Run("Null Leaves Pointer Nil", func(t *testing.T) {
		var req struct {
			Mood *Mood `json:"mood"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"mood":null}`), &req))
		assert.Nil(t, req.Mood)
	})

	t.Run("Label Rejected", func(t *testing.T) {
		var m Mood
		assert.Error(t, json.Unmarshal([]byte(`"Happy"`), &m))
	})

	t.Run("Fraction Rejected", func(t *testing.T) {
		var m Mood
		assert.Error(t, json.Unmarshal([]byte(`3.5`), &m))
	})
}

func TestMoodRange(t *testing.T) {
	assert.False(t, Mood(0).Valid())
	assert.True(t, Mood(1).Valid())
	assert.True(t, Mood(5).Valid())
	assert.False(t, Mood(6).Valid())

	assert.Equal(t, "Happy", Mood(4).Label())
	assert.Empty(t, Mood(9).Label())
	assert.Equal(t, []Mood{1, 2, 3, 4, 5}, Moods())
}
