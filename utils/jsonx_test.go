package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEstimate struct {
	MealName string   `json:"meal_name"`
	Calories float64  `json:"calories"`
	Caveats  []string `json:"caveats"`
}

func TestExtractJSONObject(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		out, err := ExtractJSONObject(`{"a":1}`)
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, out)
	})

	t.Run("fenced block", func(t *testing.T) {
		raw := "Here you go:\n```json\n{\"a\": 1}\n```\nHope that helps!"
		out, err := ExtractJSONObject(raw)
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, out)
	})

	t.Run("fence without language tag", func(t *testing.T) {
		out, err := ExtractJSONObject("```\n{\"a\": 1}\n```")
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, out)
	})

	t.Run("prose around the object", func(t *testing.T) {
		out, err := ExtractJSONObject(`Sure! {"a": {"b": 2}} Let me know.`)
		require.NoError(t, err)
		assert.Equal(t, `{"a": {"b": 2}}`, out)
	})

	t.Run("no object at all", func(t *testing.T) {
		_, err := ExtractJSONObject("I could not analyze this image.")
		assert.ErrorIs(t, err, ErrNoJSON)
	})
}

func TestRepairJSON(t *testing.T) {
	t.Run("trailing commas", func(t *testing.T) {
		assert.Equal(t, `{"a":[1,2]}`, RepairJSON(`{"a":[1,2,],}`))
	})

	t.Run("smart quotes", func(t *testing.T) {
		assert.Equal(t, `{"name": "toast"}`, RepairJSON("{“name”: “toast”}"))
	})

	t.Run("NaN and Infinity", func(t *testing.T) {
		assert.Equal(t, `{"a": 0, "b": 0}`, RepairJSON(`{"a": NaN, "b": -Infinity}`))
	})

	t.Run("raw newline inside a string", func(t *testing.T) {
		assert.Equal(t, `{"note": "line one\nline two"}`, RepairJSON("{\"note\": \"line one\nline two\"}"))
	})
}

func TestDecodeModelJSON(t *testing.T) {
	t.Run("clean output", func(t *testing.T) {
		var est testEstimate
		err := DecodeModelJSON(`{"meal_name":"oatmeal","calories":310}`, &est)
		require.NoError(t, err)
		assert.Equal(t, "oatmeal", est.MealName)
		assert.Equal(t, 310.0, est.Calories)
	})

	t.Run("fenced and damaged output", func(t *testing.T) {
		raw := "```json\n{\"meal_name\": “burger”, \"calories\": 650, \"caveats\": [\"estimate\",],}\n```"
		var est testEstimate
		err := DecodeModelJSON(raw, &est)
		require.NoError(t, err)
		assert.Equal(t, "burger", est.MealName)
		assert.Equal(t, []string{"estimate"}, est.Caveats)
	})

	t.Run("unrepairable output", func(t *testing.T) {
		var est testEstimate
		err := DecodeModelJSON(`{"meal_name": }`, &est)
		var malformed *MalformedJSONError
		require.ErrorAs(t, err, &malformed)
		assert.Contains(t, malformed.Snippet, "meal_name")
	})

	t.Run("no json", func(t *testing.T) {
		var est testEstimate
		assert.ErrorIs(t, DecodeModelJSON("no structured data here", &est), ErrNoJSON)
	})

	t.Run("snippet stays valid UTF-8", func(t *testing.T) {
		// Long multi-byte content guarantees the cut lands inside a rune
		// unless truncation respects boundaries.
		raw := `{"meal_name": "` + strings.Repeat("é", 120) + `}`
		var est testEstimate
		err := DecodeModelJSON(raw, &est)
		var malformed *MalformedJSONError
		require.ErrorAs(t, err, &malformed)
		assert.True(t, utf8.ValidString(malformed.Snippet))
		assert.LessOrEqual(t, len(malformed.Snippet), 160+len("…"))
	})
}
