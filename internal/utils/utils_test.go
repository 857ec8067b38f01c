package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Jane Doe":         "jane-doe",
		"  Jane   Doe  ":   "jane-doe",
		"jane_doe":         "jane-doe",
		"Jane-Doe":         "jane-doe",
		"Jane Doe Jr.":     "jane-doe-jr",
		"!!!":              "",
		"":                 "",
		"Trailing Space ":  "trailing-space",
		"Number 42 Street": "number-42-street",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestParseIDList(t *testing.T) {
	assert.Equal(t, []int64{3, 17, 42}, ParseIDList("3,17,42"))
	assert.Equal(t, []int64{3, 42}, ParseIDList(" 3, x, 42,"))
	assert.Empty(t, ParseIDList(""))
	assert.Empty(t, ParseIDList(",,,"))
}

func TestJoinIDListRoundTrip(t *testing.T) {
	ids := []int64{1, 22, 333}
	assert.Equal(t, "1,22,333", JoinIDList(ids))
	assert.Equal(t, ids, ParseIDList(JoinIDList(ids)))
	assert.Equal(t, "", JoinIDList(nil))
}

func TestSanitizeHTMLStripsScripts(t *testing.T) {
	out := SanitizeHTML(`Hello <b>world</b><script>alert(1)</script>`)
	assert.Contains(t, out, "<b>world</b>")
	assert.NotContains(t, out, "script")
}

func TestRenderBio(t *testing.T) {
	out := RenderBio("Writes about **security** and <script>alert(1)</script>")
	assert.Contains(t, out, "<strong>security</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestCacheExpiry(t *testing.T) {
	cache, err := NewCache(8)
	require.NoError(t, err)

	cache.Set("k", "v", time.Minute)
	assert.Equal(t, "v", cache.Get("k"))

	cache.Set("gone", "v", -time.Second)
	assert.Nil(t, cache.Get("gone"))

	cache.Purge()
	assert.Nil(t, cache.Get("k"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword("hunter2", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
