package services

import (
	"encoding/json"
	"testing"

	"bylines/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAssignmentService(t *testing.T) (*AssignmentService, *gorm.DB) {
	t.Helper()
	gdb := testDB(t)
	settings := NewSettingsService(gdb)
	require.NoError(t, settings.Load())
	guests := NewGuestService(gdb)
	users := NewUserDirectory(gdb, guests)
	media := NewMediaService(gdb)
	roles := NewRoleService(gdb, settings)
	contributors := NewContributorService(guests, users, media, zerolog.Nop())
	return NewAssignmentService(gdb, roles, contributors, media, settings, zerolog.Nop()), gdb
}

func roleID(id int64) *int64 { return &id }

func TestSanitizeRejectsNonArrayInput(t *testing.T) {
	svc, _ := newAssignmentService(t)

	assert.Empty(t, svc.Sanitize([]byte(`{"role":1}`)))
	assert.Empty(t, svc.Sanitize([]byte(`"nope"`)))
	assert.Empty(t, svc.Sanitize([]byte(`not json`)))
}

func TestSanitizeDropsEntriesMissingKeys(t *testing.T) {
	svc, _ := newAssignmentService(t)

	out := svc.Sanitize([]byte(`[
		{"role": 2, "contributors": [4, 5]},
		{"role": 2},
		{"contributors": [4]},
		42
	]`))
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), *out[0].Role)
	assert.Equal(t, []int64{4, 5}, out[0].Contributors)
}

func TestSanitizeNullsBadRoleKeepingIndex(t *testing.T) {
	svc, _ := newAssignmentService(t)

	out := svc.Sanitize([]byte(`[
		{"role": 2, "contributors": [4]},
		{"role": "bogus", "contributors": [4, 5]},
		{"role": 3, "contributors": [6]}
	]`))
	require.Len(t, out, 3, "a bad role must not shift later slots")

	assert.Equal(t, int64(2), *out[0].Role)
	assert.Nil(t, out[1].Role)
	assert.Empty(t, out[1].Contributors)
	assert.Equal(t, int64(3), *out[2].Role)
	assert.Equal(t, []int64{6}, out[2].Contributors)
}

func TestSanitizeDropsNonPositiveContributorIDs(t *testing.T) {
	svc, _ := newAssignmentService(t)

	out := svc.Sanitize([]byte(`[{"role": 1, "contributors": [3, 0, -7]}]`))
	require.Len(t, out, 1)
	assert.Equal(t, []int64{3}, out[0].Contributors)
}

func TestSanitizeIsIdempotent(t *testing.T) {
	svc, _ := newAssignmentService(t)

	inputs := [][]byte{
		[]byte(`[{"role": 2, "contributors": [4, 5]}, {"role": null, "contributors": []}]`),
		[]byte(`[{"role": "x", "contributors": "y"}]`),
		[]byte(`[]`),
		[]byte(`garbage`),
	}
	for _, raw := range inputs {
		once := svc.Sanitize(raw)
		encoded, err := json.Marshal(once)
		require.NoError(t, err)
		assert.Equal(t, once, svc.Sanitize(encoded))
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	svc, gdb := newAssignmentService(t)

	compact := []models.CompactAssignment{
		{Role: roleID(1), Contributors: []int64{2, 3}},
		{Role: nil, Contributors: []int64{}},
	}
	require.NoError(t, svc.Save(10, compact))

	loaded, err := svc.Load(10)
	require.NoError(t, err)
	assert.Equal(t, compact, loaded)

	// The derived index meta is written in the same transaction.
	var meta models.PostMeta
	require.NoError(t, gdb.First(&meta, "post_id = ? AND key = ?", int64(10), models.MetaContributorIDs).Error)
	assert.Equal(t, "2,3", meta.Value)
}

func TestSaveReplacesExistingMeta(t *testing.T) {
	svc, gdb := newAssignmentService(t)

	require.NoError(t, svc.Save(10, []models.CompactAssignment{{Role: roleID(1), Contributors: []int64{2}}}))
	require.NoError(t, svc.Save(10, []models.CompactAssignment{{Role: roleID(1), Contributors: []int64{7, 8}}}))

	var count int64
	require.NoError(t, gdb.Model(&models.PostMeta{}).Where("post_id = ?", int64(10)).Count(&count).Error)
	assert.Equal(t, int64(2), count, "one row per meta key, updated in place")

	loaded, err := svc.Load(10)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, []int64{7, 8}, loaded[0].Contributors)
}

func TestPostsByContributorMatchesWholeIDsOnly(t *testing.T) {
	svc, _ := newAssignmentService(t)

	require.NoError(t, svc.Save(1, []models.CompactAssignment{{Role: roleID(1), Contributors: []int64{2}}}))
	require.NoError(t, svc.Save(2, []models.CompactAssignment{{Role: roleID(1), Contributors: []int64{2, 5}}}))
	require.NoError(t, svc.Save(3, []models.CompactAssignment{{Role: roleID(1), Contributors: []int64{5, 2, 9}}}))
	require.NoError(t, svc.Save(4, []models.CompactAssignment{{Role: roleID(1), Contributors: []int64{22}}}))

	posts, err := svc.PostsByContributor(2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, posts, "22 must not match contributor 2")

	posts, err = svc.PostsByContributor(9)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, posts)

	posts, err = svc.PostsByContributor(404)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestContributorUnionDeduplicatesInOrder(t *testing.T) {
	union := ContributorUnion([]models.CompactAssignment{
		{Role: roleID(1), Contributors: []int64{3, 5}},
		{Role: roleID(2), Contributors: []int64{5, 7, 3}},
	})
	assert.Equal(t, []int64{3, 5, 7}, union)
}

func TestExpandResolvesRolesAndContributors(t *testing.T) {
	svc, gdb := newAssignmentService(t)

	require.NoError(t, gdb.Create(&models.Role{
		ID: 1, Name: "Author", Nicename: "author", Prefix: "Written by", AvatarVisibility: true,
	}).Error)
	require.NoError(t, gdb.Create(&models.Guest{
		ID: 2, Name: "Greta Guest", Nicename: "greta-guest", Description: "Writes **things**",
	}).Error)

	require.NoError(t, svc.Save(10, []models.CompactAssignment{
		{Role: roleID(1), Contributors: []int64{2}},
		{Role: roleID(99), Contributors: []int64{}},
	}))

	expanded, err := svc.Expand(10)
	require.NoError(t, err)
	require.Len(t, expanded, 2)

	require.NotNil(t, expanded[0].Role)
	assert.Equal(t, "Written by", expanded[0].Role.Prefix)
	require.Len(t, expanded[0].Contributors, 1)
	assert.Equal(t, "Greta Guest", expanded[0].Contributors[0].Name)
	assert.Contains(t, expanded[0].Contributors[0].Description, "<strong>things</strong>")

	// Unknown role ids expand to an empty slot, not an error.
	assert.Nil(t, expanded[1].Role)
	assert.Empty(t, expanded[1].Contributors)
}

func TestEnsureDefaultAssignmentSeedsFirstSlot(t *testing.T) {
	svc, gdb := newAssignmentService(t)

	require.NoError(t, gdb.Create(&models.Role{
		ID: 1, Name: "Author", Nicename: "author", Prefix: "Written by",
	}).Error)
	require.NoError(t, gdb.Create(&models.Setting{Key: SettingDefaultRole, Value: "1"}).Error)
	require.NoError(t, gdb.Create(&models.User{
		ID: 6, Name: "Ada", Nicename: "ada", Email: "ada@example.com", Password: "x",
	}).Error)
	require.NoError(t, gdb.Create(&models.Post{ID: 10, Title: "Hello", AuthorID: 6}).Error)

	require.NoError(t, svc.EnsureDefaultAssignment(10))

	loaded, err := svc.Load(10)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, int64(1), *loaded[0].Role)
	assert.Equal(t, []int64{6}, loaded[0].Contributors)

	// Existing data is never overwritten.
	require.NoError(t, svc.Save(10, []models.CompactAssignment{{Role: roleID(1), Contributors: []int64{9}}}))
	require.NoError(t, svc.EnsureDefaultAssignment(10))
	loaded, err = svc.Load(10)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, loaded[0].Contributors)
}

func TestEnsureDefaultAssignmentToleratesMissingConfig(t *testing.T) {
	svc, gdb := newAssignmentService(t)
	require.NoError(t, gdb.Create(&models.Post{ID: 10, Title: "Hello", AuthorID: 6}).Error)

	// No default-role setting: a configuration fault, logged but not fatal.
	require.NoError(t, svc.EnsureDefaultAssignment(10))

	loaded, err := svc.Load(10)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestEnsureDefaultAssignmentSkipsUnknownPost(t *testing.T) {
	svc, gdb := newAssignmentService(t)

	require.NoError(t, gdb.Create(&models.Role{
		ID: 1, Name: "Author", Nicename: "author", Prefix: "Written by",
	}).Error)
	require.NoError(t, gdb.Create(&models.Setting{Key: SettingDefaultRole, Value: "1"}).Error)

	require.NoError(t, svc.EnsureDefaultAssignment(404))

	loaded, err := svc.Load(404)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
