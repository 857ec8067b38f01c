package store

import (
	"testing"

	"bylines/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return New(nil, zerolog.Nop())
}

func role(id int64, name string) models.Role {
	return models.Role{ID: id, Name: name, Nicename: name}
}

func contributor(id int64, name string) models.Contributor {
	return models.Contributor{ID: id, Name: name, Nicename: name}
}

func TestInitialStateHasOneEmptySlot(t *testing.T) {
	s := newTestStore()
	st := s.State()
	require.Len(t, st.RoleAssignments, 1)
	assert.Nil(t, st.RoleAssignments[0].Role)
	assert.Empty(t, st.RoleAssignments[0].Contributors)
}

func TestSetRoleAssignmentsIgnoresEmptyList(t *testing.T) {
	s := newTestStore()
	r := role(2, "editor")
	s.SetRoleAssignments([]Assignment{{Role: &r}})

	s.SetRoleAssignments(nil)
	s.SetRoleAssignments([]Assignment{})

	st := s.State()
	require.Len(t, st.RoleAssignments, 1)
	require.NotNil(t, st.RoleAssignments[0].Role)
	assert.Equal(t, int64(2), st.RoleAssignments[0].Role.ID)
}

func TestAddRoleAssignmentTogglesOff(t *testing.T) {
	s := newTestStore()
	r := role(2, "editor")

	s.AddRoleAssignment(r, 0)
	st := s.State()
	require.NotNil(t, st.RoleAssignments[0].Role)

	// Selecting the same role again clears the slot.
	s.AddRoleAssignment(r, 0)
	st = s.State()
	assert.Nil(t, st.RoleAssignments[0].Role)
}

func TestAddRoleAssignmentNeverDuplicatesRole(t *testing.T) {
	s := newTestStore()
	r := role(2, "editor")

	s.AddRoleAssignment(r, 0)
	s.AddEmptyRoleAssignment()

	// The role is already used in slot 0, so slot 1 is cleared instead.
	s.AddRoleAssignment(r, 1)
	st := s.State()
	require.NotNil(t, st.RoleAssignments[0].Role)
	assert.Nil(t, st.RoleAssignments[1].Role)
}

func TestAddRoleAssignmentOutOfRangeIsNoop(t *testing.T) {
	s := newTestStore()
	s.AddRoleAssignment(role(2, "editor"), 5)
	s.AddRoleAssignment(role(2, "editor"), -1)
	st := s.State()
	require.Len(t, st.RoleAssignments, 1)
	assert.Nil(t, st.RoleAssignments[0].Role)
}

func TestRemoveRoleAssignmentProtectsSlotZero(t *testing.T) {
	s := newTestStore()
	s.AddEmptyRoleAssignment()
	s.AddEmptyRoleAssignment()

	s.RemoveRoleAssignment(0)
	assert.Len(t, s.State().RoleAssignments, 3, "slot 0 is permanent")

	s.RemoveRoleAssignment(2)
	assert.Len(t, s.State().RoleAssignments, 2)

	s.RemoveRoleAssignment(9)
	assert.Len(t, s.State().RoleAssignments, 2)
}

func TestAddContributorDeduplicates(t *testing.T) {
	s := newTestStore()
	c := contributor(4, "jane")

	s.AddContributor(c, 0)
	s.AddContributor(c, 0)
	st := s.State()
	assert.Len(t, st.RoleAssignments[0].Contributors, 1)

	s.AddContributor(contributor(5, "john"), 0)
	st = s.State()
	assert.Len(t, st.RoleAssignments[0].Contributors, 2)
}

func TestRemoveContributorIsGlobal(t *testing.T) {
	s := newTestStore()
	jane := contributor(4, "jane")
	john := contributor(5, "john")

	s.AddContributor(jane, 0)
	s.AddContributor(john, 0)
	s.AddEmptyRoleAssignment()
	s.AddContributor(jane, 1)

	s.RemoveContributor(4)
	st := s.State()
	require.Len(t, st.RoleAssignments[0].Contributors, 1)
	assert.Equal(t, int64(5), st.RoleAssignments[0].Contributors[0].ID)
	assert.Empty(t, st.RoleAssignments[1].Contributors)
}

func TestSubscriberReceivesCompactProjection(t *testing.T) {
	s := newTestStore()

	var gotCompact []models.CompactAssignment
	var gotIDs string
	s.Subscribe(func(compact []models.CompactAssignment, contributorIDs string) {
		gotCompact = compact
		gotIDs = contributorIDs
	})

	r := role(2, "editor")
	s.AddRoleAssignment(r, 0)
	s.AddContributor(contributor(4, "jane"), 0)
	s.AddEmptyRoleAssignment()
	s.AddContributor(contributor(7, "john"), 1)
	s.AddContributor(contributor(4, "jane"), 1)

	require.Len(t, gotCompact, 2)
	require.NotNil(t, gotCompact[0].Role)
	assert.Equal(t, int64(2), *gotCompact[0].Role)
	assert.Equal(t, []int64{4}, gotCompact[0].Contributors)
	assert.Nil(t, gotCompact[1].Role)
	assert.Equal(t, []int64{7, 4}, gotCompact[1].Contributors)
	assert.Equal(t, "4,7", gotIDs, "index is the de-duplicated union")
}

func TestStateReturnsACopy(t *testing.T) {
	s := newTestStore()
	s.AddContributor(contributor(4, "jane"), 0)

	st := s.State()
	st.RoleAssignments[0].Contributors[0].Name = "mutated"

	again := s.State()
	assert.Equal(t, "jane", again.RoleAssignments[0].Contributors[0].Name)
}
