// Package store is the editor-side state container for a post's byline
// assignments. It mirrors the persistence layer: a synchronous reducer owns
// the expanded assignment list, resolvers pull server state through an
// injected Fetcher, and every state change pushes the compact projection to
// a subscriber for the next post save. The server-side sanitizer remains
// the authoritative write path; the projection here is advisory only.
package store

import (
	"sync"

	"bylines/internal/models"
	"bylines/internal/utils"

	"github.com/rs/zerolog"
)

// Assignment is one editor slot: a role and the contributors filed under
// it. Unlike the persisted form it carries full objects.
type Assignment struct {
	Role         *models.Role
	Contributors []models.Contributor
}

// State is the full store state. The initial state has exactly one empty
// assignment slot so the editor always renders at least one row.
type State struct {
	RoleAssignments []Assignment
	Roles           []models.Role
	Author          *models.Contributor
}

// Subscriber receives the compact projection and the flattened
// contributor-id string after every state change.
type Subscriber func(compact []models.CompactAssignment, contributorIDs string)

// Store holds state behind a single lock; reducer transitions are
// synchronous and resolvers apply their results on arrival. At most one
// resolver per selector is in flight at a time.
type Store struct {
	mu         sync.Mutex
	state      State
	subscriber Subscriber

	inflightMu sync.Mutex
	inflight   map[string]bool

	fetcher Fetcher
	log     zerolog.Logger
}

func New(fetcher Fetcher, log zerolog.Logger) *Store {
	return &Store{
		state:    initialState(),
		inflight: map[string]bool{},
		fetcher:  fetcher,
		log:      log.With().Str("component", "assignment-store").Logger(),
	}
}

func initialState() State {
	return State{
		RoleAssignments: []Assignment{emptyAssignment()},
		Roles:           []models.Role{},
	}
}

func emptyAssignment() Assignment {
	return Assignment{Contributors: []models.Contributor{}}
}

// Subscribe registers the write-back hook. Only one subscriber is needed:
// the post-save queue.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	s.subscriber = fn
	s.mu.Unlock()
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

// SetRoleAssignments replaces the assignment list. An empty list is
// ignored: a transient empty fetch must not clobber good state.
func (s *Store) SetRoleAssignments(list []Assignment) {
	if len(list) == 0 {
		return
	}
	s.mu.Lock()
	s.state.RoleAssignments = copyAssignments(list)
	s.notifyLocked()
	s.mu.Unlock()
}

// SetRoles replaces the available role list.
func (s *Store) SetRoles(roles []models.Role) {
	if roles == nil {
		return
	}
	s.mu.Lock()
	s.state.Roles = append([]models.Role(nil), roles...)
	s.notifyLocked()
	s.mu.Unlock()
}

// AddEmptyRoleAssignment appends one more empty slot.
func (s *Store) AddEmptyRoleAssignment() {
	s.mu.Lock()
	s.state.RoleAssignments = append(s.state.RoleAssignments, emptyAssignment())
	s.notifyLocked()
	s.mu.Unlock()
}

// AddRoleAssignment sets role on the slot at index. Selecting a role id
// that any slot already uses clears the target slot instead: re-selecting
// the current role toggles it off, and a role can never appear twice in
// the sequence.
func (s *Store) AddRoleAssignment(role models.Role, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.state.RoleAssignments) {
		return
	}

	used := false
	for _, assignment := range s.state.RoleAssignments {
		if assignment.Role != nil && assignment.Role.ID == role.ID {
			used = true
			break
		}
	}

	if used {
		s.state.RoleAssignments[index].Role = nil
	} else {
		r := role
		s.state.RoleAssignments[index].Role = &r
	}
	s.notifyLocked()
}

// RemoveRoleAssignment deletes the slot at index. Slot 0 is permanent; the
// call is a no-op there.
func (s *Store) RemoveRoleAssignment(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index <= 0 || index >= len(s.state.RoleAssignments) {
		return
	}
	s.state.RoleAssignments = append(
		s.state.RoleAssignments[:index],
		s.state.RoleAssignments[index+1:]...,
	)
	s.notifyLocked()
}

// AddContributor appends contributor to the slot at index, de-duplicated
// by full-object equality.
func (s *Store) AddContributor(contributor models.Contributor, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.state.RoleAssignments) {
		return
	}
	for _, existing := range s.state.RoleAssignments[index].Contributors {
		if existing == contributor {
			return
		}
	}
	s.state.RoleAssignments[index].Contributors = append(
		s.state.RoleAssignments[index].Contributors, contributor,
	)
	s.notifyLocked()
}

// RemoveContributor removes the contributor from every slot. Removal is
// global by id: the gesture means "this person is off the post", not "off
// this one role". Ids are unambiguous because users and guests share one
// id space.
func (s *Store) RemoveContributor(contributorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for i := range s.state.RoleAssignments {
		kept := s.state.RoleAssignments[i].Contributors[:0]
		for _, c := range s.state.RoleAssignments[i].Contributors {
			if c.ID == contributorID {
				changed = true
				continue
			}
			kept = append(kept, c)
		}
		s.state.RoleAssignments[i].Contributors = kept
	}
	if changed {
		s.notifyLocked()
	}
}

// SetCurrentPostAuthor caches the platform post author used for
// defaulting.
func (s *Store) SetCurrentPostAuthor(contributor models.Contributor) {
	s.mu.Lock()
	c := contributor
	s.state.Author = &c
	s.notifyLocked()
	s.mu.Unlock()
}

// Compact projects the expanded state down to the persisted form.
func Compact(assignments []Assignment) []models.CompactAssignment {
	compact := make([]models.CompactAssignment, 0, len(assignments))
	for _, assignment := range assignments {
		entry := models.CompactAssignment{Contributors: []int64{}}
		if assignment.Role != nil {
			id := assignment.Role.ID
			entry.Role = &id
		}
		for _, c := range assignment.Contributors {
			entry.Contributors = append(entry.Contributors, c.ID)
		}
		compact = append(compact, entry)
	}
	return compact
}

// notifyLocked pushes the compact projection to the subscriber. Empty
// projections are not pushed. Called with s.mu held.
func (s *Store) notifyLocked() {
	if s.subscriber == nil {
		return
	}
	compact := Compact(s.state.RoleAssignments)
	if len(compact) == 0 {
		return
	}
	ids := make([]int64, 0)
	seen := map[int64]bool{}
	for _, entry := range compact {
		for _, id := range entry.Contributors {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	s.subscriber(compact, utils.JoinIDList(ids))
}

func copyState(st State) State {
	out := State{
		RoleAssignments: copyAssignments(st.RoleAssignments),
		Roles:           append([]models.Role(nil), st.Roles...),
	}
	if st.Author != nil {
		a := *st.Author
		out.Author = &a
	}
	return out
}

func copyAssignments(in []Assignment) []Assignment {
	out := make([]Assignment, len(in))
	for i, assignment := range in {
		out[i] = Assignment{
			Contributors: append([]models.Contributor(nil), assignment.Contributors...),
		}
		if assignment.Role != nil {
			r := *assignment.Role
			out[i].Role = &r
		}
	}
	return out
}
