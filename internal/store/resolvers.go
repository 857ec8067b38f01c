package store

import (
	"context"

	"bylines/internal/models"
)

// PostRecord is the post projection the resolvers need: the platform
// author id and the persisted compact assignments.
type PostRecord struct {
	ID          int64                      `json:"id"`
	Author      int64                      `json:"author"`
	Assignments []models.CompactAssignment `json:"assignments"`
}

// Fetcher is the store's window onto the server. The HTTP client
// implements it in production; tests supply fakes.
type Fetcher interface {
	Post(ctx context.Context, id int64) (PostRecord, error)
	Roles(ctx context.Context) ([]models.Role, error)
	Contributors(ctx context.Context, ids []int64) ([]models.Contributor, error)
}

// ResolveRoleAssignments loads the post's persisted assignments and
// rebuilds the expanded slots from current role and contributor state. At
// most one resolution per post runs at a time; a failure logs and leaves
// the current state untouched.
func (s *Store) ResolveRoleAssignments(ctx context.Context, postID int64) {
	if !s.begin("assignments") {
		return
	}
	defer s.end("assignments")

	record, err := s.fetcher.Post(ctx, postID)
	if err != nil {
		s.log.Error().Err(err).Int64("post", postID).Msg("failed to resolve role assignments")
		return
	}
	roles, err := s.fetcher.Roles(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to resolve roles for reconstruction")
		return
	}
	ids := contributorIDs(record.Assignments)
	var contributors []models.Contributor
	if len(ids) > 0 {
		contributors, err = s.fetcher.Contributors(ctx, ids)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to resolve contributors for reconstruction")
			return
		}
	}

	s.SetRoleAssignments(Reconstruct(record.Assignments, roles, contributors))
}

// ResolveRoles refreshes the available role list.
func (s *Store) ResolveRoles(ctx context.Context) {
	if !s.begin("roles") {
		return
	}
	defer s.end("roles")

	roles, err := s.fetcher.Roles(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to resolve roles")
		return
	}
	s.SetRoles(roles)
}

// ResolveCurrentPostAuthor loads the post's platform author as a
// contributor so a fresh post can default its first slot.
func (s *Store) ResolveCurrentPostAuthor(ctx context.Context, postID int64) {
	if !s.begin("author") {
		return
	}
	defer s.end("author")

	record, err := s.fetcher.Post(ctx, postID)
	if err != nil {
		s.log.Error().Err(err).Int64("post", postID).Msg("failed to resolve post author")
		return
	}
	if record.Author <= 0 {
		return
	}
	contributors, err := s.fetcher.Contributors(ctx, []int64{record.Author})
	if err != nil || len(contributors) == 0 {
		s.log.Error().Err(err).Int64("author", record.Author).Msg("failed to resolve post author contributor")
		return
	}
	s.SetCurrentPostAuthor(contributors[0])
}

// Reconstruct maps compact entries back to expanded slots using the
// supplied role and contributor sets. Unknown role ids become empty-role
// slots; unknown contributor ids are dropped. Slot order is preserved.
func Reconstruct(compact []models.CompactAssignment, roles []models.Role, contributors []models.Contributor) []Assignment {
	roleByID := make(map[int64]models.Role, len(roles))
	for _, r := range roles {
		roleByID[r.ID] = r
	}
	contribByID := make(map[int64]models.Contributor, len(contributors))
	for _, c := range contributors {
		contribByID[c.ID] = c
	}

	out := make([]Assignment, 0, len(compact))
	for _, entry := range compact {
		slot := emptyAssignment()
		if entry.Role != nil {
			if r, ok := roleByID[*entry.Role]; ok {
				role := r
				slot.Role = &role
			}
		}
		for _, id := range entry.Contributors {
			if c, ok := contribByID[id]; ok {
				slot.Contributors = append(slot.Contributors, c)
			}
		}
		out = append(out, slot)
	}
	return out
}

// begin marks a selector as in flight; returns false when a resolution
// for the same selector is already running.
func (s *Store) begin(selector string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if s.inflight[selector] {
		return false
	}
	s.inflight[selector] = true
	return true
}

func (s *Store) end(selector string) {
	s.inflightMu.Lock()
	delete(s.inflight, selector)
	s.inflightMu.Unlock()
}

func contributorIDs(compact []models.CompactAssignment) []int64 {
	seen := map[int64]bool{}
	var ids []int64
	for _, entry := range compact {
		for _, id := range entry.Contributors {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
