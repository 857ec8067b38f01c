package services

import (
	"sort"

	"bylines/internal/models"

	"github.com/rs/zerolog"
)

// userAvatarSize is the fixed variant used for platform account avatars.
const userAvatarSize = 150

// ContributorFilter selects contributors across both identity sources.
type ContributorFilter struct {
	Include  []int64
	Exclude  []int64
	Search   string
	Nicename string
	Paged    int
	PerPage  int
	Order    string // asc or desc by id; default asc
}

// ContributorService merges platform users and guests into one logical
// contributor collection. Two physically distinct tables are presented as
// one entity type without a join; the allocator and the cross-source
// nicename check guarantee the identities never collide.
type ContributorService struct {
	guests *GuestService
	users  *UserDirectory
	media  *MediaService
	log    zerolog.Logger
}

func NewContributorService(guests *GuestService, users *UserDirectory, media *MediaService, log zerolog.Logger) *ContributorService {
	return &ContributorService{
		guests: guests,
		users:  users,
		media:  media,
		log:    log.With().Str("service", "contributors").Logger(),
	}
}

// Query returns the unified contributor list for f.
//
// An explicit Include list is partitioned into user ids and guest ids
// before each source is queried; without Include both sources see the same
// search/pagination parameters. A failing sub-source degrades to an empty
// partial result instead of aborting the merge. Results are ordered by one
// deterministic key, id, across both sources.
func (s *ContributorService) Query(f ContributorFilter) []models.Contributor {
	userIDs, guestIDs := s.partition(f.Include)

	var results []models.Contributor

	if len(f.Include) == 0 || len(userIDs) > 0 {
		users, err := s.users.Query(UserFilter{
			Include:  userIDs,
			Exclude:  f.Exclude,
			Search:   f.Search,
			Nicename: f.Nicename,
			Paged:    f.Paged,
			PerPage:  f.PerPage,
			Order:    f.Order,
		})
		if err != nil {
			s.log.Warn().Err(err).Msg("user source failed, degrading to partial result")
		}
		for i := range users {
			results = append(results, s.fromUser(&users[i]))
		}
	}

	if len(f.Include) == 0 || len(guestIDs) > 0 {
		guests, err := s.guests.Query(GuestFilter{
			Include:  guestIDs,
			Exclude:  f.Exclude,
			Search:   f.Search,
			Nicename: f.Nicename,
			Paged:    f.Paged,
			PerPage:  f.PerPage,
			Order:    f.Order,
		})
		if err != nil {
			s.log.Warn().Err(err).Msg("guest source failed, degrading to partial result")
		}
		for i := range guests {
			results = append(results, s.fromGuest(&guests[i]))
		}
	}

	desc := f.Order == "desc" || f.Order == "DESC"
	sort.SliceStable(results, func(i, j int) bool {
		if desc {
			return results[i].ID > results[j].ID
		}
		return results[i].ID < results[j].ID
	})

	if len(f.Include) == 0 && f.PerPage > 0 && len(results) > f.PerPage {
		results = results[:f.PerPage]
	}
	return results
}

// ByNicename resolves a single contributor from either source.
func (s *ContributorService) ByNicename(nicename string) *models.Contributor {
	contributors := s.Query(ContributorFilter{Nicename: nicename})
	if len(contributors) == 0 {
		return nil
	}
	return &contributors[0]
}

// partition splits a mixed id list into ids resolvable to platform
// accounts and the remainder, which is treated as guest ids.
func (s *ContributorService) partition(include []int64) (userIDs, guestIDs []int64) {
	for _, id := range include {
		isUser, err := s.users.Exists(id)
		if err != nil {
			s.log.Warn().Err(err).Int64("id", id).Msg("partition lookup failed, treating id as guest")
		}
		if isUser {
			userIDs = append(userIDs, id)
		} else {
			guestIDs = append(guestIDs, id)
		}
	}
	return userIDs, guestIDs
}

func (s *ContributorService) fromUser(u *models.User) models.Contributor {
	return models.Contributor{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Description: u.Description,
		Nicename:    u.Nicename,
		URL:         profileURL(u.Nicename),
		Avatar:      s.media.Resolve(u.Avatar, userAvatarSize),
		IsUser:      true,
	}
}

func (s *ContributorService) fromGuest(g *models.Guest) models.Contributor {
	return models.Contributor{
		ID:          g.ID,
		Name:        g.Name,
		Email:       g.Email,
		Description: g.Description,
		Nicename:    g.Nicename,
		URL:         profileURL(g.Nicename),
		Avatar:      s.media.Resolve(g.Avatar, 0),
		IsUser:      false,
	}
}

func profileURL(nicename string) string {
	return "/u/" + nicename
}
