package services

import (
	"encoding/json"
	"strconv"

	"bylines/internal/models"
	"bylines/internal/utils"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// roleIconSize is the thumbnail variant used for role icons in the
// expanded form.
const roleIconSize = 64

// AssignmentService is the two-way codec between the compact assignment
// form persisted in post meta and the expanded form used for display and
// editing. The compact form is the single source of truth; the expanded
// form is rebuilt from current role/contributor state on every read, so a
// renamed role or re-described contributor is never stale.
type AssignmentService struct {
	db           *gorm.DB
	roles        *RoleService
	contributors *ContributorService
	media        *MediaService
	settings     *SettingsService
	log          zerolog.Logger
}

func NewAssignmentService(db *gorm.DB, roles *RoleService, contributors *ContributorService, media *MediaService, settings *SettingsService, log zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		db:           db,
		roles:        roles,
		contributors: contributors,
		media:        media,
		settings:     settings,
		log:          log.With().Str("service", "assignments").Logger(),
	}
}

// Load reads the compact assignment array for a post. Malformed entries are
// skipped, never fatal.
func (s *AssignmentService) Load(postID int64) ([]models.CompactAssignment, error) {
	value, err := s.getMeta(postID, models.MetaRoleAssignments)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return []models.CompactAssignment{}, nil
	}
	return s.Sanitize([]byte(value)), nil
}

// Expand resolves a post's compact assignments into full role and
// contributor objects. Role icons become resolved URLs and contributor
// descriptions are rendered for display.
func (s *AssignmentService) Expand(postID int64) ([]models.RoleAssignment, error) {
	compact, err := s.Load(postID)
	if err != nil {
		return nil, err
	}

	expanded := make([]models.RoleAssignment, 0, len(compact))
	for _, entry := range compact {
		assignment := models.RoleAssignment{Contributors: []models.Contributor{}}

		if entry.Role != nil {
			role, err := s.roles.Get(*entry.Role)
			if err != nil {
				return nil, err
			}
			if role != nil {
				assignment.Role = &models.RoleView{
					ID:               role.ID,
					Name:             role.Name,
					Nicename:         role.Nicename,
					Prefix:           role.Prefix,
					AvatarVisibility: role.AvatarVisibility,
					Icon:             s.media.Resolve(role.Icon, roleIconSize),
				}
			}
		}

		if len(entry.Contributors) > 0 {
			contributors := s.contributors.Query(ContributorFilter{Include: entry.Contributors})
			for i := range contributors {
				contributors[i].Description = utils.RenderBio(contributors[i].Description)
			}
			assignment.Contributors = contributors
		}

		expanded = append(expanded, assignment)
	}
	return expanded, nil
}

// Sanitize validates raw assignment data before it is persisted. Only array
// input is accepted; every element must carry both a role and a
// contributors key or it is dropped. An entry whose role cannot be
// sanitized is kept as {role: null, contributors: []} so the slot indices
// stay aligned with the editor's ordered sequence. Idempotent.
func (s *AssignmentService) Sanitize(raw []byte) []models.CompactAssignment {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []models.CompactAssignment{}
	}

	out := make([]models.CompactAssignment, 0, len(items))
	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		roleRaw, hasRole := obj["role"]
		contribRaw, hasContributors := obj["contributors"]
		if !hasRole || !hasContributors {
			continue
		}

		entry := models.CompactAssignment{Contributors: []int64{}}

		var roleID int64
		if err := json.Unmarshal(roleRaw, &roleID); err == nil && roleID > 0 {
			entry.Role = &roleID

			var rawIDs []json.Number
			if err := json.Unmarshal(contribRaw, &rawIDs); err == nil {
				for _, n := range rawIDs {
					id, err := n.Int64()
					if err != nil || id <= 0 {
						continue
					}
					entry.Contributors = append(entry.Contributors, id)
				}
			}
		}

		out = append(out, entry)
	}
	return out
}

// Save persists the compact form and rebuilds the derived contributor-id
// index in one transaction, so the two meta rows can never drift apart.
func (s *AssignmentService) Save(postID int64, compact []models.CompactAssignment) error {
	data, err := json.Marshal(compact)
	if err != nil {
		return err
	}
	index := utils.JoinIDList(ContributorUnion(compact))

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := upsertMeta(tx, postID, models.MetaRoleAssignments, string(data)); err != nil {
			return err
		}
		return upsertMeta(tx, postID, models.MetaContributorIDs, index)
	})
}

// PostsByContributor returns the ids of all posts whose contributor index
// references id. The index meta exists exactly for this lookup; the nested
// assignment structure is never scanned.
func (s *AssignmentService) PostsByContributor(id int64) ([]int64, error) {
	v := strconv.FormatInt(id, 10)
	var postIDs []int64
	err := s.db.Model(&models.PostMeta{}).
		Where("key = ?", models.MetaContributorIDs).
		Where("value = ? OR value LIKE ? OR value LIKE ? OR value LIKE ?",
			v, v+",%", "%,"+v, "%,"+v+",%").
		Order("post_id ASC").
		Pluck("post_id", &postIDs).Error
	if err != nil {
		return nil, err
	}
	return postIDs, nil
}

// EnsureDefaultAssignment seeds slot 0 with the default role and the post's
// platform author when the post has no byline data at all. A missing
// default-role setting is a configuration fault: logged, not fatal.
func (s *AssignmentService) EnsureDefaultAssignment(postID int64) error {
	compact, err := s.Load(postID)
	if err != nil {
		return err
	}
	indexValue, err := s.getMeta(postID, models.MetaContributorIDs)
	if err != nil {
		return err
	}
	if len(compact) > 0 || indexValue != "" {
		return nil
	}

	defaultRole, ok := s.settings.GetInt64(SettingDefaultRole)
	if !ok {
		s.log.Error().Msg("default role is not configured; cannot seed post assignments")
		return nil
	}
	role, err := s.roles.Get(defaultRole)
	if err != nil {
		return err
	}
	if role == nil {
		s.log.Error().Int64("role", defaultRole).Msg("default role does not exist; cannot seed post assignments")
		return nil
	}

	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if post.AuthorID <= 0 {
		return nil
	}

	return s.Save(postID, []models.CompactAssignment{
		{Role: &role.ID, Contributors: []int64{post.AuthorID}},
	})
}

// ContributorUnion flattens the compact form into the ordered, de-duplicated
// union of contributor ids. This is the value of the index meta.
func ContributorUnion(compact []models.CompactAssignment) []int64 {
	seen := map[int64]bool{}
	var ids []int64
	for _, entry := range compact {
		for _, id := range entry.Contributors {
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *AssignmentService) getMeta(postID int64, key string) (string, error) {
	var meta models.PostMeta
	err := s.db.First(&meta, "post_id = ? AND key = ?", postID, key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

func upsertMeta(tx *gorm.DB, postID int64, key, value string) error {
	res := tx.Model(&models.PostMeta{}).
		Where("post_id = ? AND key = ?", postID, key).
		Update("value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(&models.PostMeta{PostID: postID, Key: key, Value: value}).Error
	}
	return nil
}
