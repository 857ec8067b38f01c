package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bylines/internal/models"
	"bylines/internal/utils"

	"gorm.io/gorm"
)

// roleOrderFields whitelists sortable role columns.
var roleOrderFields = map[string]bool{
	"id":       true,
	"name":     true,
	"nicename": true,
	"prefix":   true,
}

// RoleFilter selects role records; same shape as GuestFilter but Search
// matches the display prefix.
type RoleFilter struct {
	Include  []int64
	Exclude  []int64
	Search   string
	Nicename string
	Paged    int
	PerPage  int
	OrderBy  string // id, name, nicename, prefix; default id
	Order    string // asc or desc; default asc
}

// RoleInput is the write payload for a role. Icon is normalized to a
// nullable id, AvatarVisibility to a plain bool.
type RoleInput struct {
	Name             string
	Prefix           string
	AvatarVisibility bool
	Icon             *int64
}

// RoleService is the repository for role definitions.
type RoleService struct {
	db       *gorm.DB
	settings *SettingsService
}

func NewRoleService(db *gorm.DB, settings *SettingsService) *RoleService {
	return &RoleService{db: db, settings: settings}
}

func (s *RoleService) scope(f RoleFilter) *gorm.DB {
	q := s.db.Model(&models.Role{})

	if f.Nicename != "" {
		q = q.Where("nicename = ?", f.Nicename)
	}
	if f.Search != "" {
		q = q.Where("prefix LIKE ?", "%"+f.Search+"%")
	}
	if len(f.Include) > 0 {
		q = q.Where("id IN ?", f.Include)
	} else if len(f.Exclude) > 0 {
		q = q.Where("id NOT IN ?", f.Exclude)
	}

	orderBy := "id"
	if roleOrderFields[f.OrderBy] {
		orderBy = f.OrderBy
	}
	order := "ASC"
	if strings.EqualFold(f.Order, "desc") {
		order = "DESC"
	}
	q = q.Order(orderBy + " " + order)

	if f.PerPage > 0 {
		paged := f.Paged
		if paged < 1 {
			paged = 1
		}
		q = q.Limit(f.PerPage).Offset((paged - 1) * f.PerPage)
	}
	return q
}

// Query returns roles matching f.
func (s *RoleService) Query(f RoleFilter) ([]models.Role, error) {
	var roles []models.Role
	if err := s.scope(f).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// QueryValues returns a single column as a flat value list instead of full
// records, the same shape-changing contract as the guest repository.
func (s *RoleService) QueryValues(f RoleFilter, field string) ([]string, error) {
	if !roleOrderFields[field] {
		return nil, fmt.Errorf("unknown role field %q", field)
	}
	var values []string
	if err := s.scope(f).Pluck(field, &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// Get returns one role by id, or nil when absent.
func (s *RoleService) Get(id int64) (*models.Role, error) {
	roles, err := s.Query(RoleFilter{Include: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, nil
	}
	return &roles[0], nil
}

// Insert creates a role with a nicename derived from the name; retries the
// derivation once when the storage layer reports a duplicate.
func (s *RoleService) Insert(data RoleInput) (int64, error) {
	role, err := s.prepare(data)
	if err != nil {
		return 0, err
	}

	err = s.db.Create(&role).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		role.ID = 0
		if role.Nicename, err = s.generateNicename(role.Name); err != nil {
			return 0, err
		}
		if err = s.db.Create(&role).Error; err != nil {
			return 0, &ConflictError{Resource: "role", Err: err}
		}
	} else if err != nil {
		return 0, err
	}
	return role.ID, nil
}

// Update applies data to the role with the given id. The nicename is left
// alone; it identifies the role in URLs and survives renames.
func (s *RoleService) Update(id int64, data RoleInput) (int64, error) {
	updates := map[string]interface{}{
		"name":              strings.TrimSpace(data.Name),
		"prefix":            strings.TrimSpace(data.Prefix),
		"avatar_visibility": data.AvatarVisibility,
		"icon":              normalizeIcon(data.Icon),
	}
	res := s.db.Model(&models.Role{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Delete removes a role. The default role (id 1) is physically undeletable;
// deleting it is a no-op reporting zero rows, regardless of caller intent.
func (s *RoleService) Delete(id int64) (int64, error) {
	if id == models.DefaultRoleID {
		return 0, nil
	}
	res := s.db.Delete(&models.Role{}, id)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// SetDefault designates the process-wide default role for new content. This
// is independent of the undeletable role id 1.
func (s *RoleService) SetDefault(id int64) error {
	role, err := s.Get(id)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("role %d does not exist", id)
	}
	return s.settings.Set(SettingDefaultRole, strconv.FormatInt(id, 10))
}

func (s *RoleService) prepare(data RoleInput) (models.Role, error) {
	name := strings.TrimSpace(data.Name)
	nicename, err := s.generateNicename(name)
	if err != nil {
		return models.Role{}, err
	}
	return models.Role{
		Name:             name,
		Nicename:         nicename,
		Prefix:           strings.TrimSpace(data.Prefix),
		AvatarVisibility: data.AvatarVisibility,
		Icon:             normalizeIcon(data.Icon),
	}, nil
}

// generateNicename works like the guest variant but is scoped to the role
// table only.
func (s *RoleService) generateNicename(name string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = "role-name"
	}

	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := s.db.Model(&models.Role{}).Where("nicename = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		if i > maxAllocAttempts {
			return "", ErrNicenameExhausted
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func normalizeIcon(icon *int64) *int64 {
	if icon == nil || *icon <= 0 {
		return nil
	}
	return icon
}
