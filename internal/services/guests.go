package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bylines/internal/models"
	"bylines/internal/utils"

	"gorm.io/gorm"
)

const guestCacheTTL = time.Hour

// guestOrderFields whitelists sortable columns.
var guestOrderFields = map[string]bool{
	"id":       true,
	"name":     true,
	"nicename": true,
	"email":    true,
}

// GuestFilter selects guest records. Include wins over Exclude; Search is a
// substring match on name. Pagination is offset based and only applied when
// PerPage is set.
type GuestFilter struct {
	Include  []int64
	Exclude  []int64
	Search   string
	Nicename string
	Paged    int
	PerPage  int
	OrderBy  string // id, name, nicename, email; default id
	Order    string // asc or desc; default asc
}

// GuestService is the repository for guest contributor records.
type GuestService struct {
	db    *gorm.DB
	alloc *IDAllocator
	cache *utils.Cache
}

func NewGuestService(db *gorm.DB) *GuestService {
	cache, err := utils.NewCache(500)
	if err != nil {
		// Only fails on a non-positive size, which is a programming error.
		panic(err)
	}
	return &GuestService{
		db:    db,
		alloc: NewIDAllocator(db),
		cache: cache,
	}
}

// Allocator exposes the id allocator so user-side deletes can retire ids
// through the same log.
func (s *GuestService) Allocator() *IDAllocator {
	return s.alloc
}

func (s *GuestService) scope(f GuestFilter) *gorm.DB {
	q := s.db.Model(&models.Guest{})

	if f.Nicename != "" {
		q = q.Where("nicename = ?", f.Nicename)
	}
	if f.Search != "" {
		q = q.Where("name LIKE ?", "%"+f.Search+"%")
	}
	if len(f.Include) > 0 {
		q = q.Where("id IN ?", f.Include)
	} else if len(f.Exclude) > 0 {
		q = q.Where("id NOT IN ?", f.Exclude)
	}

	orderBy := "id"
	if guestOrderFields[f.OrderBy] {
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

// Query returns the guests matching f. Results are cached per rendered
// filter; any write purges the cache.
func (s *GuestService) Query(f GuestFilter) ([]models.Guest, error) {
	key := fmt.Sprintf("guests:%+v", f)
	if cached := s.cache.Get(key); cached != nil {
		if guests, ok := cached.([]models.Guest); ok {
			return guests, nil
		}
	}

	var guests []models.Guest
	if err := s.scope(f).Find(&guests).Error; err != nil {
		return nil, err
	}
	s.cache.Set(key, guests, guestCacheTTL)
	return guests, nil
}

// QueryValues returns a single column as a flat value list instead of full
// records. This shape change is part of the contract; callers branch on it.
func (s *GuestService) QueryValues(f GuestFilter, field string) ([]string, error) {
	if !guestOrderFields[field] && field != "description" {
		return nil, fmt.Errorf("unknown guest field %q", field)
	}
	var values []string
	if err := s.scope(f).Pluck(field, &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// Insert creates a guest. A missing or colliding nicename is derived from
// the name, a missing id comes from the allocator. On a storage uniqueness
// violation the derived values are regenerated once before giving up with a
// ConflictError.
func (s *GuestService) Insert(data models.Guest) (int64, error) {
	prepared, err := s.prepare(data)
	if err != nil {
		return 0, err
	}

	err = s.db.Create(&prepared).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the check-then-write race; re-derive and retry once.
		prepared.ID = 0
		prepared.Nicename = ""
		if prepared, err = s.prepare(prepared); err != nil {
			return 0, err
		}
		if err = s.db.Create(&prepared).Error; err != nil {
			return 0, &ConflictError{Resource: "guest", Err: err}
		}
	} else if err != nil {
		return 0, err
	}

	s.cache.Purge()
	return prepared.ID, nil
}

// Update applies a partial update to the guest with the given id and
// returns the number of rows affected.
func (s *GuestService) Update(id int64, data map[string]interface{}) (int64, error) {
	if name, ok := data["name"].(string); ok {
		data["name"] = strings.TrimSpace(name)
	}
	if email, ok := data["email"].(string); ok {
		data["email"] = strings.TrimSpace(email)
	}
	if desc, ok := data["description"].(string); ok {
		data["description"] = utils.SanitizeHTML(desc)
	}

	res := s.db.Model(&models.Guest{}).Where("id = ?", id).Updates(data)
	if res.Error != nil {
		return 0, res.Error
	}
	s.cache.Purge()
	return res.RowsAffected, nil
}

// Delete removes the guest and, on success, retires its id so it is never
// allocated again.
func (s *GuestService) Delete(id int64) (int64, error) {
	res := s.db.Delete(&models.Guest{}, id)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		if err := s.alloc.Retire(id); err != nil {
			return res.RowsAffected, err
		}
		s.cache.Purge()
	}
	return res.RowsAffected, nil
}

// NicenameExists checks the union of guests and platform users. Nicenames
// must be unique across both sources.
func (s *GuestService) NicenameExists(nicename string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Guest{}).Where("nicename = ?", nicename).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := s.db.Model(&models.User{}).Where("nicename = ?", nicename).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateNicename slugifies name and resolves collisions with -2, -3, ...
// suffixes, ErrNicenameExhausted past the attempt limit.
func (s *GuestService) GenerateNicename(name string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = "new-contributor"
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.NicenameExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		if i > maxAllocAttempts {
			return "", ErrNicenameExhausted
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *GuestService) prepare(data models.Guest) (models.Guest, error) {
	data.Name = strings.TrimSpace(data.Name)
	data.Email = strings.TrimSpace(data.Email)
	data.Description = utils.SanitizeHTML(data.Description)

	if data.Nicename != "" {
		exists, err := s.NicenameExists(data.Nicename)
		if err != nil {
			return data, err
		}
		if exists {
			data.Nicename = ""
		}
	}
	if data.Nicename == "" {
		nicename, err := s.GenerateNicename(data.Name)
		if err != nil {
			return data, err
		}
		data.Nicename = nicename
	}

	if data.ID == 0 {
		id, err := s.alloc.NextID()
		if err != nil {
			return data, err
		}
		data.ID = id
	}
	return data, nil
}
