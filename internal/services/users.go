package services

import (
	"strings"

	"bylines/internal/models"

	"gorm.io/gorm"
)

// userOrderFields maps logical contributor fields onto user columns. The
// two sources expose the same logical names; only the storage differs.
var userOrderFields = map[string]string{
	"id":       "id",
	"name":     "name",
	"nicename": "nicename",
	"email":    "email",
}

// UserFilter selects platform accounts with the same logical shape as
// GuestFilter.
type UserFilter struct {
	Include  []int64
	Exclude  []int64
	Search   string
	Nicename string
	Paged    int
	PerPage  int
	OrderBy  string
	Order    string
}

// UserDirectory fronts the platform account table for the byline layer. It
// is not a full account system; it covers lookup, search and the identity
// bookkeeping the guest side depends on.
type UserDirectory struct {
	db     *gorm.DB
	guests *GuestService
}

func NewUserDirectory(db *gorm.DB, guests *GuestService) *UserDirectory {
	return &UserDirectory{db: db, guests: guests}
}

// Query returns users matching f. Search spans display name, nicename and
// email, mirroring the platform directory's multi-column search.
func (d *UserDirectory) Query(f UserFilter) ([]models.User, error) {
	q := d.db.Model(&models.User{})

	if f.Nicename != "" {
		q = q.Where("nicename = ?", f.Nicename)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR nicename LIKE ? OR email LIKE ?", like, like, like)
	}
	if len(f.Include) > 0 {
		q = q.Where("id IN ?", f.Include)
	} else if len(f.Exclude) > 0 {
		q = q.Where("id NOT IN ?", f.Exclude)
	}

	orderBy, ok := userOrderFields[f.OrderBy]
	if !ok {
		orderBy = "id"
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

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Exists reports whether id belongs to a platform account. The aggregator
// uses it to partition mixed id lists.
func (d *UserDirectory) Exists(id int64) (bool, error) {
	var count int64
	err := d.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Get returns one user by email, or nil when absent.
func (d *UserDirectory) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := d.db.First(&user, "email = ?", email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Get returns one user by id, or nil when absent.
func (d *UserDirectory) Get(id int64) (*models.User, error) {
	var user models.User
	err := d.db.First(&user, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create registers a platform account and keeps the shared identity space
// consistent: an id or nicename already booked by a guest is reassigned so
// the two sources never collide.
func (d *UserDirectory) Create(user *models.User) error {
	if user.Nicename == "" {
		nicename, err := d.guests.GenerateNicename(user.Name)
		if err != nil {
			return err
		}
		user.Nicename = nicename
	}
	if user.Capability == "" {
		user.Capability = models.CapabilityUser
	}

	if err := d.db.Create(user).Error; err != nil {
		return err
	}

	// The database assigned the id; if a guest already holds it, move the
	// user off it.
	var count int64
	if err := d.db.Model(&models.Guest{}).Where("id = ?", user.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		freeID, err := d.guests.Allocator().NextID()
		if err != nil {
			return err
		}
		if err := d.db.Model(&models.User{}).Where("id = ?", user.ID).Update("id", freeID).Error; err != nil {
			return err
		}
		user.ID = freeID
	}
	return nil
}

// Delete removes a platform account and retires its id so the allocator
// never hands it to a guest.
func (d *UserDirectory) Delete(id int64) (int64, error) {
	res := d.db.Delete(&models.User{}, id)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		if err := d.guests.Allocator().Retire(id); err != nil {
			return res.RowsAffected, err
		}
	}
	return res.RowsAffected, nil
}
