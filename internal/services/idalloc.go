package services

import (
	"bylines/internal/models"

	"gorm.io/gorm"
)

// IDAllocator hands out integer ids for guest records. Ids live in the same
// number space as platform user ids, so a candidate is only free when no
// guest, no user and no retired-log entry holds it.
type IDAllocator struct {
	db *gorm.DB
}

func NewIDAllocator(db *gorm.DB) *IDAllocator {
	return &IDAllocator{db: db}
}

// NextID returns the next free id. It starts at count(guests)+1 and probes
// upward; ErrIDSpaceExhausted after maxAllocAttempts candidates.
func (a *IDAllocator) NextID() (int64, error) {
	var count int64
	if err := a.db.Model(&models.Guest{}).Count(&count).Error; err != nil {
		return 0, err
	}

	id := count + 1
	for attempts := 0; attempts < maxAllocAttempts; attempts++ {
		taken, err := a.taken(id)
		if err != nil {
			return 0, err
		}
		if !taken {
			return id, nil
		}
		id++
	}
	return 0, ErrIDSpaceExhausted
}

// Retire appends id to the never-reuse log. Runs after every guest or user
// delete; once logged, the id is permanently out of circulation.
func (a *IDAllocator) Retire(id int64) error {
	if id <= 0 {
		return nil
	}
	return a.db.FirstOrCreate(&models.RetiredID{ID: id}).Error
}

// IsRetired reports whether id sits in the never-reuse log.
func (a *IDAllocator) IsRetired(id int64) (bool, error) {
	var count int64
	err := a.db.Model(&models.RetiredID{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (a *IDAllocator) taken(id int64) (bool, error) {
	var count int64
	if err := a.db.Model(&models.Guest{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := a.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	return a.IsRetired(id)
}
