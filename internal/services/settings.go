package services

import (
	"strconv"
	"sync"

	"bylines/internal/models"

	"gorm.io/gorm"
)

// SettingDefaultRole holds the id of the role new content defaults to.
// Readable by editors, writable by admins only.
const SettingDefaultRole = "default_role"

// SettingsService is a process-wide key/value store loaded once at startup
// and refreshed on every write.
type SettingsService struct {
	db *gorm.DB

	mu     sync.RWMutex
	values map[string]string
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db, values: map[string]string{}}
}

// Load reads every setting into memory. Called once during startup.
func (s *SettingsService) Load() error {
	var settings []models.Setting
	if err := s.db.Find(&settings).Error; err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string, len(settings))
	for _, setting := range settings {
		s.values[setting.Key] = setting.Value
	}
	return nil
}

// Get returns the cached value for key.
func (s *SettingsService) Get(key string) (string, bool) {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if ok {
		return v, true
	}

	// Not cached; fall through to storage so a fresh process never misses
	// a value written before Load.
	var setting models.Setting
	if err := s.db.First(&setting, "key = ?", key).Error; err != nil {
		return "", false
	}
	s.mu.Lock()
	s.values[key] = setting.Value
	s.mu.Unlock()
	return setting.Value, true
}

// GetInt64 returns key parsed as an integer.
func (s *SettingsService) GetInt64(key string) (int64, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Set upserts key and refreshes the cache entry.
func (s *SettingsService) Set(key, value string) error {
	res := s.db.Model(&models.Setting{}).Where("key = ?", key).Update("value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if err := s.db.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}
