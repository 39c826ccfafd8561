package app

import (
	"sync"

	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
)

// ConfigManager reads runtime settings from the sys_config table with a small
// in-process cache. Values written through Set invalidate the cached entry.
type ConfigManager struct {
	db    *gorm.DB
	cache sync.Map
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	return &ConfigManager{db: db}
}

func (cm *ConfigManager) cacheKey(category, name string) string {
	return category + "." + name
}

// GetString returns the raw setting value, empty when missing.
func (cm *ConfigManager) GetString(category, name string) string {
	key := cm.cacheKey(category, name)
	if v, ok := cm.cache.Load(key); ok {
		return v.(string)
	}

	var cfg domain.SysConfig
	err := cm.db.Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		return ""
	}
	cm.cache.Store(key, cfg.Value)
	return cfg.Value
}

func (cm *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(cm.GetString(category, name))
}

func (cm *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(cm.GetString(category, name))
}

func (cm *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(cm.GetString(category, name))
}

// Set updates or creates a setting value.
func (cm *ConfigManager) Set(category, name, value string) error {
	var count int64
	cm.db.Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Count(&count)

	var err error
	if count == 0 {
		err = cm.db.Create(&domain.SysConfig{
			Type:  category,
			Name:  name,
			Value: value,
		}).Error
	} else {
		err = cm.db.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Update("value", value).Error
	}
	if err != nil {
		return err
	}
	cm.cache.Store(cm.cacheKey(category, name), value)
	return nil
}
