package app

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talkincode/toughstore/config"
	"github.com/talkincode/toughstore/internal/domain"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	dbfile := filepath.Join(t.TempDir(), "app_test.db")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=on", dbfile)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	a := NewApplication(config.DefaultAppConfig)
	a.OverrideDB(db)
	return a
}

func TestCheckSettingsIdempotent(t *testing.T) {
	a := newTestApp(t)

	a.checkSettings()
	a.checkSettings()

	var count int64
	a.DB().Model(&domain.SysConfig{}).Count(&count)
	assert.EqualValues(t, len(defaultConfigSchemas), count)
	assert.EqualValues(t, 10, a.GetSettingsInt64Value("web", "DefaultPageSize"))
	assert.False(t, a.GetSettingsBoolValue("catalog", "DemoData"))
}

func TestConfigManagerSetAndCache(t *testing.T) {
	a := newTestApp(t)
	cm := a.ConfigMgr()

	assert.Empty(t, cm.GetString("web", "DefaultPageSize"))

	require.NoError(t, cm.Set("web", "DefaultPageSize", "25"))
	assert.Equal(t, 25, cm.GetInt("web", "DefaultPageSize"))

	// Set refreshes the cached entry
	require.NoError(t, cm.Set("web", "DefaultPageSize", "50"))
	assert.EqualValues(t, 50, cm.GetInt64("web", "DefaultPageSize"))

	var count int64
	a.DB().Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", "web", "DefaultPageSize").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCheckDemoProducts(t *testing.T) {
	a := newTestApp(t)
	a.checkSettings()

	// disabled by default, nothing seeded
	a.checkDemoProducts()
	var count int64
	a.DB().Model(&domain.Product{}).Count(&count)
	assert.Zero(t, count)

	require.NoError(t, a.ConfigMgr().Set("catalog", "DemoData", "true"))
	a.checkDemoProducts()
	a.checkDemoProducts()

	a.DB().Model(&domain.Product{}).Count(&count)
	assert.EqualValues(t, 3, count)

	var variants int64
	a.DB().Model(&domain.Variant{}).Count(&variants)
	assert.EqualValues(t, 4, variants)
}
