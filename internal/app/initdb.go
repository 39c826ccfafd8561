package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/toughstore/internal/domain"
)

// configSchema describes one default setting entry.
type configSchema struct {
	Category    string
	Name        string
	Default     string
	Description string
}

var defaultConfigSchemas = []configSchema{
	{"web", "DefaultPageSize", "10", "Default listing page size"},
	{"catalog", "DemoData", "false", "Seed demo products on startup"},
}

// checkSettings initializes missing settings with their defaults.
func (a *Application) checkSettings() {
	for sortid, schema := range defaultConfigSchemas {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", schema.Category, schema.Name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				Sort:   sortid,
				Type:   schema.Category,
				Name:   schema.Name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Category+"."+schema.Name),
				zap.String("default", schema.Default))
		}
	}
}

// checkDemoProducts seeds a handful of demo products with variants when the
// catalog.DemoData setting is enabled. Idempotent by product name.
func (a *Application) checkDemoProducts() {
	if !a.ConfigMgr().GetBool("catalog", "DemoData") {
		return
	}

	demoProducts := []domain.Product{
		{
			Name: "demo-classic-mug", Brand: "Acme", Type: "Mug", Origin: "US",
			Variants: []domain.Variant{
				{Color: "white", Specification: "12oz ceramic", Size: "small"},
				{Color: "black", Specification: "16oz ceramic", Size: "medium"},
			},
		},
		{
			Name: "demo-garden-jug", Brand: "Homestead", Type: "Jug", Origin: "PT",
			Variants: []domain.Variant{
				{Color: "terracotta", Specification: "2L stoneware", Size: "large"},
			},
		},
		{
			Name: "demo-tumbler-glass", Brand: "Clarity", Type: "Glass", Origin: "CZ",
			Variants: []domain.Variant{
				{Color: "clear", Specification: "330ml tempered", Size: "medium"},
			},
		},
	}

	for _, p := range demoProducts {
		var count int64
		a.gormDB.Model(&domain.Product{}).Where("name = ?", p.Name).Count(&count)
		if count == 0 {
			now := time.Now()
			p.CreatedAt = now
			p.UpdatedAt = now
			for i := range p.Variants {
				p.Variants[i].CreatedAt = now
				p.Variants[i].UpdatedAt = now
			}
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create demo product", zap.String("name", p.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized demo product", zap.String("name", p.Name))
			}
		}
	}
}
