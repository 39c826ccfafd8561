package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	// Catalog
	&Product{},
	&Variant{},
	// Ordering
	&Order{},
	&OrderDetail{},
}
