package storage

import "gorm.io/gorm"

// AutoMigrate 按依赖顺序执行数据库自动迁移（被引用的表在前）。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Address{},
		&Center{},
		&Service{},
		&CenterService{},
		&Comment{},
		&AuditLog{},
	)
}
