// Package storage 提供底层持久化与缓存适配：数据库连接（MySQL/PostgreSQL/SQLite）、自动迁移、
// GORM 模型声明以及记录级校验。其它层应通过 services 访问存储，以便集中处理事务与级联删除。
package storage
