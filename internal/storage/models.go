package storage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 本文件定义目录服务的全部 GORM 模型：五类业务记录 + 用户与审计日志。
// 业务记录统一使用随机 UUID 主键（char(36)，兼容 MySQL/PostgreSQL/SQLite）。

// Record 为业务记录提供 UUID 主键，创建前自动生成。
type Record struct {
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Address struct {
	Record
	Street string `gorm:"type:text;not null"`
	City   string `gorm:"type:text;not null"`
	State  string `gorm:"type:text;not null"`
	Number int    `gorm:"not null"`
}

func (Address) TableName() string { return "addresses" }

// Center 独占一个 Address（一对一），删除中心时一并删除其地址。
type Center struct {
	Record
	Name      string    `gorm:"type:text;not null"`
	Phone     string    `gorm:"size:32;not null"`
	AddressID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex"`
	Address   *Address  `gorm:"foreignKey:AddressID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Center) TableName() string { return "centers" }

type Service struct {
	Record
	Name     string `gorm:"type:text;not null"`
	Category string `gorm:"type:text;not null"`
}

func (Service) TableName() string { return "services" }

// CenterService 是 Center 与 Service 多对多关系的连接表，附带描述字段。
type CenterService struct {
	Record
	CenterID    uuid.UUID `gorm:"type:char(36);not null;index"`
	ServiceID   uuid.UUID `gorm:"type:char(36);not null;index"`
	Description string    `gorm:"type:text;not null"`
	Center      *Center   `gorm:"foreignKey:CenterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Service     *Service  `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (CenterService) TableName() string { return "center_services" }

// Comment 为用户对中心的评价；CreatedAt 仅在创建时写入。
type Comment struct {
	Record
	Content   string    `gorm:"type:text;not null"`
	Mark      float64   `gorm:"not null;index"`
	CenterID  uuid.UUID `gorm:"type:char(36);not null;index"`
	UserID    uint64    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	Center    *Center   `gorm:"foreignKey:CenterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Comment) TableName() string { return "comments" }

// User 为外部身份协作方在本地的最小投影（注册/登录/评论作者）。
type User struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Username  string `gorm:"size:150;uniqueIndex"`
	Password  string `gorm:"size:255"` // 已哈希的口令
	Email     string `gorm:"size:190;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }

type AuditLog struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Timestamp   time.Time `gorm:"index"`
	Level       string    `gorm:"size:16;index"`
	Event       string    `gorm:"size:64;index"`
	UserID      *uint64   `gorm:"index"`
	Description string    `gorm:"type:text"`
	IPAddress   string    `gorm:"size:64"`
	RequestID   string    `gorm:"size:64;index"`
}

func (AuditLog) TableName() string { return "audit_logs" }
