package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"beautycenter/internal/storage"
)

// LogService 将审计日志持久化到数据库。
type LogService struct{ db *gorm.DB }

func NewLogService(db *gorm.DB) *LogService { return &LogService{db: db} }

// Write 写入一条审计日志；失败只记录告警，不影响主流程。
func (s *LogService) Write(ctx context.Context, level, event string, userID *uint64, desc string, ip string) {
	rec := &storage.AuditLog{
		Timestamp:   time.Now(),
		Level:       level,
		Event:       event,
		UserID:      userID,
		Description: desc,
		IPAddress:   ip,
	}
	// gin.Context 以字符串键暴露 request_id
	if rid, ok := ctx.Value("request_id").(string); ok {
		rec.RequestID = rid
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		log.WithError(err).WithField("event", event).Warn("audit log write failed")
	}
}
