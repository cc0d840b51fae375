package services

// 评论服务：评论作者取自当前身份；中心必须可解析；created_at 创建后不再修改。

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"beautycenter/internal/storage"
)

type CommentService struct{ db *gorm.DB }

func NewCommentService(db *gorm.DB) *CommentService { return &CommentService{db: db} }

func (s *CommentService) List(ctx context.Context, p Page) ([]storage.Comment, error) {
	var list []storage.Comment
	q := s.db.WithContext(ctx).Preload("User").Order("mark ASC").Order("created_at ASC")
	if err := p.apply(q).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByCenter 返回某中心的评论；中心不存在时返回 ErrNotFound。
func (s *CommentService) ListByCenter(ctx context.Context, centerID uuid.UUID, p Page) ([]storage.Comment, error) {
	db := s.db.WithContext(ctx)
	ok, err := centerExists(db, centerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	var list []storage.Comment
	q := db.Preload("User").Where("center_id = ?", centerID).Order("mark ASC").Order("created_at ASC")
	if err := p.apply(q).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *CommentService) Get(ctx context.Context, id uuid.UUID) (*storage.Comment, error) {
	var c storage.Comment
	if err := s.db.WithContext(ctx).Preload("User").First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Create 以 userID 作为作者创建评论；centerID 缺失或无法解析时返回校验错误。
func (s *CommentService) Create(ctx context.Context, userID uint64, c *storage.Comment, centerID *uuid.UUID) error {
	if centerID == nil || *centerID == uuid.Nil {
		return storage.RequiredField("center_id")
	}
	c.CenterID = *centerID
	c.UserID = userID
	if err := c.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireCenter(tx, c.CenterID); err != nil {
			return err
		}
		c.Center, c.User = nil, nil
		if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
			return err
		}
		var u storage.User
		if err := tx.First(&u, "id = ?", userID).Error; err != nil {
			return err
		}
		c.User = &u
		return nil
	})
}

// Update 覆盖内容与评分；centerID 为空时沿用评论原有的中心。
func (s *CommentService) Update(ctx context.Context, id uuid.UUID, content string, mark float64, centerID *uuid.UUID) (*storage.Comment, error) {
	var out storage.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&out, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		out.Content = content
		out.Mark = mark
		if centerID != nil {
			out.CenterID = *centerID
		}
		if err := out.Validate(); err != nil {
			return err
		}
		if err := requireCenter(tx, out.CenterID); err != nil {
			return err
		}
		return tx.Model(&storage.Comment{Record: storage.Record{ID: out.ID}}).
			Select("content", "mark", "center_id").
			Updates(&storage.Comment{Content: out.Content, Mark: out.Mark, CenterID: out.CenterID}).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CommentService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&storage.Comment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func requireCenter(tx *gorm.DB, id uuid.UUID) error {
	ok, err := centerExists(tx, id)
	if err != nil {
		return err
	}
	if !ok {
		return storage.InvalidField("center_id", "Invalid Center ID.")
	}
	return nil
}
