package services

// 用户服务：注册、口令校验与注销账号（连带删除其评论）。

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"beautycenter/internal/storage"
)

// UserService 提供基础用户 CRUD 与口令校验。
type UserService struct{ db *gorm.DB }

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

func (s *UserService) FindByUsername(ctx context.Context, username string) (*storage.User, error) {
	var u storage.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *UserService) FindByID(ctx context.Context, id uint64) (*storage.User, error) {
	var u storage.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// CheckPassword 校验用户口令（bcrypt）。
func (s *UserService) CheckPassword(u *storage.User, password string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// Create 注册新用户；用户名已存在时返回 ErrUsernameTaken。
func (s *UserService) Create(ctx context.Context, username, password, email string) (*storage.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username/password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &storage.User{Username: username, Password: string(hash), Email: email}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&storage.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrUsernameTaken
		}
		return tx.Create(u).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate 以用户名与口令换取用户；任何不匹配均返回 ErrBadCredentials。
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*storage.User, error) {
	u, err := s.FindByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.CheckPassword(u, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// EnsureUser 在用户不存在时创建（用于启动引导），已存在则原样返回。
func (s *UserService) EnsureUser(ctx context.Context, username, password, email string) (*storage.User, bool, error) {
	u, err := s.FindByUsername(ctx, username)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	u, err = s.Create(ctx, username, password, email)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// Delete 删除用户及其全部评论。
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&storage.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&storage.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
