package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("not_found")
	ErrUsernameTaken  = errors.New("username_taken")
	ErrBadCredentials = errors.New("bad_credentials")
	ErrInvalidToken   = errors.New("invalid_token")
)

// notFound 把 gorm 的记录不存在错误归一为 ErrNotFound。
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Page 为列表查询提供可选的分页参数；Limit<=0 表示使用默认上限。
type Page struct {
	Limit  int
	Offset int
}

const maxListLimit = 500

func (p Page) apply(q *gorm.DB) *gorm.DB {
	limit := p.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	q = q.Limit(limit)
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}
