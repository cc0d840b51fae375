package services

// 令牌服务：为用户签发不透明的 API 令牌并存于 Redis；同一用户在有效期内重复登录得到同一令牌。

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"beautycenter/internal/config"
	"beautycenter/internal/utils"
)

// TokenStore 为令牌服务所需的最小 Redis 命令集合（*redis.Client 满足该接口）。
type TokenStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// TokenService 提供令牌的签发、解析与吊销。
// 存储：key=token:<token> -> 用户 ID；key=token:user:<id> -> 令牌。
type TokenService struct {
	store TokenStore
	cfg   config.Config
}

func NewTokenService(store TokenStore, cfg config.Config) *TokenService {
	return &TokenService{store: store, cfg: cfg}
}

func tokenKey(tok string) string { return fmt.Sprintf("token:%s", tok) }
func userTokenKey(id uint64) string { return fmt.Sprintf("token:user:%d", id) }

// Issue 返回用户当前有效的令牌，不存在时新建。
func (s *TokenService) Issue(ctx context.Context, userID uint64) (string, error) {
	existing, err := s.store.Get(ctx, userTokenKey(userID)).Result()
	if err == nil && existing != "" {
		if uid, rerr := s.Resolve(ctx, existing); rerr == nil && uid == userID {
			return existing, nil
		}
	} else if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}

	n := s.cfg.Token.Length
	if n <= 0 {
		n = 20
	}
	tok, err := utils.RandString(n)
	if err != nil {
		return "", err
	}
	ttl := s.cfg.Token.TTL
	if err := s.store.Set(ctx, tokenKey(tok), strconv.FormatUint(userID, 10), ttl).Err(); err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, userTokenKey(userID), tok, ttl).Err(); err != nil {
		return "", err
	}
	return tok, nil
}

// Resolve 将令牌解析为用户 ID；未知或过期令牌返回 ErrInvalidToken。
func (s *TokenService) Resolve(ctx context.Context, tok string) (uint64, error) {
	if tok == "" {
		return 0, ErrInvalidToken
	}
	val, err := s.store.Get(ctx, tokenKey(tok)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrInvalidToken
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Revoke 吊销用户的当前令牌（注销账号时调用）。
func (s *TokenService) Revoke(ctx context.Context, userID uint64) error {
	tok, err := s.store.Get(ctx, userTokenKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.store.Del(ctx, tokenKey(tok), userTokenKey(userID)).Err()
}
