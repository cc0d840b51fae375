package handlers

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"beautycenter/internal/middlewares"
	"beautycenter/internal/services"
	"beautycenter/internal/storage"
)

var validatorsOnce sync.Once

// registerValidators 让 gin 的校验器以 json 名报告字段，并注册 ru_phone 规则。
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("ru_phone", func(fl validator.FieldLevel) bool {
			return storage.PhonePattern.MatchString(fl.Field().String())
		})
	})
}

// bindJSON 解析请求体；失败时写出 400 并返回 false。
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, bindingError(err), false)
		return false
	}
	return true
}

// bindingError 把 validator 的字段错误换算成 storage.ValidationError。
func bindingError(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return &requestError{msg: err.Error()}
	}
	fe := fields[0]
	switch fe.Tag() {
	case "required":
		return storage.RequiredField(fe.Field())
	case "email":
		return storage.InvalidFormat(fe.Field(), "Enter a valid email address.")
	case "ru_phone":
		return storage.InvalidFormat(fe.Field(), "Invalid Russian phone number format.")
	}
	return storage.InvalidField(fe.Field(), fe.Error())
}

// requestError 表示无法解析的请求体（非法 JSON、类型不符）。
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

// writeError 统一错误响应：{"error": code, "field"?: f, "message"?: m}。
// onCreate 为真时，未识别的错误按客户端错误返回 400。
func writeError(c *gin.Context, err error, onCreate bool) {
	var ve *storage.ValidationError
	var re *requestError
	switch {
	case errors.As(err, &ve):
		body := gin.H{"error": ve.Kind.Error(), "field": ve.Field}
		if ve.Message != "" {
			body["message"] = ve.Message
		}
		c.JSON(400, body)
	case errors.As(err, &re):
		c.JSON(400, gin.H{"error": "invalid_request", "message": re.msg})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(404, gin.H{"error": "not_found", "message": "Not found."})
	case errors.Is(err, services.ErrUsernameTaken):
		c.JSON(400, gin.H{"error": "username_taken", "field": "username", "message": "A user with that username already exists."})
	case errors.Is(err, services.ErrBadCredentials):
		c.JSON(400, gin.H{"error": "bad_credentials", "message": "Unable to log in with provided credentials."})
	case onCreate:
		log.WithError(err).WithField(middlewares.RequestIDKey, c.GetString(middlewares.RequestIDKey)).Warn("create failed")
		c.JSON(400, gin.H{"error": "bad_request", "message": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(500, gin.H{"error": "server_error"})
	}
}

// parseID 读取路径参数 id；非 UUID 视为不存在。
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, services.ErrNotFound, false)
		return uuid.Nil, false
	}
	return id, true
}

// ensureExists 在解析请求体之前确认待更新的记录存在，不存在时写出 404。
func ensureExists[T any](c *gin.Context, id uuid.UUID, get func(context.Context, uuid.UUID) (T, error)) bool {
	if _, err := get(c, id); err != nil {
		writeError(c, err, false)
		return false
	}
	return true
}

// parsePage 读取可选的 limit/offset 查询参数。
func parsePage(c *gin.Context) (services.Page, bool) {
	var p services.Page
	for name, dst := range map[string]*int{"limit": &p.Limit, "offset": &p.Offset} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(400, gin.H{"error": "invalid_request", "field": name, "message": "A non-negative integer is required."})
			return p, false
		}
		*dst = n
	}
	return p, true
}

// requireUser 返回调用者的用户 ID；未认证时写出 401。
func requireUser(c *gin.Context) (uint64, bool) {
	uid, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(401, gin.H{"error": "unauthorized", "message": "Authentication credentials were not provided."})
		return 0, false
	}
	return uid, true
}
