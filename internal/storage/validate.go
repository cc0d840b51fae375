package storage

// 记录级校验：每类记录在创建与更新持久化前调用 Validate，失败时不写入任何数据。

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// 校验失败的类别，配合 errors.Is 使用。
var (
	ErrRequiredField = errors.New("required_field")
	ErrInvalidField  = errors.New("invalid_field")
	ErrInvalidFormat = errors.New("invalid_format")
	ErrOutOfRange    = errors.New("out_of_range")
)

// ValidationError 标明失败字段与失败类别。
type ValidationError struct {
	Field   string
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %s", e.Field, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Kind)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

func RequiredField(field string) error {
	return &ValidationError{Field: field, Kind: ErrRequiredField, Message: "This field is required."}
}

func InvalidField(field, msg string) error {
	return &ValidationError{Field: field, Kind: ErrInvalidField, Message: msg}
}

func InvalidFormat(field, msg string) error {
	return &ValidationError{Field: field, Kind: ErrInvalidFormat, Message: msg}
}

func OutOfRange(field, msg string) error {
	return &ValidationError{Field: field, Kind: ErrOutOfRange, Message: msg}
}

// PhonePattern 为俄罗斯手机号格式；前缀允许重复（如 "77"、"+7+7"），按原样保留。
var PhonePattern = regexp.MustCompile(`^((\+7|7|8)+([0-9]){10})$`)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (a *Address) Validate() error {
	switch {
	case blank(a.Street):
		return RequiredField("street")
	case blank(a.City):
		return RequiredField("city")
	case blank(a.State):
		return RequiredField("state")
	}
	if a.Number < 0 {
		return InvalidField("number", "Number cannot be negative.")
	}
	return nil
}

func (c *Center) Validate() error {
	if blank(c.Name) {
		return RequiredField("name")
	}
	if !PhonePattern.MatchString(c.Phone) {
		return InvalidFormat("phone", "Invalid Russian phone number format.")
	}
	return nil
}

func (s *Service) Validate() error {
	if blank(s.Name) {
		return RequiredField("name")
	}
	if blank(s.Category) {
		return RequiredField("category")
	}
	return nil
}

func (cs *CenterService) Validate() error {
	if cs.CenterID == uuid.Nil {
		return RequiredField("center")
	}
	if cs.ServiceID == uuid.Nil {
		return RequiredField("service")
	}
	if blank(cs.Description) {
		return RequiredField("description")
	}
	return nil
}

func (c *Comment) Validate() error {
	if blank(c.Content) {
		return RequiredField("content")
	}
	if c.Mark < 1 || c.Mark > 5 {
		return OutOfRange("mark", "Mark must be between 1 and 5.")
	}
	if c.CenterID == uuid.Nil {
		return RequiredField("center_id")
	}
	return nil
}
