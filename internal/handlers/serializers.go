package handlers

// 记录与线上 JSON 表示之间的转换：输出 DTO、输入载荷以及嵌套引用的解析。

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"beautycenter/internal/services"
	"beautycenter/internal/storage"
)

type addressDTO struct {
	ID     uuid.UUID `json:"id"`
	Street string    `json:"street"`
	City   string    `json:"city"`
	State  string    `json:"state"`
	Number int       `json:"number"`
}

func toAddressDTO(a *storage.Address) addressDTO {
	return addressDTO{ID: a.ID, Street: a.Street, City: a.City, State: a.State, Number: a.Number}
}

type serviceDTO struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Centers  []uuid.UUID `json:"centers"`
}

func toServiceDTO(s *storage.Service, centers []uuid.UUID) serviceDTO {
	if centers == nil {
		centers = []uuid.UUID{}
	}
	return serviceDTO{ID: s.ID, Name: s.Name, Category: s.Category, Centers: centers}
}

// offeringDTO 为 CenterService 连接记录，内嵌完整的服务。
type offeringDTO struct {
	ID          uuid.UUID  `json:"id"`
	Service     serviceDTO `json:"service"`
	Center      uuid.UUID  `json:"center"`
	Description string     `json:"description"`
}

func toOfferingDTO(cs *storage.CenterService, centersByService map[uuid.UUID][]uuid.UUID) offeringDTO {
	out := offeringDTO{ID: cs.ID, Center: cs.CenterID, Description: cs.Description}
	if cs.Service != nil {
		out.Service = toServiceDTO(cs.Service, centersByService[cs.ServiceID])
	}
	return out
}

// centerDTO 内嵌地址，并在读取时汇总该中心的全部服务关联。
type centerDTO struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Phone    string        `json:"phone"`
	Address  *addressDTO   `json:"address"`
	Services []offeringDTO `json:"services"`
}

type commentDTO struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Mark      float64   `json:"mark"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentDTO(c *storage.Comment) commentDTO {
	out := commentDTO{ID: c.ID, Content: c.Content, Mark: c.Mark, CreatedAt: c.CreatedAt}
	if c.User != nil {
		out.User = c.User.Username
	}
	return out
}

type addressInput struct {
	Street *string `json:"street"`
	City   *string `json:"city"`
	State  *string `json:"state"`
	Number *int    `json:"number"`
}

// record 构造完整地址；字段缺失按必填处理。
func (in *addressInput) record() (*storage.Address, error) {
	if in.Number == nil {
		return nil, storage.RequiredField("number")
	}
	return &storage.Address{Street: deref(in.Street), City: deref(in.City), State: deref(in.State), Number: *in.Number}, nil
}

func (in *addressInput) patch() *services.AddressPatch {
	return &services.AddressPatch{Street: in.Street, City: in.City, State: in.State, Number: in.Number}
}

// addressRef 接受嵌套地址对象，或已有地址的 id 字符串。
type addressRef struct {
	ID     *uuid.UUID
	Nested *addressInput
}

func (r *addressRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var id uuid.UUID
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		r.ID = &id
		return nil
	}
	r.Nested = &addressInput{}
	return json.Unmarshal(b, r.Nested)
}

type centerInput struct {
	Name    string      `json:"name"`
	Phone   string      `json:"phone" binding:"ru_phone"`
	Address *addressRef `json:"address"`
}

// serviceRef 接受服务 id 字符串，或携带 id 的服务对象。
type serviceRef struct {
	ID uuid.UUID
}

func (r *serviceRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &r.ID)
	}
	var obj struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	r.ID = obj.ID
	return nil
}

type offeringInput struct {
	Center      uuid.UUID  `json:"center"`
	Service     serviceRef `json:"service"`
	Description string     `json:"description"`
}

func (in *offeringInput) record() *storage.CenterService {
	return &storage.CenterService{CenterID: in.Center, ServiceID: in.Service.ID, Description: in.Description}
}

type serviceInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// commentInput 中 id/user/created_at 由服务端赋值，调用方提供时拒绝。
type commentInput struct {
	Content   string          `json:"content"`
	Mark      *float64        `json:"mark"`
	CenterID  *uuid.UUID      `json:"center_id"`
	ID        json.RawMessage `json:"id"`
	User      json.RawMessage `json:"user"`
	CreatedAt json.RawMessage `json:"created_at"`
}

func (in *commentInput) check() error {
	for field, raw := range map[string]json.RawMessage{"id": in.ID, "user": in.User, "created_at": in.CreatedAt} {
		if raw != nil {
			return storage.InvalidField(field, "This field is read-only.")
		}
	}
	if in.Mark == nil {
		return storage.RequiredField("mark")
	}
	return nil
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
