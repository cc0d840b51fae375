package services

// 中心服务：中心与其独占地址作为一个整体写入；services 列表在读取时由连接表聚合得到。

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"beautycenter/internal/storage"
)

type CenterService struct{ db *gorm.DB }

func NewCenterService(db *gorm.DB) *CenterService { return &CenterService{db: db} }

func (s *CenterService) List(ctx context.Context, p Page) ([]storage.Center, error) {
	var list []storage.Center
	q := s.db.WithContext(ctx).Preload("Address").Order("name ASC")
	if err := p.apply(q).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *CenterService) Get(ctx context.Context, id uuid.UUID) (*storage.Center, error) {
	var c storage.Center
	if err := s.db.WithContext(ctx).Preload("Address").First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Exists 判断中心是否存在。
func (s *CenterService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return centerExists(s.db.WithContext(ctx), id)
}

// Create 在同一事务内先创建地址再创建引用它的中心；任一步失败则均不落库。
func (s *CenterService) Create(ctx context.Context, c *storage.Center, addr *storage.Address) error {
	if addr == nil {
		return storage.RequiredField("address")
	}
	if err := addr.Validate(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(addr).Error; err != nil {
			return err
		}
		c.AddressID = addr.ID
		c.Address = nil
		if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
			return err
		}
		c.Address = addr
		return nil
	})
}

// CreateWithAddressID 创建引用已有地址的中心；地址必须存在且未被其它中心占用。
func (s *CenterService) CreateWithAddressID(ctx context.Context, c *storage.Center, addressID uuid.UUID) error {
	if addressID == uuid.Nil {
		return storage.RequiredField("address")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var addr storage.Address
		if err := tx.First(&addr, "id = ?", addressID).Error; err != nil {
			if notFound(err) == ErrNotFound {
				return storage.InvalidField("address_id", "Invalid address ID.")
			}
			return err
		}
		var owners int64
		if err := tx.Model(&storage.Center{}).Where("address_id = ?", addressID).Count(&owners).Error; err != nil {
			return err
		}
		if owners > 0 {
			return storage.InvalidField("address_id", "This address already belongs to a center.")
		}
		c.AddressID = addr.ID
		c.Address = nil
		if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
			return err
		}
		c.Address = &addr
		return nil
	})
}

// CenterPatch 为中心的整体更新；Address 非空时原地覆盖已有地址的对应字段。
type CenterPatch struct {
	Name    string
	Phone   string
	Address *AddressPatch
}

func (s *CenterService) Update(ctx context.Context, id uuid.UUID, p CenterPatch) (*storage.Center, error) {
	var out storage.Center
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Address").First(&out, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		out.Name = p.Name
		out.Phone = p.Phone
		if err := out.Validate(); err != nil {
			return err
		}
		if p.Address != nil {
			if out.Address == nil {
				return storage.RequiredField("address")
			}
			p.Address.applyTo(out.Address)
			if err := out.Address.Validate(); err != nil {
				return err
			}
			if err := saveAddress(tx, out.Address); err != nil {
				return err
			}
		}
		return tx.Model(&storage.Center{Record: storage.Record{ID: out.ID}}).
			Select("name", "phone").
			Updates(&storage.Center{Name: out.Name, Phone: out.Phone}).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete 删除中心及其地址、评论与服务关联。
func (s *CenterService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c storage.Center
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		return deleteCenter(tx, &c)
	})
}

// Offerings 返回给定中心的服务关联（含嵌套 Service），按中心 ID 分组。
func (s *CenterService) Offerings(ctx context.Context, centerIDs ...uuid.UUID) (map[uuid.UUID][]storage.CenterService, error) {
	out := make(map[uuid.UUID][]storage.CenterService, len(centerIDs))
	if len(centerIDs) == 0 {
		return out, nil
	}
	var rows []storage.CenterService
	err := s.db.WithContext(ctx).
		Preload("Service").
		Where("center_id IN ?", centerIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.CenterID] = append(out[r.CenterID], r)
	}
	return out, nil
}

func centerExists(db *gorm.DB, id uuid.UUID) (bool, error) {
	var n int64
	if err := db.Model(&storage.Center{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// deleteCenter 需在事务内调用：依次删除评论、服务关联、中心本身与其地址。
func deleteCenter(tx *gorm.DB, c *storage.Center) error {
	if err := tx.Where("center_id = ?", c.ID).Delete(&storage.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("center_id = ?", c.ID).Delete(&storage.CenterService{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&storage.Center{}, "id = ?", c.ID).Error; err != nil {
		return err
	}
	return tx.Delete(&storage.Address{}, "id = ?", c.AddressID).Error
}
