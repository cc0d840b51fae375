package services

// 地址服务：地址的增删改查。删除地址会连带删除占用它的中心（与中心的一对一关系）。

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"beautycenter/internal/storage"
)

type AddressService struct{ db *gorm.DB }

func NewAddressService(db *gorm.DB) *AddressService { return &AddressService{db: db} }

func (s *AddressService) List(ctx context.Context, p Page) ([]storage.Address, error) {
	var list []storage.Address
	if err := p.apply(s.db.WithContext(ctx).Order("city ASC, street ASC, number ASC")).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *AddressService) Get(ctx context.Context, id uuid.UUID) (*storage.Address, error) {
	var a storage.Address
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *AddressService) Create(ctx context.Context, a *storage.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(a).Error
}

// Update 整体覆盖地址字段（保持同一 ID）。
func (s *AddressService) Update(ctx context.Context, a *storage.Address) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&storage.Address{}, "id = ?", a.ID).Error; err != nil {
			return notFound(err)
		}
		if err := a.Validate(); err != nil {
			return err
		}
		return saveAddress(tx, a)
	})
}

func (s *AddressService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a storage.Address
		if err := tx.First(&a, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		var owners []storage.Center
		if err := tx.Where("address_id = ?", id).Limit(1).Find(&owners).Error; err != nil {
			return err
		}
		if len(owners) > 0 {
			// deleteCenter 会一并删除该地址
			return deleteCenter(tx, &owners[0])
		}
		return tx.Delete(&storage.Address{}, "id = ?", id).Error
	})
}

// AddressPatch 描述对已有地址的部分覆盖；nil 字段保持原值。
type AddressPatch struct {
	Street *string
	City   *string
	State  *string
	Number *int
}

func (p *AddressPatch) applyTo(a *storage.Address) {
	if p.Street != nil {
		a.Street = *p.Street
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.State != nil {
		a.State = *p.State
	}
	if p.Number != nil {
		a.Number = *p.Number
	}
}

func saveAddress(tx *gorm.DB, a *storage.Address) error {
	return tx.Model(&storage.Address{Record: storage.Record{ID: a.ID}}).
		Select("street", "city", "state", "number").
		Updates(a).Error
}
