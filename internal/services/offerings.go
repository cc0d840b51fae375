package services

// 服务关联（CenterService 连接记录）：某中心提供某服务，并附带描述。

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"beautycenter/internal/storage"
)

// OfferingService 管理 Center 与 Service 之间的连接记录。
type OfferingService struct{ db *gorm.DB }

func NewOfferingService(db *gorm.DB) *OfferingService { return &OfferingService{db: db} }

func (s *OfferingService) List(ctx context.Context, p Page) ([]storage.CenterService, error) {
	var list []storage.CenterService
	q := s.db.WithContext(ctx).Preload("Service").Order("id ASC")
	if err := p.apply(q).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByCenter 返回某中心的全部服务关联；中心不存在时返回 ErrNotFound。
func (s *OfferingService) ListByCenter(ctx context.Context, centerID uuid.UUID) ([]storage.CenterService, error) {
	db := s.db.WithContext(ctx)
	ok, err := centerExists(db, centerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	var list []storage.CenterService
	if err := db.Preload("Service").Where("center_id = ?", centerID).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *OfferingService) Get(ctx context.Context, id uuid.UUID) (*storage.CenterService, error) {
	var cs storage.CenterService
	if err := s.db.WithContext(ctx).Preload("Service").First(&cs, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &cs, nil
}

func (s *OfferingService) Create(ctx context.Context, cs *storage.CenterService) error {
	if err := cs.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		svc, err := resolveRefs(tx, cs)
		if err != nil {
			return err
		}
		cs.Center, cs.Service = nil, nil
		if err := tx.Omit(clause.Associations).Create(cs).Error; err != nil {
			return err
		}
		cs.Service = svc
		return nil
	})
}

func (s *OfferingService) Update(ctx context.Context, cs *storage.CenterService) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&storage.CenterService{}, "id = ?", cs.ID).Error; err != nil {
			return notFound(err)
		}
		if err := cs.Validate(); err != nil {
			return err
		}
		svc, err := resolveRefs(tx, cs)
		if err != nil {
			return err
		}
		err = tx.Model(&storage.CenterService{Record: storage.Record{ID: cs.ID}}).
			Select("center_id", "service_id", "description").
			Updates(&storage.CenterService{CenterID: cs.CenterID, ServiceID: cs.ServiceID, Description: cs.Description}).Error
		if err != nil {
			return err
		}
		cs.Service = svc
		return nil
	})
}

func (s *OfferingService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&storage.CenterService{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// resolveRefs 确认中心与服务均存在，返回服务记录以便嵌套输出。
func resolveRefs(tx *gorm.DB, cs *storage.CenterService) (*storage.Service, error) {
	ok, err := centerExists(tx, cs.CenterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, storage.InvalidField("center", "Invalid pk \""+cs.CenterID.String()+"\" - object does not exist.")
	}
	var svc storage.Service
	if err := tx.First(&svc, "id = ?", cs.ServiceID).Error; err != nil {
		if notFound(err) == ErrNotFound {
			return nil, storage.InvalidField("service", "Invalid pk \""+cs.ServiceID.String()+"\" - object does not exist.")
		}
		return nil, err
	}
	return &svc, nil
}
