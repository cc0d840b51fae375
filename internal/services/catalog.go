package services

// 服务目录：Service 记录的增删改查，以及读取时计算提供该服务的中心列表。

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"beautycenter/internal/storage"
)

// CatalogService 管理 Service 记录（美容服务项目）。
type CatalogService struct{ db *gorm.DB }

func NewCatalogService(db *gorm.DB) *CatalogService { return &CatalogService{db: db} }

func (s *CatalogService) List(ctx context.Context, p Page) ([]storage.Service, error) {
	var list []storage.Service
	if err := p.apply(s.db.WithContext(ctx).Order("name ASC")).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*storage.Service, error) {
	var svc storage.Service
	if err := s.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

func (s *CatalogService) Create(ctx context.Context, svc *storage.Service) error {
	if err := svc.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(svc).Error
}

func (s *CatalogService) Update(ctx context.Context, svc *storage.Service) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&storage.Service{}, "id = ?", svc.ID).Error; err != nil {
			return notFound(err)
		}
		if err := svc.Validate(); err != nil {
			return err
		}
		return tx.Model(&storage.Service{Record: storage.Record{ID: svc.ID}}).
			Select("name", "category").
			Updates(svc).Error
	})
}

// Delete 删除服务及其全部中心关联。
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&storage.Service{}, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("service_id = ?", id).Delete(&storage.CenterService{}).Error; err != nil {
			return err
		}
		return tx.Delete(&storage.Service{}, "id = ?", id).Error
	})
}

// CenterIDs 返回提供各服务的中心 ID（去重），按服务 ID 分组。
func (s *CatalogService) CenterIDs(ctx context.Context, serviceIDs ...uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(serviceIDs))
	if len(serviceIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ServiceID uuid.UUID
		CenterID  uuid.UUID
	}
	err := s.db.WithContext(ctx).
		Model(&storage.CenterService{}).
		Distinct("service_id", "center_id").
		Where("service_id IN ?", serviceIDs).
		Order("center_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ServiceID] = append(out[r.ServiceID], r.CenterID)
	}
	return out, nil
}
