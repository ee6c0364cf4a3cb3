package implementation

import (
	"context"
	"errors"

	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/mapper"
	"ai-recall-be/internal/model"
	"ai-recall-be/internal/repository/contract"
	"ai-recall-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type URLRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.URLMapper
}

func NewURLRepository(db *gorm.DB) contract.URLRepository {
	return &URLRepositoryImpl{
		db:     db,
		mapper: mapper.NewURLMapper(),
	}
}

func (r *URLRepositoryImpl) Create(ctx context.Context, url *entity.URL) error {
	m := r.mapper.ToModel(url)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent ingestion of the same URL, keep the surviving row
			var existing model.URL
			if err2 := r.db.WithContext(ctx).
				Where("url = ?", url.URL).
				First(&existing).Error; err2 == nil {
				*url = *r.mapper.ToEntity(&existing)
				return nil
			}
		}
		return err
	}
	*url = *r.mapper.ToEntity(m)
	return nil
}

func (r *URLRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entity.URL, error) {
	var m model.URL
	err := specification.ByID{ID: id}.Apply(r.db.WithContext(ctx)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *URLRepositoryImpl) GetByURL(ctx context.Context, url string) (*entity.URL, error) {
	var m model.URL
	err := r.db.WithContext(ctx).Where("url = ?", url).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *URLRepositoryImpl) List(ctx context.Context) ([]*entity.URL, error) {
	var models []*model.URL
	query := specification.OrderBy{Field: "created_at", Desc: true}.Apply(r.db.WithContext(ctx))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *URLRepositoryImpl) UpdateChunkCount(ctx context.Context, id uuid.UUID, count int) error {
	return r.db.WithContext(ctx).
		Model(&model.URL{}).
		Where("id = ?", id).
		Update("chunk_count", count).Error
}

func (r *URLRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.URL{}, id).Error
}
