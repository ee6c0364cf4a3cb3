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
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type URLChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.URLChunkMapper
}

func NewURLChunkRepository(db *gorm.DB) contract.URLChunkRepository {
	return &URLChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewURLChunkMapper(),
	}
}

func (r *URLChunkRepositoryImpl) CreateDedup(ctx context.Context, chunk *entity.URLChunk) error {
	var existing model.URLChunk
	err := r.db.WithContext(ctx).
		Where("content_hash = ?", chunk.ContentHash).
		First(&existing).Error
	if err == nil {
		*chunk = *r.mapper.ToEntity(&existing)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err2 := r.db.WithContext(ctx).
				Where("content_hash = ?", chunk.ContentHash).
				First(&existing).Error; err2 == nil {
				*chunk = *r.mapper.ToEntity(&existing)
				return nil
			}
		}
		return err
	}

	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *URLChunkRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entity.URLChunk, error) {
	var m model.URLChunk
	err := specification.ByID{ID: id}.Apply(r.db.WithContext(ctx)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *URLChunkRepositoryImpl) GetByURLID(ctx context.Context, urlId uuid.UUID) ([]*entity.URLChunk, error) {
	var models []*model.URLChunk
	query := r.db.WithContext(ctx)
	query = specification.Filter("url_id", urlId).Apply(query)
	query = specification.OrderBy{Field: "chunk_order"}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *URLChunkRepositoryImpl) GetRandom(ctx context.Context) (*entity.URLChunk, error) {
	var m model.URLChunk
	query := specification.WithEmbedding{}.Apply(r.db.WithContext(ctx))
	err := query.Order("RANDOM()").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *URLChunkRepositoryImpl) FindSimilar(ctx context.Context, chunk *entity.URLChunk, limit int, threshold float64) ([]*entity.URLChunk, error) {
	if chunk.Embedding == nil {
		return nil, nil
	}

	queryVector := pgvector.NewVector(chunk.Embedding)

	var models []*model.URLChunk
	err := r.db.WithContext(ctx).
		Where("id <> ?", chunk.Id).
		Where("url_id = ?", chunk.URLId).
		Where("embedding IS NOT NULL").
		Where("(embedding <=> ?) <= ?", queryVector, threshold).
		Order(gorm.Expr("embedding <=> ?", queryVector)).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *URLChunkRepositoryImpl) SearchByEmbedding(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.URLChunk, error) {
	queryVector := pgvector.NewVector(embedding)

	var models []*model.URLChunk
	err := r.db.WithContext(ctx).
		Where("embedding IS NOT NULL").
		Where("(embedding <=> ?) <= ?", queryVector, threshold).
		Order(gorm.Expr("embedding <=> ?", queryVector)).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *URLChunkRepositoryImpl) CountWithEmbeddings(ctx context.Context) (int64, error) {
	var count int64
	query := specification.WithEmbedding{}.Apply(r.db.WithContext(ctx).Model(&model.URLChunk{}))
	err := query.Count(&count).Error
	return count, err
}

func (r *URLChunkRepositoryImpl) DeleteByURLID(ctx context.Context, urlId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("url_id = ?", urlId).Delete(&model.URLChunk{}).Error
}
