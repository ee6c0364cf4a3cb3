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

type TweetRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TweetMapper
}

func NewTweetRepository(db *gorm.DB) contract.TweetRepository {
	return &TweetRepositoryImpl{
		db:     db,
		mapper: mapper.NewTweetMapper(),
	}
}

func (r *TweetRepositoryImpl) CreateDedup(ctx context.Context, tweet *entity.Tweet) error {
	var existing model.Tweet
	err := r.db.WithContext(ctx).
		Where("content_hash = ?", tweet.ContentHash).
		First(&existing).Error
	if err == nil {
		*tweet = *r.mapper.ToEntity(&existing)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	m := r.mapper.ToModel(tweet)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err2 := r.db.WithContext(ctx).
				Where("content_hash = ?", tweet.ContentHash).
				First(&existing).Error; err2 == nil {
				*tweet = *r.mapper.ToEntity(&existing)
				return nil
			}
		}
		return err
	}

	*tweet = *r.mapper.ToEntity(m)
	return nil
}

func (r *TweetRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entity.Tweet, error) {
	var m model.Tweet
	err := specification.ByID{ID: id}.Apply(r.db.WithContext(ctx)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TweetRepositoryImpl) GetByThreadID(ctx context.Context, threadId uuid.UUID) ([]*entity.Tweet, error) {
	var models []*model.Tweet
	query := r.db.WithContext(ctx)
	query = specification.Filter("thread_id", threadId).Apply(query)
	query = specification.OrderBy{Field: "position_in_thread"}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TweetRepositoryImpl) FindSimilar(ctx context.Context, tweet *entity.Tweet, limit int, threshold float64) ([]*entity.Tweet, error) {
	if tweet.Embedding == nil {
		return nil, nil
	}

	queryVector := pgvector.NewVector(tweet.Embedding)

	var models []*model.Tweet
	err := r.db.WithContext(ctx).
		Where("id <> ?", tweet.Id).
		Where("thread_id = ?", tweet.ThreadId).
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

func (r *TweetRepositoryImpl) SearchByEmbedding(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.Tweet, error) {
	queryVector := pgvector.NewVector(embedding)

	var models []*model.Tweet
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

func (r *TweetRepositoryImpl) CountWithEmbeddings(ctx context.Context) (int64, error) {
	var count int64
	query := specification.WithEmbedding{}.Apply(r.db.WithContext(ctx).Model(&model.Tweet{}))
	err := query.Count(&count).Error
	return count, err
}

func (r *TweetRepositoryImpl) DeleteByThreadID(ctx context.Context, threadId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("thread_id = ?", threadId).Delete(&model.Tweet{}).Error
}
