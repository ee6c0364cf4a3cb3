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

type TweetThreadRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TweetThreadMapper
}

func NewTweetThreadRepository(db *gorm.DB) contract.TweetThreadRepository {
	return &TweetThreadRepositoryImpl{
		db:     db,
		mapper: mapper.NewTweetThreadMapper(),
	}
}

func (r *TweetThreadRepositoryImpl) Create(ctx context.Context, thread *entity.TweetThread) error {
	m := r.mapper.ToModel(thread)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing model.TweetThread
			if err2 := r.db.WithContext(ctx).
				Where("root_tweet_id = ?", thread.RootTweetID).
				First(&existing).Error; err2 == nil {
				*thread = *r.mapper.ToEntity(&existing)
				return nil
			}
		}
		return err
	}
	*thread = *r.mapper.ToEntity(m)
	return nil
}

func (r *TweetThreadRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entity.TweetThread, error) {
	var m model.TweetThread
	err := specification.ByID{ID: id}.Apply(r.db.WithContext(ctx)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TweetThreadRepositoryImpl) GetByRootTweetID(ctx context.Context, rootTweetID string) (*entity.TweetThread, error) {
	var m model.TweetThread
	err := r.db.WithContext(ctx).Where("root_tweet_id = ?", rootTweetID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TweetThreadRepositoryImpl) List(ctx context.Context) ([]*entity.TweetThread, error) {
	var models []*model.TweetThread
	query := specification.OrderBy{Field: "created_at", Desc: true}.Apply(r.db.WithContext(ctx))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TweetThreadRepositoryImpl) UpdateTweetCount(ctx context.Context, id uuid.UUID, count int) error {
	return r.db.WithContext(ctx).
		Model(&model.TweetThread{}).
		Where("id = ?", id).
		Update("tweet_count", count).Error
}

func (r *TweetThreadRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TweetThread{}, id).Error
}
