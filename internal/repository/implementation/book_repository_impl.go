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

type BookRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookMapper
}

func NewBookRepository(db *gorm.DB) contract.BookRepository {
	return &BookRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookMapper(),
	}
}

func (r *BookRepositoryImpl) CreateDedup(ctx context.Context, book *entity.Book) error {
	var existing model.Book
	err := r.db.WithContext(ctx).
		Where("title = ? AND author = ?", book.Title, book.Author).
		First(&existing).Error
	if err == nil {
		*book = *r.mapper.ToEntity(&existing)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	m := r.mapper.ToModel(book)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		// A concurrent ingestion may have inserted the same pair between the
		// lookup and the insert. The unique constraint decides the winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err2 := r.db.WithContext(ctx).
				Where("title = ? AND author = ?", book.Title, book.Author).
				First(&existing).Error; err2 == nil {
				*book = *r.mapper.ToEntity(&existing)
				return nil
			}
		}
		return err
	}

	*book = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	var m model.Book
	err := specification.ByID{ID: id}.Apply(r.db.WithContext(ctx)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookRepositoryImpl) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Book, error) {
	var models []*model.Book
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookRepositoryImpl) List(ctx context.Context) ([]*entity.Book, error) {
	var models []*model.Book
	query := specification.OrderBy{Field: "created_at", Desc: true}.Apply(r.db.WithContext(ctx))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Book{}, id).Error
}
