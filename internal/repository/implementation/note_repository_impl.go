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

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) CreateDedup(ctx context.Context, note *entity.Note) error {
	var existing model.Note
	err := r.db.WithContext(ctx).
		Where("content_hash = ?", note.ContentHash).
		First(&existing).Error
	if err == nil {
		*note = *r.mapper.ToEntity(&existing)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race, keep the first-written row
			if err2 := r.db.WithContext(ctx).
				Where("content_hash = ?", note.ContentHash).
				First(&existing).Error; err2 == nil {
				*note = *r.mapper.ToEntity(&existing)
				return nil
			}
		}
		return err
	}

	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	var m model.Note
	err := specification.ByID{ID: id}.Apply(r.db.WithContext(ctx)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) GetByBookID(ctx context.Context, bookId uuid.UUID) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.db.WithContext(ctx)
	query = specification.Filter("book_id", bookId).Apply(query)
	query = specification.OrderBy{Field: "created_at"}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) GetRandom(ctx context.Context) (*entity.Note, error) {
	var m model.Note
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

func (r *NoteRepositoryImpl) FindSimilar(ctx context.Context, note *entity.Note, limit int, threshold float64) ([]*entity.Note, error) {
	if note.Embedding == nil {
		return nil, nil
	}

	queryVector := pgvector.NewVector(note.Embedding)

	var models []*model.Note
	err := r.db.WithContext(ctx).
		Where("id <> ?", note.Id).
		Where("book_id = ?", note.BookId).
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

func (r *NoteRepositoryImpl) SearchByEmbedding(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.Note, error) {
	queryVector := pgvector.NewVector(embedding)

	var models []*model.Note
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

func (r *NoteRepositoryImpl) CountWithEmbeddings(ctx context.Context) (int64, error) {
	var count int64
	query := specification.WithEmbedding{}.Apply(r.db.WithContext(ctx).Model(&model.Note{}))
	err := query.Count(&count).Error
	return count, err
}

func (r *NoteRepositoryImpl) DeleteByBookID(ctx context.Context, bookId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookId).Delete(&model.Note{}).Error
}
