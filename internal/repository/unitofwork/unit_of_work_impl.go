package unitofwork

import (
	"context"
	"fmt"

	"ai-recall-be/internal/repository/contract"
	"ai-recall-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) BookRepository() contract.BookRepository {
	return implementation.NewBookRepository(u.getDB())
}

func (u *UnitOfWorkImpl) NoteRepository() contract.NoteRepository {
	return implementation.NewNoteRepository(u.getDB())
}

func (u *UnitOfWorkImpl) URLRepository() contract.URLRepository {
	return implementation.NewURLRepository(u.getDB())
}

func (u *UnitOfWorkImpl) URLChunkRepository() contract.URLChunkRepository {
	return implementation.NewURLChunkRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TweetThreadRepository() contract.TweetThreadRepository {
	return implementation.NewTweetThreadRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TweetRepository() contract.TweetRepository {
	return implementation.NewTweetRepository(u.getDB())
}

func (u *UnitOfWorkImpl) EvaluationRepository() contract.EvaluationRepository {
	return implementation.NewEvaluationRepository(u.getDB())
}
