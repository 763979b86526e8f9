package postgres

import (
	"context"
	"database/sql"
	"lesson-media/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) LessonRepo() port.LessonRepository {
	if u.tx != nil {
		return NewSqlLessonRepository(u.tx)
	}
	return NewSqlLessonRepository(u.db)
}

func (u *sqlUnitOfWork) AttachmentRepo() port.AttachmentRepository {
	if u.tx != nil {
		return NewSqlAttachmentRepository(u.tx)
	}
	return NewSqlAttachmentRepository(u.db)
}

func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
