package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestWithinTxCommits(t *testing.T) {
	db, mock := newMock(t)
	m := NewTxManager(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM construction_materials")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.WithinTx(context.Background(), func(ex SQLExecutor) error {
		return NewMaterialRepository(db).DeleteMaterial(context.Background(), ex, 1)
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
	verify(t, mock)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	m := NewTxManager(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := m.WithinTx(context.Background(), func(SQLExecutor) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	verify(t, mock)
}
