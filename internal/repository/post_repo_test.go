package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"mini_blog/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostRepository_Create(t *testing.T) {
	store, mock, cleanup := newMockStore(t, db.DialectSQLite)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertPostSQL)).
		WithArgs("A", "B").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	id, err := NewPostRepository(store).Create(context.Background(), "A", "B")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 1 {
		t.Fatalf("want id 1, got %d", id)
	}
}

func TestPostRepository_CreateError(t *testing.T) {
	store, mock, cleanup := newMockStore(t, db.DialectSQLite)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertPostSQL)).
		WithArgs("A", "B").
		WillReturnError(errors.New("NOT NULL constraint failed"))
	mock.ExpectRollback()

	if _, err := NewPostRepository(store).Create(context.Background(), "A", "B"); err == nil {
		t.Fatal("expected error")
	}
}

func TestPostRepository_List(t *testing.T) {
	store, mock, cleanup := newMockStore(t, db.DialectSQLite)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectPostSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}).
			AddRow(int64(1), "A", "B").
			AddRow(int64(2), "A", "B"))

	posts, err := NewPostRepository(store).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("want 2 posts, got %d", len(posts))
	}
	for i, p := range posts {
		if p.ID != i+1 || p.Title != "A" || p.Content != "B" {
			t.Fatalf("unexpected post %d: %+v", i, p)
		}
	}
}

func TestPostRepository_ListEmptyIsNotNil(t *testing.T) {
	store, mock, cleanup := newMockStore(t, db.DialectSQLite)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectPostSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}))

	posts, err := NewPostRepository(store).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", posts)
	}
}
