package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/uma-arai/lightbnb/internal/model"
)

var userColumnNames = []string{"id", "name", "email", "password"}

func TestUserRepository_GetByEmail(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		setup        func(mock sqlmock.Sqlmock)
		want         *model.User
		wantNotFound bool
		wantErr      bool
	}{
		{
			name:  "登録済みのメールアドレス",
			email: "tristanjacobs@gmail.com",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM users`) + `\s+WHERE email = \$1`).
					WithArgs("tristanjacobs@gmail.com").
					WillReturnRows(sqlmock.NewRows(userColumnNames).
						AddRow(1, "Devin Sanders", "tristanjacobs@gmail.com", "password"))
			},
			want: &model.User{ID: 1, Name: "Devin Sanders", Email: "tristanjacobs@gmail.com", Password: "password"},
		},
		{
			name:  "未登録のメールアドレス",
			email: "nobody@example.com",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WithArgs("nobody@example.com").
					WillReturnRows(sqlmock.NewRows(userColumnNames))
			},
			wantNotFound: true,
			wantErr:      true,
		},
		{
			name:  "DBエラー",
			email: "tristanjacobs@gmail.com",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WillReturnError(errors.New("connection reset by peer"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			repo := NewUserRepository(db)
			got, err := repo.GetByEmail(context.Background(), tt.email)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetByEmail() error = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrNotFound) != tt.wantNotFound {
				t.Errorf("errors.Is(err, ErrNotFound) = %v, want %v", !tt.wantNotFound, tt.wantNotFound)
			}
			if tt.want != nil && *got != *tt.want {
				t.Errorf("GetByEmail() = %+v, want %+v", got, tt.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users`) + `\s+WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(userColumnNames).
			AddRow(42, "Elliot Smith", "elliot@example.com", "secret"))

	repo := NewUserRepository(db)
	got, err := repo.GetByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ID != 42 || got.Email != "elliot@example.com" {
		t.Errorf("GetByID() = %+v", got)
	}

	mock.ExpectQuery(`FROM users`).
		WithArgs(int64(43)).
		WillReturnRows(sqlmock.NewRows(userColumnNames))
	if _, err := repo.GetByID(context.Background(), 43); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUserRepository_Create(t *testing.T) {
	params := model.CreateUserParams{Name: "Kira", Email: "kira@example.com", Password: "hunter2"}

	tests := []struct {
		name     string
		setup    func(mock sqlmock.Sqlmock)
		wantErr  bool
		wantKind Kind
	}{
		{
			name: "作成成功",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
					WithArgs(params.Name, params.Email, params.Password).
					WillReturnRows(sqlmock.NewRows(userColumnNames).
						AddRow(1001, params.Name, params.Email, params.Password))
			},
		},
		{
			name: "メールアドレス重複",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
					WithArgs(params.Name, params.Email, params.Password).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
			},
			wantErr:  true,
			wantKind: KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			got, err := NewUserRepository(db).Create(context.Background(), params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if KindOf(err) != tt.wantKind {
					t.Errorf("KindOf() = %v, want %v", KindOf(err), tt.wantKind)
				}
			} else {
				if got.ID != 1001 {
					t.Errorf("Create().ID = %v, want %v", got.ID, 1001)
				}
				if got.Name != params.Name || got.Email != params.Email || got.Password != params.Password {
					t.Errorf("Create() = %+v, want fields of %+v", got, params)
				}
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}
