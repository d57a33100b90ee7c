package repository

import (
	"context"

	"github.com/uma-arai/lightbnb/internal/model"
)

const userColumns = `id, name, email, password`

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, params model.CreateUserParams) (*model.User, error)
}

type UserRepositoryImpl struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

// GetByEmail はメールアドレスが完全一致するユーザーを取得します
func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, done := r.db.beginSubsegment(ctx, "UserRepository.GetByEmail")

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
		LIMIT 1
	`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		err = wrapError("get user by email", err)
		done(err)
		return nil, err
	}

	done(nil)
	return &user, nil
}

// GetByID は主キーでユーザーを取得します
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.User, error) {
	ctx, done := r.db.beginSubsegment(ctx, "UserRepository.GetByID")

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		err = wrapError("get user by id", err)
		done(err)
		return nil, err
	}

	done(nil)
	return &user, nil
}

// Create はユーザーを作成し、採番されたIDを含む行を返します
// メールアドレスの重複は KindConflict の QueryError になります
func (r *UserRepositoryImpl) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	ctx, done := r.db.beginSubsegment(ctx, "UserRepository.Create")

	query := `
		INSERT INTO users (
			name, email, password
		) VALUES (
			$1, $2, $3
		)
		RETURNING ` + userColumns

	var user model.User
	err := r.db.GetContext(ctx, &user, query, params.Name, params.Email, params.Password)
	if err != nil {
		err = wrapError("create user", err)
		done(err)
		return nil, err
	}

	done(nil)
	return &user, nil
}
