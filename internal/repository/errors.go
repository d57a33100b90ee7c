package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Kind はクエリ失敗の分類です
type Kind int

const (
	KindOther Kind = iota
	KindConflict
	KindForeignKey
	KindNotNull
	KindCheck
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindForeignKey:
		return "foreign_key"
	case KindNotNull:
		return "not_null"
	case KindCheck:
		return "check"
	default:
		return "other"
	}
}

// QueryError はデータベース呼び出しの失敗を表します
// 接続断、制約違反、構文エラーのいずれもここに含まれ、Kindで区別します
type QueryError struct {
	Op         string
	Kind       Kind
	Code       string // SQLSTATE, empty when the error did not come from the server
	Constraint string
	Err        error
}

func (e *QueryError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Op, e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// wrapError converts a driver error into ErrNotFound or a *QueryError.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	qe := &QueryError{Op: op, Kind: KindOther, Err: err}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		qe.Code = string(pqErr.Code)
		qe.Constraint = pqErr.Constraint
		qe.Kind = kindFromCode(pqErr.Code)
	}
	return qe
}

func kindFromCode(code pq.ErrorCode) Kind {
	switch code.Name() {
	case "unique_violation":
		return KindConflict
	case "foreign_key_violation":
		return KindForeignKey
	case "not_null_violation":
		return KindNotNull
	case "check_violation":
		return KindCheck
	default:
		return KindOther
	}
}

// KindOf reports the Kind of err, or KindOther when err is not a *QueryError.
func KindOf(err error) Kind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return KindOther
}
