package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNotFound bool
		wantKind     Kind
	}{
		{
			name:         "0件はErrNotFound",
			err:          sql.ErrNoRows,
			wantNotFound: true,
		},
		{
			name:     "一意制約違反",
			err:      &pq.Error{Code: "23505", Constraint: "users_email_key"},
			wantKind: KindConflict,
		},
		{
			name:     "外部キー制約違反",
			err:      &pq.Error{Code: "23503"},
			wantKind: KindForeignKey,
		},
		{
			name:     "NOT NULL制約違反",
			err:      &pq.Error{Code: "23502"},
			wantKind: KindNotNull,
		},
		{
			name:     "CHECK制約違反",
			err:      &pq.Error{Code: "23514"},
			wantKind: KindCheck,
		},
		{
			name:     "構文エラー",
			err:      &pq.Error{Code: "42601"},
			wantKind: KindOther,
		},
		{
			name:     "ラップされたドライバエラー",
			err:      fmt.Errorf("exec: %w", &pq.Error{Code: "23505"}),
			wantKind: KindConflict,
		},
		{
			name:     "接続エラー",
			err:      errors.New("dial tcp: connection refused"),
			wantKind: KindOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapError("op", tt.err)

			if errors.Is(got, ErrNotFound) != tt.wantNotFound {
				t.Fatalf("errors.Is(ErrNotFound) = %v, want %v (err = %v)", !tt.wantNotFound, tt.wantNotFound, got)
			}
			if tt.wantNotFound {
				return
			}

			var qe *QueryError
			if !errors.As(got, &qe) {
				t.Fatalf("wrapError() = %T, want *QueryError", got)
			}
			if qe.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", qe.Kind, tt.wantKind)
			}
			if KindOf(got) != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", KindOf(got), tt.wantKind)
			}
			if !errors.Is(got, tt.err) {
				t.Error("QueryError does not unwrap to the driver error")
			}
		})
	}
}

func TestWrapError_Nil(t *testing.T) {
	if err := wrapError("op", nil); err != nil {
		t.Errorf("wrapError(nil) = %v, want nil", err)
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != KindOther {
		t.Errorf("KindOf() = %v, want %v", got, KindOther)
	}
}
