package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/uma-arai/lightbnb/internal/common/database"
	"github.com/uma-arai/lightbnb/internal/service/gateway"
)

func TestMain(m *testing.M) {
	os.Setenv("AWS_XRAY_SDK_DISABLED", "TRUE")
	os.Exit(m.Run())
}

func newTestGateway(t *testing.T) (*gateway.Gateway, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	log := zerolog.Nop()
	return gateway.New(database.New(sqlx.NewDb(mockDB, "postgres"), log), log), mock
}

func TestParseProperties(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantLimit int
		wantSet   [5]bool
	}{
		{
			name:      "指定なし",
			args:      nil,
			wantLimit: 10,
		},
		{
			name:      "都市と価格帯",
			args:      []string{"-city", "canc", "-min-price", "50", "-max-price", "150", "-limit", "3"},
			wantLimit: 3,
			wantSet:   [5]bool{true, false, true, true, false},
		},
		{
			name:      "0を明示した場合も条件になる",
			args:      []string{"-min-price", "0", "-min-rating", "0"},
			wantLimit: 10,
			wantSet:   [5]bool{false, false, true, false, true},
		},
		{
			name:      "オーナーID",
			args:      []string{"-owner-id", "7"},
			wantLimit: 10,
			wantSet:   [5]bool{false, true, false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, limit, err := parseProperties(tt.args)
			if err != nil {
				t.Fatalf("parseProperties() error = %v", err)
			}
			if limit != tt.wantLimit {
				t.Errorf("limit = %v, want %v", limit, tt.wantLimit)
			}
			got := [5]bool{
				filter.City != nil,
				filter.OwnerID != nil,
				filter.MinimumPricePerNight != nil,
				filter.MaximumPricePerNight != nil,
				filter.MinimumRating != nil,
			}
			if got != tt.wantSet {
				t.Errorf("set filters = %v, want %v", got, tt.wantSet)
			}
		})
	}
}

func TestParseProperties_FractionalPrice(t *testing.T) {
	filter, _, err := parseProperties([]string{"-min-price", "49.99", "-max-price", "120.5"})
	if err != nil {
		t.Fatalf("parseProperties() error = %v", err)
	}
	if got, ok := filter.MinimumCost(); !ok || got != 4999 {
		t.Errorf("MinimumCost() = (%v, %v), want (4999, true)", got, ok)
	}
	if got, ok := filter.MaximumCost(); !ok || got != 12050 {
		t.Errorf("MaximumCost() = (%v, %v), want (12050, true)", got, ok)
	}
}

func TestRun(t *testing.T) {
	userCols := []string{"id", "name", "email", "password"}

	tests := []struct {
		name       string
		args       []string
		stdin      string
		setup      func(mock sqlmock.Sqlmock)
		wantErr    bool
		wantOutput string
	}{
		{
			name: "ユーザーをメールアドレスで取得",
			args: []string{"user-by-email", "-email", "tristanjacobs@gmail.com"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WithArgs("tristanjacobs@gmail.com").
					WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "Devin Sanders", "tristanjacobs@gmail.com", "password"))
			},
			wantOutput: `"name": "Devin Sanders"`,
		},
		{
			name: "DBエラーでもnullを出力",
			args: []string{"user-by-id", "-id", "1"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("connection refused"))
			},
			wantOutput: "null",
		},
		{
			name: "strictではDBエラーを返す",
			args: []string{"-strict", "user-by-id", "-id", "1"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
		{
			name: "一覧のDBエラーは空配列",
			args: []string{"properties", "-city", "canc"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`properties.city ILIKE $1`)).
					WithArgs("%canc%", 10).
					WillReturnError(errors.New("connection refused"))
			},
			wantOutput: "[]",
		},
		{
			name:    "不明なコマンド",
			args:    []string{"delete-everything"},
			setup:   func(mock sqlmock.Sqlmock) {},
			wantErr: true,
		},
		{
			name:    "コマンドなし",
			args:    nil,
			setup:   func(mock sqlmock.Sqlmock) {},
			wantErr: true,
		},
		{
			name:    "物件JSONの不明なフィールド",
			args:    []string{"create-property"},
			stdin:   `{"owner_id": 1, "colour": "blue"}`,
			setup:   func(mock sqlmock.Sqlmock) {},
			wantErr: true,
		},
		{
			name:  "物件を作成",
			args:  []string{"create-property"},
			stdin: `{"owner_id": 1, "title": "Cabin", "cost_per_night": 12000, "city": "Whistler"}`,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO properties`)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "cost_per_night", "city"}).
						AddRow(9, 1, "Cabin", 12000, "Whistler"))
			},
			wantOutput: `"cost_per_night": 12000`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, mock := newTestGateway(t)
			tt.setup(mock)

			var out bytes.Buffer
			err := run(context.Background(), tt.args, strings.NewReader(tt.stdin), &out, gw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantOutput != "" && !strings.Contains(out.String(), tt.wantOutput) {
				t.Errorf("output = %s, want to contain %s", out.String(), tt.wantOutput)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}
