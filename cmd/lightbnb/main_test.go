package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-xray-sdk-go/xray"
)

func TestTraced(t *testing.T) {
	errRun := errors.New("run failed")

	tests := []struct {
		name        string
		enabled     bool
		runErr      error
		wantSegment bool
	}{
		{name: "トレース無効ではセグメントを開始しない", enabled: false},
		{name: "トレース有効ではセグメントを開始する", enabled: true, wantSegment: true},
		{name: "エラーはそのまま返す", enabled: true, runErr: errRun, wantSegment: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := traced(context.Background(), tt.enabled, func(ctx context.Context) error {
				called = true
				if got := xray.GetSegment(ctx) != nil; got != tt.wantSegment {
					t.Errorf("segment in context = %v, want %v", got, tt.wantSegment)
				}
				return tt.runErr
			})
			if !called {
				t.Fatal("fn was not called")
			}
			if !errors.Is(err, tt.runErr) {
				t.Errorf("traced() error = %v, want %v", err, tt.runErr)
			}
		})
	}
}
