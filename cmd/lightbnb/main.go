package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/lightbnb/internal/common/config"
	"github.com/uma-arai/lightbnb/internal/common/database"
	"github.com/uma-arai/lightbnb/internal/common/logger"
	"github.com/uma-arai/lightbnb/internal/service/gateway"
)

const (
	projectName = "lightbnb-cli"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fallback := logger.New(config.Default().Log)
		fallback.Fatal().Err(err).Msg("Failed to load config")
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}

	gw := gateway.New(db, log)
	err = traced(ctx, cfg.Tracing.Enabled, func(ctx context.Context) error {
		return run(ctx, os.Args[1:], os.Stdin, os.Stdout, gw)
	})
	db.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// traced はトレース有効時にセグメントを開始して fn を実行します
// リポジトリのサブセグメントはこのセグメントにぶら下がります
func traced(ctx context.Context, enabled bool, fn func(context.Context) error) error {
	if !enabled {
		return fn(ctx)
	}

	ctx, seg := xray.BeginSegment(ctx, projectName)
	err := fn(ctx)
	seg.Close(err)
	return err
}
