package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/lightbnb/internal/common/config"
	"github.com/uma-arai/lightbnb/internal/common/logger"
	"github.com/uma-arai/lightbnb/internal/common/utils"
	"github.com/uma-arai/lightbnb/internal/service/batch"
)

const (
	projectName = "lightbnb-history"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "バッチ処理のタイムアウト時間")
	guestID := flag.Int64("guest-id", 0, "滞在履歴を取得するゲストID")
	limit := flag.Int("limit", 10, "取得する最大件数")
	flag.Parse()

	// 設定の読み込み
	cfg, err := config.LoadConfig()
	if err != nil {
		fallback := logger.New(config.Default().Log)
		fallback.Fatal().Err(err).Msg("Failed to load config")
	}
	log := logger.New(cfg.Log).With().Str("service", projectName).Logger()

	if err := applyTaskToken(cfg, flag.Args()); err != nil {
		log.Fatal().Err(err).Msg("Task token is required")
	}

	// X-Ray設定
	if cfg.Tracing.Enabled {
		if err := xray.Configure(xray.Config{
			DaemonAddr:     "127.0.0.1:2000",
			ServiceVersion: "1.0.0",
		}); err != nil {
			log.Warn().Err(err).Msg("Failed to configure X-Ray, falling back to defaults")
			if configErr := xray.Configure(xray.Config{}); configErr != nil {
				log.Fatal().Err(configErr).Msg("Failed to configure default X-Ray settings")
			}
		}
		os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step Functionsクライアントの初期化
	var notifier batch.TaskNotifier
	if !cfg.IsLocal() {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load AWS config")
		}
		notifier = sfn.NewFromConfig(awsCfg)
	}

	service, err := batch.NewHistoryBatchService(ctx, cfg, notifier, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create history batch service")
	}
	defer service.Close()

	service.SetArgs(batch.HistoryInput{GuestID: *guestID, Limit: *limit})

	if cfg.Tracing.Enabled {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, projectName)
		defer seg.Close(nil)

		if err := seg.AddMetadata("guest_id", *guestID); err != nil {
			log.Warn().Err(err).Msg("Failed to add guest_id metadata")
		}
		if err := seg.AddMetadata("timeout", timeout.String()); err != nil {
			log.Warn().Err(err).Msg("Failed to add timeout metadata")
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- utils.RunWithTimeout(ctx, *timeout, service.Run)
	}()

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received signal")
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Error().Err(err).Msg("Batch process failed")

			if reportErr := service.ReportFailure(context.Background(), err); reportErr != nil {
				log.Error().Err(reportErr).Msg("Failed to report task failure")
			}

			service.Close()
			os.Exit(1)
		}
		log.Info().Msg("Batch process completed successfully")
	}
}

// applyTaskToken は最後の引数として渡されたタスクトークンを設定します
// ローカル環境ではタスクトークンを取得しません
func applyTaskToken(cfg *config.Config, args []string) error {
	if cfg.IsLocal() {
		return nil
	}
	if len(args) > 0 {
		cfg.SFN.TaskToken = args[len(args)-1]
	}
	if cfg.SFN.TaskToken == "" {
		return errors.New("sfn task token is not set")
	}
	return nil
}
