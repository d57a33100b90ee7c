package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/uma-arai/lightbnb/internal/common/config"
	"github.com/uma-arai/lightbnb/internal/common/database"
	"github.com/uma-arai/lightbnb/internal/common/utils"
	"github.com/uma-arai/lightbnb/internal/model"
	"github.com/uma-arai/lightbnb/internal/service/gateway"
)

// TaskNotifier はStep Functionsへのタスク結果通知を抽象化します
// *sfn.Client がこれを満たします
type TaskNotifier interface {
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
	SendTaskFailure(ctx context.Context, params *sfn.SendTaskFailureInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskFailureOutput, error)
}

// ReservationLister はゲストの過去の滞在を取得します
type ReservationLister interface {
	ListReservationsForGuest(ctx context.Context, guestID int64, limit int) ([]model.ReservationWithProperty, error)
}

// HistoryInput は滞在履歴バッチの入力です
type HistoryInput struct {
	GuestID int64 `json:"guest_id"`
	Limit   int   `json:"limit"`
}

// HistoryOutput はStep Functionsに返却する出力です
type HistoryOutput struct {
	GuestID      int64                           `json:"guest_id"`
	Count        int                             `json:"count"`
	Reservations []model.ReservationWithProperty `json:"reservations"`
}

// HistoryBatchService はゲストの過去の滞在を取得してStep Functionsに返却します
type HistoryBatchService struct {
	args     HistoryInput
	db       *database.DB
	lister   ReservationLister
	notifier TaskNotifier
	cfg      *config.Config
	log      zerolog.Logger
}

// NewHistoryBatchService は新しいHistoryBatchServiceを作成します
// notifier が nil の場合はタスク結果を通知しません
func NewHistoryBatchService(ctx context.Context, cfg *config.Config, notifier TaskNotifier, log zerolog.Logger) (*HistoryBatchService, error) {
	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	return &HistoryBatchService{
		db:       db,
		lister:   gateway.New(db, log),
		notifier: notifier,
		cfg:      cfg,
		log:      log,
	}, nil
}

// Close は終了処理を行います
func (s *HistoryBatchService) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetArgs は滞在履歴バッチの引数を設定します
func (s *HistoryBatchService) SetArgs(args HistoryInput) {
	s.args = args
}

// Run は滞在履歴バッチを実行します
func (s *HistoryBatchService) Run(ctx context.Context) error {
	ctx, seg := xray.BeginSubsegment(ctx, "HistoryBatchService.Run")
	if seg != nil {
		defer seg.Close(nil)
	}

	startTime := time.Now()

	if s.args.GuestID <= 0 {
		return fmt.Errorf("guest_id must be positive, got %d", s.args.GuestID)
	}

	reservations, err := s.lister.ListReservationsForGuest(ctx, s.args.GuestID, s.args.Limit)
	if err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to list reservations for guest %d: %w", s.args.GuestID, err))
	}

	s.log.Info().
		Int64("guest_id", s.args.GuestID).
		Int("count", len(reservations)).
		Msg("Found past reservations")

	output := HistoryOutput{
		GuestID:      s.args.GuestID,
		Count:        len(reservations),
		Reservations: reservations,
	}
	if err := s.sendTaskSuccess(ctx, output); err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to send task success: %w", err))
	}

	duration := time.Since(startTime)
	if seg != nil {
		if err := seg.AddMetadata("duration", duration.String()); err != nil {
			s.log.Warn().Err(err).Msg("Failed to add duration metadata")
		}
	}

	s.log.Info().Dur("duration", duration).Msg("History batch process completed successfully")
	return nil
}

// ReportFailure はStep Functionsにタスクの失敗を通知します
func (s *HistoryBatchService) ReportFailure(ctx context.Context, cause error) error {
	if s.skipNotification() {
		return nil
	}

	input := &sfn.SendTaskFailureInput{
		TaskToken: aws.String(s.cfg.SFN.TaskToken),
		Error:     aws.String("HistoryBatchFailed"),
		Cause:     aws.String(cause.Error()),
	}
	if _, err := s.notifier.SendTaskFailure(ctx, input); err != nil {
		return fmt.Errorf("failed to send task failure: %w", err)
	}
	return nil
}

// sendTaskSuccess は、Step Functionsのタスク成功を通知します
func (s *HistoryBatchService) sendTaskSuccess(ctx context.Context, output HistoryOutput) error {
	if s.skipNotification() {
		s.log.Info().Msg("Local environment detected. Skipping Step Functions task success notification")
		return nil
	}

	if s.cfg.SFN.TaskToken == "" {
		return errors.New("sfn task token is not set in config")
	}

	body, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("failed to marshal history output: %w", err)
	}

	input := &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(s.cfg.SFN.TaskToken),
		Output:    aws.String(string(body)),
	}
	if _, err := s.notifier.SendTaskSuccess(ctx, input); err != nil {
		return err
	}

	s.log.Info().Int("count", output.Count).Msg("Successfully sent task success")
	return nil
}

// ローカル実行時やクライアント未設定時はStep Functionsへの通知を行わない
func (s *HistoryBatchService) skipNotification() bool {
	return s.notifier == nil || s.cfg == nil || s.cfg.IsLocal()
}
