package services

import (
	"context"
	"time"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/depreciation"
	"github.com/Jshatto/asset-tracker/src/repositories"
	"github.com/Jshatto/asset-tracker/src/schemas"
	"github.com/Jshatto/asset-tracker/src/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type RecomputeServiceI interface {
	Run(ctx context.Context) (*schemas.RecomputeSummary, error)
	LastRun(ctx context.Context) (*schemas.RecomputeSummary, error)
}

// RecomputeService refreshes the stored accumulated depreciation of every
// depreciable asset. Records are processed one at a time and a failing record
// never stops the batch.
type RecomputeService struct {
	assets repositories.AssetRepository
	status RunStatusStore
	now    func() time.Time
}

func NewRecomputeService(assets repositories.AssetRepository, status RunStatusStore) *RecomputeService {
	return &RecomputeService{
		assets: assets,
		status: status,
		now:    time.Now,
	}
}

func (s *RecomputeService) WithClock(now func() time.Time) *RecomputeService {
	s.now = now
	return s
}

// Run recomputes every asset as of the date the run starts. When ctx is
// cancelled the run stops before the next record and returns the partial
// summary together with the context error.
func (s *RecomputeService) Run(ctx context.Context) (*schemas.RecomputeSummary, error) {
	logger := utils.LoggerFromContext(ctx)
	startedAt := s.now()
	today := utils.DateOnly(startedAt)

	summary := &schemas.RecomputeSummary{
		RunID:     uuid.New(),
		Today:     utils.FormatDate(today),
		StartedAt: startedAt.UTC(),
		Failures:  []schemas.RecomputeFailure{},
	}
	runLogger := logger.WithField("run_id", summary.RunID)
	runLogger.WithField("today", summary.Today).Info("Starting depreciation recompute")

	assets, err := s.assets.GetDepreciable(ctx)
	if err != nil {
		return nil, err
	}

	var runErr error
	for i := range assets {
		if err := ctx.Err(); err != nil {
			summary.Cancelled = true
			runErr = err
			break
		}

		asset := &assets[i]
		summary.Processed++

		value, err := depreciation.ForAsset(asset, today)
		if err == nil {
			err = s.assets.UpdateAccumulatedDepreciation(ctx, asset.ID, value)
		}
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, schemas.RecomputeFailure{
				AssetID: asset.ID,
				Kind:    string(apperrors.KindOf(err)),
				Message: err.Error(),
			})
			runLogger.WithFields(logrus.Fields{
				"asset_id": asset.ID,
				"kind":     apperrors.KindOf(err),
			}).WithError(err).Warn("Failed to recompute asset depreciation")
			continue
		}

		summary.Updated++
		if !value.Equal(asset.AccumulatedDepreciation) {
			summary.Changed++
		}
	}
	summary.FinishedAt = s.now().UTC()

	if s.status != nil {
		if err := s.status.SaveLastRun(context.WithoutCancel(ctx), summary); err != nil {
			runLogger.WithError(err).Warn("Failed to record recompute run status")
		}
	}

	runLogger.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"updated":   summary.Updated,
		"changed":   summary.Changed,
		"failed":    summary.Failed,
		"cancelled": summary.Cancelled,
	}).Info("Finished depreciation recompute")
	return summary, runErr
}

func (s *RecomputeService) LastRun(ctx context.Context) (*schemas.RecomputeSummary, error) {
	if s.status == nil {
		return nil, errNoRun()
	}
	return s.status.LastRun(ctx)
}
