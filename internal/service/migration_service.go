package service

import (
	"context"
	"fmt"

	"hybrid-search-be/internal/config"
	"hybrid-search-be/internal/dto"
	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/repository/specification"
	"hybrid-search-be/internal/repository/unitofwork"
	"hybrid-search-be/pkg/migration"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMigrationService interface {
	Start(ctx context.Context, req *dto.MigrationRequest) (*dto.MigrationResponse, error)
	Status(ctx context.Context, id string) (*dto.MigrationResponse, error)
	Rollback(ctx context.Context, id string) (*dto.MigrationResponse, error)
}

type migrationService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   *migration.Pipeline
	cfg        config.MigrationConfig
}

func NewMigrationService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline *migration.Pipeline,
	cfg config.MigrationConfig,
) IMigrationService {
	return &migrationService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		cfg:        cfg,
	}
}

// Start loads the source documents and runs the pipeline to completion. The
// response always carries final counters, including for failed runs.
func (s *migrationService) Start(ctx context.Context, req *dto.MigrationRequest) (*dto.MigrationResponse, error) {
	sourceNamespace := req.SourceNamespace
	if sourceNamespace == "" {
		sourceNamespace = "default"
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	source, err := uow.DocumentRepository().FindAll(ctx, specification.ByNamespace{Namespace: sourceNamespace})
	if err != nil {
		return nil, fmt.Errorf("failed to load source documents: %w", err)
	}
	if len(source) == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "no documents in source namespace "+sourceNamespace)
	}

	opts := migration.Options{
		Namespace:      req.TargetNamespace,
		BatchSize:      s.cfg.BatchSize,
		SubBatchSize:   s.cfg.SubBatchSize,
		SubBatchDelay:  s.cfg.SubBatchDelay,
		Concurrency:    s.cfg.Concurrency,
		ErrorHandling:  req.ErrorHandling,
		Validate:       req.Validate,
		Rollback:       req.Rollback,
		SkipExisting:   req.SkipExisting,
		SampleFraction: s.cfg.SampleFraction,
		Retry: migration.RetryPolicy{
			MaxAttempts: uint(s.cfg.MaxAttempts),
			BaseDelay:   s.cfg.BaseDelay,
			MaxDelay:    s.cfg.MaxDelay,
		},
	}
	if req.BatchSize > 0 {
		opts.BatchSize = req.BatchSize
	}
	if req.Concurrency > 0 {
		opts.Concurrency = req.Concurrency
	}

	m, err := s.pipeline.Migrate(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	return toMigrationResponse(m), nil
}

func (s *migrationService) Status(ctx context.Context, id string) (*dto.MigrationResponse, error) {
	m, err := s.findMigration(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMigrationResponse(m), nil
}

func (s *migrationService) Rollback(ctx context.Context, id string) (*dto.MigrationResponse, error) {
	m, err := s.findMigration(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == entity.MigrationRolledBack {
		return toMigrationResponse(m), nil // idempotent
	}
	if !m.Terminal() {
		return nil, fiber.NewError(fiber.StatusConflict, "migration still running")
	}

	if err := s.pipeline.Rollback(ctx, m); err != nil {
		return nil, err
	}
	return toMigrationResponse(m), nil
}

func (s *migrationService) findMigration(ctx context.Context, id string) (*entity.Migration, error) {
	migrationId, err := uuid.Parse(id)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid migration id")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	m, err := uow.MigrationRepository().FindById(ctx, migrationId)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "migration not found")
	}
	return m, nil
}

func toMigrationResponse(m *entity.Migration) *dto.MigrationResponse {
	return &dto.MigrationResponse{
		Id:         m.Id.String(),
		Status:     m.Status,
		Namespace:  m.Namespace,
		Total:      m.Total,
		Processed:  m.Processed,
		Failed:     m.Failed,
		Errors:     m.Errors,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}
