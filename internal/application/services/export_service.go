package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// ExporterFactory builds a vault exporter rooted at path.
type ExporterFactory func(path string) ports.VaultExporter

// ExportService runs full vault exports
type ExportService struct {
	eventRepo      ports.EventRepository
	researcherRepo ports.ResearcherRepository
	logRepo        ports.DailyLogRepository
	settingRepo    ports.SettingRepository
	newExporter    ExporterFactory
	logger         *logger.Logger
}

// NewExportService creates a new export service
func NewExportService(
	eventRepo ports.EventRepository,
	researcherRepo ports.ResearcherRepository,
	logRepo ports.DailyLogRepository,
	settingRepo ports.SettingRepository,
	newExporter ExporterFactory,
	logger *logger.Logger,
) *ExportService {
	return &ExportService{
		eventRepo:      eventRepo,
		researcherRepo: researcherRepo,
		logRepo:        logRepo,
		settingRepo:    settingRepo,
		newExporter:    newExporter,
		logger:         logger,
	}
}

// ExportVault writes every event, researcher and daily log into the
// configured vault directory. The vault_path setting must point at an
// existing directory.
func (s *ExportService) ExportVault(ctx context.Context) (*ports.ExportStats, error) {
	path, err := s.settingRepo.Get(ctx, ports.SettingVaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load vault path: %w", err)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("vault path is not configured")
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("vault path %q is not a directory", path)
	}

	events, err := s.eventRepo.List(ctx, ports.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	researchers, err := s.researcherRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load researchers: %w", err)
	}
	logs, err := s.logRepo.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily logs: %w", err)
	}

	stats, err := s.newExporter(path).ExportAll(events, researchers, logs)
	if err != nil {
		return stats, fmt.Errorf("vault export failed: %w", err)
	}

	s.logger.Info("Vault export completed",
		"events", stats.Events, "researchers", stats.Researchers, "daily_logs", stats.DailyLogs)
	return stats, nil
}
