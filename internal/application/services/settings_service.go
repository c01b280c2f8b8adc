package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

const passwordMask = "••••••••"

// settingKeys is the closed set of keys the settings API accepts.
var settingKeys = []string{
	ports.SettingWebhookURL,
	ports.SettingSMTPServer,
	ports.SettingSMTPPort,
	ports.SettingSMTPUsername,
	ports.SettingSMTPPassword,
	ports.SettingEmailTo,
	ports.SettingVaultPath,
	ports.SettingReminderDays,
	ports.SettingDigestHour,
}

// SettingsService handles the app settings store
type SettingsService struct {
	settingRepo ports.SettingRepository
	logger      *logger.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingRepo ports.SettingRepository, logger *logger.Logger) *SettingsService {
	return &SettingsService{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// GetSettings returns all known settings. The SMTP password is masked; the
// stored value never leaves the server.
func (s *SettingsService) GetSettings(ctx context.Context) (map[string]string, error) {
	values, err := s.settingRepo.GetAll(ctx, settingKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	out := make(map[string]string, len(settingKeys))
	for _, key := range settingKeys {
		out[key] = values[key]
	}
	if out[ports.SettingSMTPPassword] != "" {
		out[ports.SettingSMTPPassword] = passwordMask
	}
	return out, nil
}

// UpdateSettings validates and stores the provided values. Unknown keys are
// rejected; a masked password value is ignored so a settings round-trip does
// not clobber the stored secret.
func (s *SettingsService) UpdateSettings(ctx context.Context, values map[string]string) error {
	for key, value := range values {
		if !knownSetting(key) {
			return fmt.Errorf("unknown setting %q", key)
		}
		if err := validateSetting(key, value); err != nil {
			return err
		}
		if key == ports.SettingSMTPPassword && value == passwordMask {
			continue
		}
		if err := s.settingRepo.Set(ctx, key, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	s.logger.Info("Settings updated", "count", len(values))
	return nil
}

func knownSetting(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}

func validateSetting(key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	switch key {
	case ports.SettingDigestHour:
		h, err := strconv.Atoi(value)
		if err != nil || h < 0 || h > 23 {
			return fmt.Errorf("daily digest hour must be between 0 and 23")
		}
	case ports.SettingSMTPPort:
		p, err := strconv.Atoi(value)
		if err != nil || p < 1 || p > 65535 {
			return fmt.Errorf("smtp port must be a valid port number")
		}
	case ports.SettingReminderDays:
		for _, part := range strings.Split(value, ",") {
			if _, err := strconv.Atoi(strings.TrimSpace(part)); err != nil {
				return fmt.Errorf("reminder days must be a comma-separated list of numbers")
			}
		}
	}
	return nil
}
