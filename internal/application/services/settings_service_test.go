package services

import (
	"context"
	"testing"

	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

type memSettingRepo struct {
	values map[string]string
}

func (m *memSettingRepo) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memSettingRepo) GetDefault(_ context.Context, key, fallback string) string {
	if v, ok := m.values[key]; ok && v != "" {
		return v
	}
	return fallback
}

func (m *memSettingRepo) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memSettingRepo) GetAll(_ context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func newTestSettingsService(values map[string]string) (*SettingsService, *memSettingRepo) {
	repo := &memSettingRepo{values: values}
	return NewSettingsService(repo, logger.NewNop()), repo
}

func TestGetSettingsMasksPassword(t *testing.T) {
	svc, _ := newTestSettingsService(map[string]string{
		ports.SettingSMTPServer:   "smtp.example.com",
		ports.SettingSMTPPassword: "hunter2",
	})

	got, err := svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}

	if got[ports.SettingSMTPPassword] != passwordMask {
		t.Errorf("password = %q, want masked", got[ports.SettingSMTPPassword])
	}
	if got[ports.SettingSMTPServer] != "smtp.example.com" {
		t.Errorf("server = %q", got[ports.SettingSMTPServer])
	}
	// Unset keys are still present, empty.
	if _, ok := got[ports.SettingWebhookURL]; !ok {
		t.Error("unset key missing from response")
	}
}

func TestGetSettingsEmptyPasswordStaysEmpty(t *testing.T) {
	svc, _ := newTestSettingsService(map[string]string{})

	got, err := svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got[ports.SettingSMTPPassword] != "" {
		t.Errorf("empty password rendered as %q", got[ports.SettingSMTPPassword])
	}
}

func TestUpdateSettingsIgnoresMaskedPassword(t *testing.T) {
	svc, repo := newTestSettingsService(map[string]string{
		ports.SettingSMTPPassword: "hunter2",
	})

	err := svc.UpdateSettings(context.Background(), map[string]string{
		ports.SettingSMTPPassword: passwordMask,
		ports.SettingSMTPServer:   "smtp.example.com",
	})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	if repo.values[ports.SettingSMTPPassword] != "hunter2" {
		t.Errorf("stored password clobbered: %q", repo.values[ports.SettingSMTPPassword])
	}
	if repo.values[ports.SettingSMTPServer] != "smtp.example.com" {
		t.Errorf("server not stored: %q", repo.values[ports.SettingSMTPServer])
	}
}

func TestUpdateSettingsRejectsUnknownKey(t *testing.T) {
	svc, _ := newTestSettingsService(map[string]string{})

	err := svc.UpdateSettings(context.Background(), map[string]string{"api_key": "x"})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"valid hour", ports.SettingDigestHour, "9", false},
		{"hour too large", ports.SettingDigestHour, "24", true},
		{"negative hour", ports.SettingDigestHour, "-1", true},
		{"valid port", ports.SettingSMTPPort, "587", false},
		{"bad port", ports.SettingSMTPPort, "smtp", true},
		{"valid days", ports.SettingReminderDays, "7,3,1", false},
		{"bad days", ports.SettingReminderDays, "7,soon", true},
		{"empty clears", ports.SettingDigestHour, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestSettingsService(map[string]string{})
			err := svc.UpdateSettings(context.Background(), map[string]string{tt.key: tt.value})
			if (err != nil) != tt.wantErr {
				t.Errorf("UpdateSettings(%s=%q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}
