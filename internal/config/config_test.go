package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/tabbitapp/tabbit/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %q", s.Server.Host)
	}
	if s.Server.Port != 8090 {
		t.Errorf("expected default port 8090, got %d", s.Server.Port)
	}
	if s.Database.Path != "tabbit.db" {
		t.Errorf("expected default database path tabbit.db, got %q", s.Database.Path)
	}
	if s.Log.Level != "info" {
		t.Errorf("expected default log level info, got %q", s.Log.Level)
	}
	if s.Draw.Sides != 2 {
		t.Errorf("expected default sides 2, got %d", s.Draw.Sides)
	}
	if s.Draw.ByePolicy != "lowest_rank_bye" {
		t.Errorf("expected default bye policy lowest_rank_bye, got %q", s.Draw.ByePolicy)
	}
	if s.Draw.PairingMethod != "adjacent" {
		t.Errorf("expected default pairing method adjacent, got %q", s.Draw.PairingMethod)
	}
	if !s.Draw.AvoidInstitutionClash {
		t.Error("expected institution clash avoidance on by default")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tabbit.yaml")
	content := `server:
  port: 9000
database:
  path: /tmp/tournament.db
log:
  level: debug
admin:
  password: hunter2
draw:
  sides: 4
  bye_policy: no_bye
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Server.Port != 9000 {
		t.Errorf("expected port 9000 from file, got %d", s.Server.Port)
	}
	if s.Server.Host != "0.0.0.0" {
		t.Errorf("expected host to keep its default, got %q", s.Server.Host)
	}
	if s.Database.Path != "/tmp/tournament.db" {
		t.Errorf("expected database path from file, got %q", s.Database.Path)
	}
	if s.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %q", s.Log.Level)
	}
	if s.Admin.Password != "hunter2" {
		t.Errorf("expected admin password from file, got %q", s.Admin.Password)
	}
	if s.Draw.Sides != 4 {
		t.Errorf("expected sides 4 from file, got %d", s.Draw.Sides)
	}
	if s.Draw.ByePolicy != "no_bye" {
		t.Errorf("expected bye policy no_bye from file, got %q", s.Draw.ByePolicy)
	}
	if s.Draw.PairingMethod != "adjacent" {
		t.Errorf("expected pairing method to keep its default, got %q", s.Draw.PairingMethod)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TABBIT_SERVER_PORT", "9999")
	t.Setenv("TABBIT_DRAW_BYE_POLICY", "no_bye")
	t.Setenv("TABBIT_LOG_MAX_BACKUPS", "9")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Server.Port != 9999 {
		t.Errorf("expected port 9999 from environment, got %d", s.Server.Port)
	}
	if s.Draw.ByePolicy != "no_bye" {
		t.Errorf("expected bye policy no_bye from environment, got %q", s.Draw.ByePolicy)
	}
	if s.Log.MaxBackups != 9 {
		t.Errorf("expected 9 log backups from environment, got %d", s.Log.MaxBackups)
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
	if apperrors.KindOf(err) != apperrors.ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput, got %v", apperrors.KindOf(err))
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		envKey    string
		envValue  string
		wantField string
	}{
		{"zero port", "TABBIT_SERVER_PORT", "0", "server.port"},
		{"port too large", "TABBIT_SERVER_PORT", "70000", "server.port"},
		{"unknown log level", "TABBIT_LOG_LEVEL", "verbose", "log.level"},
		{"unknown bye policy", "TABBIT_DRAW_BYE_POLICY", "coin_flip", "draw.byepolicy"},
		{"single side", "TABBIT_DRAW_SIDES", "1", "draw.sides"},
		{"zero panel", "TABBIT_DRAW_PANEL_SIZE", "0", "draw.panelsize"},
		{"unknown pairing method", "TABBIT_DRAW_PAIRING_METHOD", "spiral", "draw.pairingmethod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envValue)

			_, err := Load("")
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if apperrors.KindOf(err) != apperrors.ErrValidation {
				t.Errorf("expected ErrValidation, got %v", apperrors.KindOf(err))
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("expected error to name %s, got %q", tt.wantField, err.Error())
			}
		})
	}
}
