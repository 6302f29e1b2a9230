package config

import (
	"os"
	"testing"
)

func TestLoad_AppliesDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load("/nonexistent/path/does-not-exist.yaml")
	if err != nil {
		t.Fatalf("expected missing file to fall back to defaults, got error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.ActionPointsPerTurn != 10 {
		t.Fatalf("expected default action points 10, got %d", cfg.ActionPointsPerTurn)
	}
}

func TestLoad_EnvOverridesTakePrecedence(t *testing.T) {
	os.Setenv("PORT", "9090")
	defer os.Unsetenv("PORT")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("expected PORT env override to apply, got %d", cfg.Port)
	}
}

func TestLoad_RejectsNonIntegerNumericEnv(t *testing.T) {
	os.Setenv("PORT", "not-a-number")
	defer os.Unsetenv("PORT")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected non-integer PORT to fail validation")
	}
}

func TestValidate_RejectsShortJWTSecret(t *testing.T) {
	cfg := Default()
	cfg.JWTSecret = "too-short"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected short jwt_secret to fail validation")
	}
}
