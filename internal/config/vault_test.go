package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/hashicorp/vault/api"

	"fastresume/internal/errors"
)

func newTestLogger() *errors.Logger {
	return errors.NewLoggerWithWriter(io.Discard, slog.LevelDebug)
}

type fakeLogical map[string]*api.Secret

func (f fakeLogical) Read(path string) (*api.Secret, error) {
	if path == "fail" {
		return nil, fmt.Errorf("permission denied")
	}
	return f[path], nil
}

func kv2(data map[string]any, version any) *api.Secret {
	return &api.Secret{Data: map[string]any{
		"data":     data,
		"metadata": map[string]any{"version": version},
	}}
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(7), expected: 7},
		{name: "string value", input: "3", expected: 3},
		{name: "invalid string", input: "v3", expectError: true},
		{name: "missing", input: nil, expectError: true},
		{name: "unsupported type", input: []string{"1"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionValue(tt.input, "secret/data/x")
			if tt.expectError {
				if err == nil {
					t.Errorf("expected an error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("version = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestGetSecretV2(t *testing.T) {
	vc := &VaultClient{
		logger: newTestLogger(),
		logical: fakeLogical{
			"secret/data/ok":     kv2(map[string]any{"api_key": "abcdefghijkl"}, "4"),
			"secret/data/kv1":    {Data: map[string]any{"api_key": "x"}},
			"secret/data/nometa": {Data: map[string]any{"data": map[string]any{}}},
		},
	}

	secret, err := vc.GetSecretV2("secret/data/ok")
	if err != nil {
		t.Fatalf("GetSecretV2: %v", err)
	}
	if secret.Version != 4 {
		t.Errorf("version = %d, want 4", secret.Version)
	}
	if secret.Data["api_key"] != "abcdefghijkl" {
		t.Errorf("api_key = %v", secret.Data["api_key"])
	}

	for _, path := range []string{"secret/data/missing", "secret/data/kv1", "secret/data/nometa", "fail"} {
		if _, err := vc.GetSecretV2(path); err == nil {
			t.Errorf("%s: expected an error", path)
		}
	}
}

func TestGetStringSecret(t *testing.T) {
	vc := &VaultClient{
		logger: newTestLogger(),
		logical: fakeLogical{
			"p": kv2(map[string]any{"s": "value", "n": 12.0}, 1.0),
		},
	}

	v, err := vc.GetStringSecret("p", "s")
	if err != nil {
		t.Fatalf("GetStringSecret: %v", err)
	}
	if v != "value" {
		t.Errorf("secret = %q, want value", v)
	}

	if _, err := vc.GetStringSecret("p", "absent"); err == nil {
		t.Error("absent key should fail")
	}
	if _, err := vc.GetStringSecret("p", "n"); err == nil {
		t.Error("non-string value should fail")
	}
}

func TestApplySecrets(t *testing.T) {
	vc := &VaultClient{
		logger: newTestLogger(),
		logical: fakeLogical{
			"keys":   kv2(map[string]any{"keys": "k1, k2,,k3"}, 1.0),
			"gemini": kv2(map[string]any{"api_key": "gemini-secret"}, 1.0),
		},
	}
	cfg := &Config{
		Vault: VaultConfig{Enabled: true, Secrets: VaultSecrets{APIKeys: "keys", GeminiKey: "gemini"}},
		AI:    AIConfig{Predict: OperationAIConfig{APIKey: "own-key"}},
	}

	if err := vc.applySecrets(cfg); err != nil {
		t.Fatalf("applySecrets: %v", err)
	}
	if want := []string{"k1", "k2", "k3"}; !slices.Equal(cfg.Server.APIKeys, want) {
		t.Errorf("server api keys = %v, want %v", cfg.Server.APIKeys, want)
	}
	if cfg.AI.APIKey != "gemini-secret" {
		t.Errorf("global key = %q", cfg.AI.APIKey)
	}
	for _, op := range []*OperationAIConfig{&cfg.AI.Analyze, &cfg.AI.Strategy, &cfg.AI.Coach, &cfg.AI.Summarize} {
		if op.APIKey != "gemini-secret" {
			t.Errorf("operation key = %q, want gemini-secret", op.APIKey)
		}
	}
	if cfg.AI.Predict.APIKey != "own-key" {
		t.Errorf("operation key must not be overwritten, got %q", cfg.AI.Predict.APIKey)
	}
}

func TestResolveVaultToken(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte("  s.file-token\n"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cfg     VaultConfig
		want    string
		wantErr bool
	}{
		{name: "inline token wins", cfg: VaultConfig{Token: "s.inline", TokenFile: tokenFile}, want: "s.inline"},
		{name: "token file trimmed", cfg: VaultConfig{TokenFile: tokenFile}, want: "s.file-token"},
		{name: "missing file", cfg: VaultConfig{TokenFile: filepath.Join(dir, "nope")}, wantErr: true},
		{name: "no token", cfg: VaultConfig{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveVaultToken(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected an error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{AI: AIConfig{APIKey: "env-key"}}
	if err := ApplyVaultSecrets(cfg, newTestLogger()); err != nil {
		t.Fatalf("ApplyVaultSecrets: %v", err)
	}
	if cfg.AI.APIKey != "env-key" {
		t.Errorf("api key = %q, want env-key", cfg.AI.APIKey)
	}
}
