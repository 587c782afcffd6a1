// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func TestServe_Properties(t *testing.T) {
	cmd := NewServeCmd()

	if cmd.Use != "serve" {
		t.Errorf("Use = %q, want %q", cmd.Use, "serve")
	}
	if !strings.Contains(cmd.Short, "server") {
		t.Error("Short description should mention the server")
	}
}

func TestServe_Flags(t *testing.T) {
	cmd := NewServeCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	expectedFlags := []string{
		"--config",
		"--listen_addr",
		"--metrics_addr",
		"--database_url",
		"--auto_migrate",
		"--auth.secret_key",
		"--auth.token_ttl",
	}
	for _, flag := range expectedFlags {
		if !strings.Contains(output, flag) {
			t.Errorf("Help missing %q flag", flag)
		}
	}
}

func TestLoadServeConfig_FromFlags(t *testing.T) {
	cmd := NewServeCmd()
	if err := cmd.Flags().Parse([]string{
		"--database_url", "postgres://localhost:5432/gatehouse",
		"--auth.secret_key", testSecretKey,
		"--listen_addr", "127.0.0.1:7070",
		"--auth.token_ttl", "1h",
	}); err != nil {
		t.Fatalf("flag parse error: %v", err)
	}

	cfg, err := loadServeConfig("", cmd)
	if err != nil {
		t.Fatalf("loadServeConfig() error = %v", err)
	}

	if cfg.ListenAddr != "127.0.0.1:7070" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, "127.0.0.1:7070")
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want %v", cfg.Auth.TokenTTL, time.Hour)
	}
}

func TestLoadServeConfig_EnvFallbacks(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env:5432/gatehouse")
	t.Setenv("GATEHOUSE_SECRET_KEY", testSecretKey)

	cfg, err := loadServeConfig("", NewServeCmd())
	if err != nil {
		t.Fatalf("loadServeConfig() error = %v", err)
	}

	if cfg.DatabaseURL != "postgres://env:5432/gatehouse" {
		t.Errorf("DatabaseURL = %q, want env value", cfg.DatabaseURL)
	}
	if cfg.Auth.SecretKey != testSecretKey {
		t.Error("SecretKey should come from GATEHOUSE_SECRET_KEY")
	}
}

func TestLoadServeConfig_FromFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GATEHOUSE_SECRET_KEY", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "gatehouse.yaml")
	content := "database_url: \"postgres://file:5432/gatehouse\"\n" +
		"auth:\n  secret_key: \"" + testSecretKey + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadServeConfig(path, NewServeCmd())
	if err != nil {
		t.Fatalf("loadServeConfig() error = %v", err)
	}
	if cfg.DatabaseURL != "postgres://file:5432/gatehouse" {
		t.Errorf("DatabaseURL = %q, want file value", cfg.DatabaseURL)
	}
}

func TestLoadServeConfig_MissingSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env:5432/gatehouse")
	t.Setenv("GATEHOUSE_SECRET_KEY", "")

	_, err := loadServeConfig("", NewServeCmd())
	if err == nil {
		t.Fatal("expected validation error for missing secret key")
	}
	if !strings.Contains(err.Error(), "secret_key") {
		t.Errorf("error should mention secret_key, got: %v", err)
	}
}

func TestLoadServeConfig_MissingDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GATEHOUSE_SECRET_KEY", testSecretKey)

	_, err := loadServeConfig("", NewServeCmd())
	if err == nil {
		t.Fatal("expected validation error for missing database URL")
	}
	if !strings.Contains(err.Error(), "database_url") {
		t.Errorf("error should mention database_url, got: %v", err)
	}
}
