package server

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Port != "8000" {
		t.Errorf("Port = %s, want 8000", config.Port)
	}
	if config.DatabasePath != "euring.db" {
		t.Errorf("DatabasePath = %s, want euring.db", config.DatabasePath)
	}
	if config.SchemesDir != "data" {
		t.Errorf("SchemesDir = %s, want data", config.SchemesDir)
	}
	if config.MaxOpenConns != 25 || config.MaxIdleConns != 5 {
		t.Errorf("пул соединений: %d/%d", config.MaxOpenConns, config.MaxIdleConns)
	}
	if config.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v", config.ConnMaxLifetime)
	}
	if config.LogBufferSize != 100 {
		t.Errorf("LogBufferSize = %d", config.LogBufferSize)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SCHEMES_DIR", "/var/lib/euring")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_CONN_MAX_LIFETIME", "1m")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Port != "9090" {
		t.Errorf("Port = %s, want 9090", config.Port)
	}
	if config.SchemesDir != "/var/lib/euring" {
		t.Errorf("SchemesDir = %s", config.SchemesDir)
	}
	if config.MaxOpenConns != 50 {
		t.Errorf("MaxOpenConns = %d, want 50", config.MaxOpenConns)
	}
	if config.ConnMaxLifetime != time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 1m", config.ConnMaxLifetime)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := &Config{
		Port:         "8000",
		DatabasePath: "euring.db",
		SchemesDir:   "data",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("корректная конфигурация отклонена: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Пустой порт", func(c *Config) { c.Port = "" }},
		{"Пустой путь базы", func(c *Config) { c.DatabasePath = "" }},
		{"Пустой каталог схем", func(c *Config) { c.SchemesDir = "" }},
		{"Нулевой пул", func(c *Config) { c.MaxOpenConns = 0 }},
		{"Idle больше open", func(c *Config) { c.MaxIdleConns = 100 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := *valid
			tt.mutate(&config)
			if err := config.Validate(); err == nil {
				t.Error("некорректная конфигурация должна отклоняться")
			}
		})
	}
}
