package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "answer-pipeline", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30000, cfg.Generator.Timeout)
	assert.Equal(t, 2, cfg.Generator.MaxRetries)
	assert.Equal(t, 2, cfg.Pipeline.MaxRepairs)
	assert.Equal(t, 3600, cfg.Cache.TTL)
	assert.Equal(t, "disable", cfg.Bank.SSLMode)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestApplyDefaults_DoesNotOverrideExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Generator.Timeout = 5000
	cfg.Pipeline.MaxRepairs = 1
	applyDefaults(cfg)

	assert.Equal(t, 5000, cfg.Generator.Timeout)
	assert.Equal(t, 1, cfg.Pipeline.MaxRepairs)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Generator.BaseURL = "http://localhost:9090"
		applyDefaults(cfg)
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validateConfig(base()))
	})

	t.Run("generator base url required", func(t *testing.T) {
		cfg := base()
		cfg.Generator.BaseURL = ""
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("enabled cache needs an address", func(t *testing.T) {
		cfg := base()
		cfg.Cache.Enabled = true
		cfg.Cache.Address = ""
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("enabled bank needs a host", func(t *testing.T) {
		cfg := base()
		cfg.Bank.Enabled = true
		cfg.Bank.Host = ""
		assert.Error(t, validateConfig(cfg))
	})
}

func TestBankConfig_GetDSN(t *testing.T) {
	cfg := BankConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "pipeline",
		Password: "secret",
		Database: "answer_pipeline",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=pipeline password=secret dbname=answer_pipeline sslmode=require",
		cfg.GetDSN())
}
