package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// CivicAgendaYAMLConfig represents the complete civicagenda.yaml file
// structure. Every section is optional; an absent section falls back
// entirely to its built-in defaults.
type CivicAgendaYAMLConfig struct {
	Queue     *QueueConfig     `yaml:"queue"`
	Retention *RetentionConfig `yaml:"retention"`
	LLM       *LLMConfig       `yaml:"llm"`
	Scheduler *SchedulerConfig `yaml:"scheduler"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load civicagenda.yaml from configDir, if present
//  2. Expand environment variables
//  3. Merge user-defined sections onto built-in defaults
//  4. Validate all configuration
//  5. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.InfoContext(ctx, "initializing configuration")

	cfg, err := load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.InfoContext(ctx, "configuration initialized",
		"llm_concurrency", cfg.Queue.LLMConcurrency,
		"sync_interval", cfg.Scheduler.SyncInterval,
		"primary_model", cfg.LLM.PrimaryModel)

	return cfg, nil
}

func load(configDir string) (*Config, error) {
	yamlCfg, err := loadYAML(configDir)
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}
	if yamlCfg == nil {
		yamlCfg = &CivicAgendaYAMLConfig{}
	}

	queueCfg := DefaultQueueConfig()
	if yamlCfg.Queue != nil {
		if err := mergo.Merge(queueCfg, yamlCfg.Queue, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge queue config: %w", err)
		}
	}

	retentionCfg := DefaultRetentionConfig()
	if yamlCfg.Retention != nil {
		if err := mergo.Merge(retentionCfg, yamlCfg.Retention, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge retention config: %w", err)
		}
	}

	llmCfg := DefaultLLMConfig()
	if yamlCfg.LLM != nil {
		if err := mergo.Merge(llmCfg, yamlCfg.LLM, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge llm config: %w", err)
		}
	}

	schedulerCfg := DefaultSchedulerConfig()
	if yamlCfg.Scheduler != nil {
		if err := mergo.Merge(schedulerCfg, yamlCfg.Scheduler, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge scheduler config: %w", err)
		}
	}

	return &Config{
		configDir: configDir,
		Queue:     queueCfg,
		Retention: retentionCfg,
		LLM:       llmCfg,
		Scheduler: schedulerCfg,
	}, nil
}

func loadYAML(configDir string) (*CivicAgendaYAMLConfig, error) {
	path := filepath.Join(configDir, "civicagenda.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	data = ExpandEnv(data)

	var cfg CivicAgendaYAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return &cfg, nil
}

// validate performs comprehensive validation on loaded configuration.
func validate(cfg *Config) error {
	return NewValidator(cfg).ValidateAll()
}
