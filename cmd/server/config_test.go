package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/wordwise/internal/ollama"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(nil, fakeEnv(nil))
	require.NoError(t, err)

	assert.Equal(t, config{
		Port:              "8080",
		DBPath:            "wordwise.db",
		OllamaURL:         ollama.DefaultURL,
		OllamaModel:       ollama.DefaultModel,
		UseOllama:         true,
		RedisAddr:         "",
		RunWorker:         true,
		WorkerConcurrency: 10,
	}, cfg)
}

func TestLoadConfigEnvironment(t *testing.T) {
	cfg, err := loadConfig(nil, fakeEnv(map[string]string{
		"PORT":               "9090",
		"DB_PATH":            "postgres://wordwise@db/wordwise",
		"OLLAMA_MODEL":       "llama3",
		"USE_OLLAMA":         "false",
		"REDIS_ADDR":         "redis:6379",
		"RUN_WORKER":         "0",
		"WORKER_CONCURRENCY": "4",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://wordwise@db/wordwise", cfg.DBPath)
	assert.Equal(t, "llama3", cfg.OllamaModel)
	assert.False(t, cfg.UseOllama)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.False(t, cfg.RunWorker)
	assert.Equal(t, 4, cfg.WorkerConcurrency)
}

func TestLoadConfigFlagsOverrideEnvironment(t *testing.T) {
	cfg, err := loadConfig(
		[]string{"-port", "7000", "-use-ollama=true", "-worker-concurrency", "2"},
		fakeEnv(map[string]string{"PORT": "9090", "USE_OLLAMA": "no"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.True(t, cfg.UseOllama)
	assert.Equal(t, 2, cfg.WorkerConcurrency)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"malformed concurrency env", nil, map[string]string{"WORKER_CONCURRENCY": "many"}},
		{"zero concurrency flag", []string{"-worker-concurrency", "0"}, nil},
		{"unknown flag", []string{"-verbose"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.args, fakeEnv(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		def      bool
		expected bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"false", true, false},
		{"0", true, false},
		{"off", true, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, envBool(tt.value, tt.def), "envBool(%q, %v)", tt.value, tt.def)
	}
}
