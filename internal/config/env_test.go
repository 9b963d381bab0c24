// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"SOURCE_BASE_URL":             "http://interop.local:8000",
		"SOURCE_REQUEST_TIMEOUT":      "10s",
		"SOURCE_INSECURE_SKIP_VERIFY": "true",
		"SOURCE_OFFLINE":              "true",
		"SOURCE_OFFLINE_ROOT":         "/var/snapshots",
		"SOURCE_SUPPRESS_MOVING":      "true",

		"STORAGE_ROOT": "/var/cache/targets",
		"STORAGE_DSN":  "/var/cache/targets.db",

		"POLLER_PERIOD":              "5s",
		"POLLER_STALENESS_THRESHOLD": "7",
		"POLLER_BACKOFF_CAP":         "1m",
		"POLLER_IMAGE_CONCURRENCY":   "3",
		"POLLER_REFETCH_POLICY":      "on-change",
		"POLLER_SUBSCRIBER_BUFFER":   "128",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "http://interop.local:8000", cfg.Source.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Source.RequestTimeout)
	assert.True(t, cfg.Source.InsecureSkipVerify)
	assert.True(t, cfg.Source.Offline)
	assert.Equal(t, "/var/snapshots", cfg.Source.OfflineRoot)
	assert.True(t, cfg.Source.SuppressMoving)

	assert.Equal(t, "/var/cache/targets", cfg.Storage.Root)
	assert.Equal(t, "/var/cache/targets.db", cfg.Storage.DSN)

	assert.Equal(t, 5*time.Second, cfg.Poller.Period)
	assert.Equal(t, 7, cfg.Poller.StalenessThreshold)
	assert.Equal(t, time.Minute, cfg.Poller.BackoffCap)
	assert.Equal(t, 3, cfg.Poller.ImageConcurrency)
	assert.Equal(t, RefetchOnChange, cfg.Poller.RefetchPolicy)
	assert.Equal(t, 128, cfg.Poller.SubscriberBuffer)
}

func TestParseEnv_PartialFields(t *testing.T) {
	setEnvVars(t, map[string]string{
		"SOURCE_BASE_URL": "http://interop.local:8000",
		"POLLER_PERIOD":   "2s",
	})

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.NoError(t, err)
	assert.Equal(t, "http://interop.local:8000", cfg.Source.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Poller.Period)
	assert.Empty(t, cfg.Storage.Root)
	assert.False(t, cfg.Source.Offline)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{
		"POLLER_PERIOD": "not-a-duration",
	})

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.Error(t, err)
}
