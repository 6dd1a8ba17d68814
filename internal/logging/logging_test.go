package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/vialtech/normad/internal/logging"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	config := logging.Config{}
	config.ApplyDefaults()
	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "json", config.Format)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  logging.Config
		wantErr bool
	}{
		{"defaults", logging.Config{Level: "info", Format: "json"}, false},
		{"console", logging.Config{Level: "debug", Format: "console"}, false},
		{"bad level", logging.Config{Level: "loud", Format: "json"}, true},
		{"bad format", logging.Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, logging.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger, err := logging.New(logging.Config{Level: "warn", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := logging.New(logging.Config{Level: "nope"})
	assert.ErrorIs(t, err, logging.ErrInvalidConfig)
}
