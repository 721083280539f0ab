package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"taskpilot/internal/config"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LogConfig
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{"debug text", config.LogConfig{Level: "debug", Format: "text"}, logrus.DebugLevel, false},
		{"upper case json", config.LogConfig{Level: "WARN", Format: "JSON"}, logrus.WarnLevel, true},
		{"unknown level", config.LogConfig{Level: "chatty"}, logrus.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := Setup(tt.cfg)
			assert.Equal(t, tt.wantLevel, log.GetLevel())
			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}
