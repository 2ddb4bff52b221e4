package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"unknown": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "rank-careers"})

	log.Info("ranked", map[string]interface{}{"count": 3})
	log.WithError(errors.New("boom")).Warn("fallback", nil)
	log.With(map[string]interface{}{"source": "sheets"}).Error("fetch failed", map[string]interface{}{
		"error": errors.New("timeout"),
	})

	entries := logs.All()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "ranked", entries[0].Message)
		assert.Equal(t, "rank-careers", entries[0].ContextMap()["taskType"])
		assert.EqualValues(t, 3, entries[0].ContextMap()["count"])

		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, "boom", entries[1].ContextMap()["error"])

		assert.Equal(t, "sheets", entries[2].ContextMap()["source"])
		assert.Equal(t, "timeout", entries[2].ContextMap()["error"])
	}
}

func TestNewNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotPanics(t, func() {
		log.Debug("nothing", nil)
		log.WithFields(nil).Info("still nothing", map[string]interface{}{})
	})
}
