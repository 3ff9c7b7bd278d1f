package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	prev := log
	t.Cleanup(func() { log = prev })

	require.NoError(t, Init("debug", "json"))
	assert.Equal(t, logrus.DebugLevel, L().GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, L().Formatter)

	current := L()
	err := Init("loud", "text")
	assert.ErrorContains(t, err, `invalid log level "loud"`)
	assert.Same(t, current, L())
}

func TestWithFieldsWritesToOutput(t *testing.T) {
	prev := log
	t.Cleanup(func() { log = prev })

	var buf bytes.Buffer
	log = newLogger(logrus.InfoLevel, "json", &buf)
	WithFields(logrus.Fields{"op": "chat"}).Info("done")
	Debugf("hidden")

	assert.Contains(t, buf.String(), `"op":"chat"`)
	assert.NotContains(t, buf.String(), "hidden")
}
