package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/pkg/logger"
)

func TestLog(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().ToBuffer(buff).Make()
	require.NoError(t, err)
	require.NotNil(t, templogger)
	// Get Stats Before
	require.Equal(t, buff.Len(), 0)
	templogger.Logger.Info().Msg("Test")
	// Get Stats After
	require.Contains(t, buff.String(), "Test")
}

func TestLogLevel(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().ToBuffer(buff).AtLevel("warn").Make()
	require.NoError(t, err)
	templogger.Logger.Info().Msg("dropped")
	require.Equal(t, buff.Len(), 0)
	templogger.Logger.Warn().Msg("kept")
	require.Contains(t, buff.String(), "kept")
}
