package logx

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/yojana-mitra/server/internal/core"
)

func TestInit_Production(t *testing.T) {
	Init(LoggerOpts{Environment: core.Production})
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())
}

func TestInit_Development(t *testing.T) {
	Init(LoggerOpts{Environment: core.Development})
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())
}

func TestInit_DefaultsToDevelopment(t *testing.T) {
	Init()
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())
}
