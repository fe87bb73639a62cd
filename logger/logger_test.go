package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestNew_AppliesLevel(t *testing.T) {
	l := New(Config{Env: "production", Level: "error"})
	assert.Equal(t, zerolog.ErrorLevel, l.GetLevel())
}
