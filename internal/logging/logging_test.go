package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, GetLevel("warning"))
	assert.Equal(t, log.ErrorLevel, GetLevel("error"))
	assert.Equal(t, log.InfoLevel, GetLevel(""))
	assert.Equal(t, log.InfoLevel, GetLevel("nonsense"))
}

func TestOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, Output(Params{}))

	name := filepath.Join(t.TempDir(), "app")
	w := Output(Params{FileName: name})
	lj, ok := w.(*lumberjack.Logger)
	if assert.True(t, ok) {
		assert.Equal(t, name+".log", lj.Filename)
	}

	w = Output(Params{FileName: name + ".log", LogToStdout: true})
	_, ok = w.(*lumberjack.Logger)
	assert.False(t, ok, "expected a combined writer")
}
