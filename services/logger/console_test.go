package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/classplan/core"
)

func TestConsoleLogger(t *testing.T) {
	tests := []struct {
		name  string
		level int
		log   func(l *ConsoleLogger)
		want  string
	}{
		{
			name:  "debug printed at debug level",
			level: LevelDebug,
			log:   func(l *ConsoleLogger) { l.Debug("status recomputed") },
			want:  "DEBUG: status recomputed\n",
		},
		{
			name:  "debug skipped at info level",
			level: LevelInfo,
			log:   func(l *ConsoleLogger) { l.Debug("status recomputed") },
			want:  "",
		},
		{
			name:  "warn printed at info level",
			level: LevelInfo,
			log:   func(l *ConsoleLogger) { l.Warn("slow query") },
			want:  "WARN: slow query\n",
		},
		{
			name:  "error with args",
			level: LevelError,
			log:   func(l *ConsoleLogger) { l.Error("auto-assign failed", map[string]interface{}{"class": "c1"}) },
			want:  "ERROR: auto-assign failed\nmap[class:c1]\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewConsoleLogger(log.New(&buf, "", 0), tt.level))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestNewDiscardLogger(t *testing.T) {
	l := NewDiscardLogger()
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
	})
}

func TestConsoleLogger_Fatal(t *testing.T) {
	origExit := exitFunc
	defer func() { exitFunc = origExit }()
	var code int
	exitFunc = func(c int) { code = c }

	var buf bytes.Buffer
	NewConsoleLogger(log.New(&buf, "", 0), LevelError).Fatal("database unreachable")
	assert.Equal(t, "FATAL: database unreachable\n", buf.String())
	assert.Equal(t, 1, code)
}

func Test_reporting(t *testing.T) {
	tests := []struct {
		name string
		conf core.Config
		want bool
	}{
		{name: "prod with token", conf: core.Config{RollbarToken: "tok"}, want: true},
		{name: "no token", conf: core.Config{}, want: false},
		{name: "debug", conf: core.Config{RollbarToken: "tok", Debug: true}, want: false},
		{name: "test mode", conf: core.Config{RollbarToken: "tok", TestMode: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reporting(&tt.conf))
		})
	}
}
