package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	cfg, err := Load("")
	is.NoErr(err)
	is.Equal(cfg.Addr, ":8080")
	is.Equal(cfg.AIDepth, 4)
	is.Equal(cfg.Heartbeat, 15*time.Second)
	is.Equal(cfg.Level(), zerolog.InfoLevel)
	is.True(!cfg.PrettyLogs)
}

func TestLoadFileAndEnv(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "othello.yaml")
	is.NoErr(os.WriteFile(path, []byte("addr: \":9000\"\nai_depth: 6\nlog_level: debug\nheartbeat: 5s\n"), 0o644))

	cfg, err := Load(path)
	is.NoErr(err)
	is.Equal(cfg.Addr, ":9000")
	is.Equal(cfg.AIDepth, 6)
	is.Equal(cfg.Level(), zerolog.DebugLevel)
	is.Equal(cfg.Heartbeat, 5*time.Second)

	t.Setenv("OTHELLO_AI_DEPTH", "2")
	t.Setenv("OTHELLO_PRETTY_LOGS", "true")
	cfg, err = Load(path)
	is.NoErr(err)
	is.Equal(cfg.AIDepth, 2) // env wins over the file
	is.True(cfg.PrettyLogs)
}

func TestLoadRejectsBadValues(t *testing.T) {
	is := is.New(t)
	t.Setenv("OTHELLO_AI_DEPTH", "0")
	_, err := Load("")
	is.True(err != nil)

	t.Setenv("OTHELLO_AI_DEPTH", "3")
	t.Setenv("OTHELLO_LOG_LEVEL", "loud")
	_, err = Load("")
	is.True(err != nil)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	is.True(err != nil)
}
