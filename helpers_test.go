package main

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func testSqlite(t *testing.T) *Sqlite {
	t.Helper()

	s, err := NewSqlite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.RunMigrations())
	return s
}

func testConfig(t *testing.T) *Config {
	t.Helper()

	config := &Config{
		ProcessFolder: filepath.Join(t.TempDir(), "process"),
		DatabasePath:  "unused.db",
	}
	require.NoError(t, verifyConfig(config))
	return config
}

func position(pos float32) *float32 {
	return &pos
}
