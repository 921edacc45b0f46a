package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"CARDWISE_MODE", "CARDWISE_DATA", "CARDWISE_DSN", "CARDWISE_DRIVER", "CARDWISE_COURSE"} {
		t.Setenv(key, "")
	}

	p := &Profile{}
	p.FromEnv()

	require.Equal(t, "dev", p.Mode)
	require.Equal(t, "sqlite", p.Driver)
	require.Equal(t, "Swedish", p.Course)
	require.Empty(t, p.DSN)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CARDWISE_MODE", "prod")
	t.Setenv("CARDWISE_COURSE", "Spanish")
	t.Setenv("CARDWISE_DSN", "/tmp/custom.db")

	p := &Profile{}
	p.FromEnv()

	require.Equal(t, "prod", p.Mode)
	require.Equal(t, "Spanish", p.Course)
	require.Equal(t, "/tmp/custom.db", p.DSN)
}

func TestFromEnvExplicitValuesWin(t *testing.T) {
	t.Setenv("CARDWISE_MODE", "prod")

	p := &Profile{Mode: "demo"}
	p.FromEnv()

	require.Equal(t, "demo", p.Mode)
}

func TestValidateDefaultsDSN(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "dev", Data: dir, Driver: "sqlite"}

	require.NoError(t, p.Validate())
	require.Equal(t, filepath.Join(dir, "cardwise_dev.db"), p.DSN)
}

func TestValidateUnknownModeFallsBack(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "bogus", Data: dir, Driver: "sqlite"}

	require.NoError(t, p.Validate())
	require.Equal(t, "dev", p.Mode)
}
