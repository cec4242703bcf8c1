package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/java2objc/translate"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Jobs)
	assert.Empty(t, cfg.TypeMap)
}

func TestLoadProjectFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`
outputdir = "build/objc"
jobs = 3
typemap = ["Date=NSDate *", "long = NSInteger"]
`), 0o644))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "build/objc", cfg.OutputDir)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, map[string]string{"Date": "NSDate *", "long": "NSInteger"}, cfg.TypeMap)

	opts := cfg.Options()
	assert.Equal(t, "build/objc", opts.OutputDir)
	assert.Equal(t, 3, opts.Jobs)
}

func TestLoadEnvironmentAndFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JAVA2OBJC_OUTPUTDIR", "from-env")
	t.Setenv("JAVA2OBJC_JOBS", "2")

	v := New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("outputdir", ".", "")
	flags.Int("jobs", 0, "")
	require.NoError(t, BindFlags(v, flags, "outputdir", "jobs", "absent"))
	require.NoError(t, flags.Parse([]string{"--outputdir=from-flag"}))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.OutputDir)
	assert.Equal(t, 2, cfg.Jobs)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, translate.ErrPrecondition))
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("outputdir = "), 0o644))

	_, err := Load(New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestParseTypeMap(t *testing.T) {
	m, err := ParseTypeMap([]string{"Date=NSDate *", " Money = NSDecimalNumber "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Date": "NSDate *", "Money": "NSDecimalNumber"}, m)

	for _, bad := range []string{"Date", "=NSDate", "Date="} {
		_, err := ParseTypeMap([]string{bad})
		require.Error(t, err, bad)
		assert.True(t, errors.Is(err, translate.ErrPrecondition), bad)
	}
}
