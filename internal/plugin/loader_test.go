package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesModule(t *testing.T) {
	cases := []struct {
		entry string
		want  bool
	}{
		{"cpu.so", true},
		{"CPU.SO", true},
		{"cpu.so.0.0.0", true}, // libtool-style versioned object
		{"cpufreq.so", false},  // shared prefix, different module
		{"cpu", false},         // no suffix
		{"cp", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, matchesModule(tc.entry, "cpu.so"), "entry %q", tc.entry)
	}
}

func TestScanModuleDirSkipsNonRegularFiles(t *testing.T) {
	dir := t.TempDir()

	touch := func(name string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		return path
	}
	real := touch("cpu.so")
	touch("cpufreq.so")
	touch("unrelated.txt")
	require.NoError(t, os.Symlink(real, filepath.Join(dir, "cpu.so.link")))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "cpu.so.d"), 0o755))

	matches, err := scanModuleDir(dir, "cpu")
	require.NoError(t, err)
	assert.Equal(t, []string{real}, matches,
		"only the regular file cpu.so may match: not cpufreq.so, not the symlink, not the directory")
}

func TestScanModuleDirMissingDirectory(t *testing.T) {
	_, err := scanModuleDir(filepath.Join(t.TempDir(), "absent"), "cpu")
	assert.Error(t, err)
}

func TestDirDefaultsAndOverride(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, DefaultModuleDir, c.Dir())

	c.SetDir("/opt/modules")
	assert.Equal(t, "/opt/modules", c.Dir())

	c.SetDir("")
	assert.Equal(t, DefaultModuleDir, c.Dir(), "clearing the override falls back to the default")
}

func TestLoadFallsBackToBuiltin(t *testing.T) {
	c := New(Options{Dir: t.TempDir()})

	var got *Context
	RegisterBuiltin("loader_test_builtin", func(ctx *Context) { got = ctx })

	require.NoError(t, c.Load("loader_test_builtin"))
	assert.Same(t, c, got, "the built-in registration hook receives the loading context")
}

func TestLoadBuiltinNameIsCaseInsensitive(t *testing.T) {
	c := New(Options{Dir: t.TempDir()})

	called := false
	RegisterBuiltin("Loader_Test_Mixed", func(*Context) { called = true })

	require.NoError(t, c.Load("loader_test_mixed"))
	assert.True(t, called)
}

func TestLoadUnknownModuleFails(t *testing.T) {
	c := New(Options{Dir: t.TempDir()})

	err := c.Load("definitely_not_installed")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoModule)
}

func TestLoadSkipsUnloadableCandidates(t *testing.T) {
	dir := t.TempDir()
	// Right name, not a loadable object: the scan must tolerate it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.so"), []byte("not an object"), 0o644))

	c := New(Options{Dir: dir})

	registered := false
	RegisterBuiltin("broken", func(*Context) { registered = true })

	require.NoError(t, c.Load("broken"))
	assert.True(t, registered, "after all candidates fail, the built-in still serves the name")
}
