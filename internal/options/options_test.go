package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOptLevel(t *testing.T) {
	lvl, err := ParseOptLevel("O2")
	require.NoError(t, err)
	require.Equal(t, O2, lvl)
	require.Equal(t, "default<O2>", lvl.Pipeline())

	_, err = ParseOptLevel("O9")
	require.Error(t, err)
}

func TestOptLevelIsHigh(t *testing.T) {
	require.True(t, O3.IsHigh())
	require.False(t, O2.IsHigh())
}

func TestParseSanitizer(t *testing.T) {
	san, err := ParseSanitizer("address")
	require.NoError(t, err)
	require.Equal(t, SanitizeAddress, san)

	san, err = ParseSanitizer("")
	require.NoError(t, err)
	require.Equal(t, NoSanitizer, san)

	_, err = ParseSanitizer("bogus")
	require.Error(t, err)
}

func TestParseRelocModel(t *testing.T) {
	rm, err := ParseRelocModel("pic")
	require.NoError(t, err)
	require.Equal(t, RelocPIC, rm)

	_, err = ParseRelocModel("bogus")
	require.Error(t, err)
}

func TestParseEmit(t *testing.T) {
	em, err := ParseEmit("llvm-ir")
	require.NoError(t, err)
	require.Equal(t, EmitLLVMIR, em)

	em, err = ParseEmit("")
	require.NoError(t, err)
	require.Equal(t, EmitObject, em)

	_, err = ParseEmit("bogus")
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	opts := Default()
	require.Equal(t, "build", opts.BuildDir)
	require.Equal(t, O0, opts.Opt)
	require.Equal(t, EmitObject, opts.Emit)
}

func TestLoadManifestMissingFileIsNotAnError(t *testing.T) {
	opts := Default()
	err := LoadManifest(filepath.Join(t.TempDir(), "thrush.yaml"), opts)
	require.NoError(t, err)
	require.Equal(t, Default(), opts)
}

func TestLoadManifestSeedsFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thrush.yaml")
	contents := "opt: O2\ntarget: x86_64\nsanitizer: address\nbuild_dir: out\nlink_libraries:\n  - m\n  - pthread\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	opts := Default()
	require.NoError(t, LoadManifest(path, opts))
	require.Equal(t, "out", opts.BuildDir)
	require.Equal(t, "x86_64", opts.Target)
	require.Equal(t, O2, opts.Opt)
	require.Equal(t, SanitizeAddress, opts.Sanitizer)
	require.Equal(t, []string{"m", "pthread"}, opts.JIT.Link)
}
