package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSIncluder_ResolveInclude(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	inc := filepath.Join(root, "include")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.MkdirAll(inc, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "local.inc"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(inc, "local.inc"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(inc, "shared.inc"), []byte("c"), 0644))

	o := &OSIncluder{IncludeDirs: []string{inc}}
	current := filepath.Join(src, "room.s")

	assert.Equal(t, filepath.Join(src, "local.inc"), o.ResolveInclude(current, "local.inc"))
	assert.Equal(t, filepath.Join(inc, "shared.inc"), o.ResolveInclude(current, "shared.inc"))
	assert.Equal(t, filepath.Join(src, "missing.inc"), o.ResolveInclude(current, "missing.inc"))

	abs := filepath.Join(inc, "shared.inc")
	assert.Equal(t, abs, o.ResolveInclude(current, abs))
}

func TestOSIncluder_ReadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "x.inc")
	require.NoError(t, os.WriteFile(p, []byte("#define X 1\n"), 0644))

	o := &OSIncluder{}
	data, err := o.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "#define X 1\n", string(data))

	_, err = o.ReadFile(filepath.Join(dir, "nope.inc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.inc")
}
