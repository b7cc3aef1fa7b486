package vfs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualDisk_Write(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		data         []byte
		expectError  error
		expectedUsed int
	}{
		{
			name:         "Valid write",
			filename:     "room100.s",
			data:         []byte{1, 2, 3},
			expectedUsed: 3,
		},
		{
			name:         "Nested name",
			filename:     "lib/aot.inc",
			data:         []byte{1},
			expectedUsed: 1,
		},
		{
			name:        "Invalid filename special chars",
			filename:    "test!.s",
			data:        []byte{1},
			expectError: ErrInvalidFilename,
		},
		{
			name:        "Invalid filename path traversal",
			filename:    "lib/../../passwd",
			data:        []byte{1},
			expectError: ErrInvalidFilename,
		},
		{
			name:        "Invalid filename absolute",
			filename:    "/etc/passwd",
			data:        []byte{1},
			expectError: ErrInvalidFilename,
		},
		{
			name:        "Quota exceeded",
			filename:    "big.bin",
			data:        make([]byte, MaxDiskBytes+1),
			expectError: ErrQuotaExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vd := NewVirtualDisk()
			err := vd.Write(tt.filename, tt.data)
			if tt.expectError != nil {
				assert.True(t, errors.Is(err, tt.expectError), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedUsed, vd.UsedBytes)
			assert.True(t, vd.Dirty)

			stored, err := vd.Read(tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.data, stored)
		})
	}
}

func TestVirtualDisk_WriteCopiesData(t *testing.T) {
	vd := NewVirtualDisk()
	data := []byte{1, 2, 3}
	require.NoError(t, vd.Write("a.bin", data))
	data[0] = 9

	stored, err := vd.Read("a.bin")
	require.NoError(t, err)
	assert.Equal(t, byte(1), stored[0])
}

func TestVirtualDisk_OverwriteAndDelete(t *testing.T) {
	vd := NewVirtualDisk()
	require.NoError(t, vd.Write("a.bin", []byte{1, 2, 3}))
	require.NoError(t, vd.Write("a.bin", []byte{1}))
	assert.Equal(t, 1, vd.UsedBytes)

	require.NoError(t, vd.Delete("a.bin"))
	assert.Equal(t, 0, vd.UsedBytes)
	assert.False(t, vd.Exists("a.bin"))

	_, err := vd.Read("a.bin")
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.True(t, errors.Is(vd.Delete("a.bin"), ErrFileNotFound))
}

func TestVirtualDisk_List(t *testing.T) {
	vd := NewVirtualDisk()
	require.NoError(t, vd.Write("b.s", nil))
	require.NoError(t, vd.Write("lib/c.inc", nil))
	require.NoError(t, vd.Write("a.s", nil))
	assert.Equal(t, []string{"a.s", "b.s", "lib/c.inc"}, vd.List())
}

func TestVirtualDisk_ResolveInclude(t *testing.T) {
	vd := NewVirtualDisk()
	require.NoError(t, vd.Write("rooms/room100.s", nil))
	require.NoError(t, vd.Write("rooms/local.inc", nil))
	require.NoError(t, vd.Write("common.inc", nil))

	assert.Equal(t, "rooms/local.inc", vd.ResolveInclude("rooms/room100.s", "local.inc"))
	assert.Equal(t, "common.inc", vd.ResolveInclude("rooms/room100.s", "common.inc"))
	assert.Equal(t, "common.inc", vd.ResolveInclude("rooms/room100.s", "/common.inc"))
	assert.Equal(t, "rooms/missing.inc", vd.ResolveInclude("rooms/room100.s", "missing.inc"))

	data, err := vd.ReadFile("common.inc")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestVirtualDisk_PersistAndLoad(t *testing.T) {
	dir := t.TempDir()

	vd := NewVirtualDisk()
	require.NoError(t, vd.Write("out/room100.s", []byte("nop\n")))
	require.NoError(t, vd.Write("gone.s", []byte("x")))
	require.NoError(t, vd.PersistTo(dir))
	assert.False(t, vd.Dirty)

	raw, err := os.ReadFile(filepath.Join(dir, "out", "room100.s"))
	require.NoError(t, err)
	assert.Equal(t, "nop\n", string(raw))

	require.NoError(t, vd.Delete("gone.s"))
	require.NoError(t, vd.PersistTo(dir))
	_, err = os.Stat(filepath.Join(dir, "gone.s"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad name!.s"), []byte("x"), 0644))

	loaded := NewVirtualDisk()
	require.NoError(t, loaded.LoadFrom(dir))
	assert.Equal(t, []string{"out/room100.s"}, loaded.List())
	assert.False(t, loaded.Dirty)

	data, err := loaded.Read("out/room100.s")
	require.NoError(t, err)
	assert.Equal(t, "nop\n", string(data))
}

func TestVirtualDisk_LoadFromMissingDir(t *testing.T) {
	vd := NewVirtualDisk()
	assert.NoError(t, vd.LoadFrom(filepath.Join(t.TempDir(), "nope")))
	assert.Empty(t, vd.List())
}
