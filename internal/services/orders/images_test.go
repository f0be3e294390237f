package orders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageDir_Resolve(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "DRILL-X100.png"), []byte{0}, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loader-l50.jpg"), []byte{0}, 0o600))

	d := NewImageDir(dir, "placeholder.png")

	// Case-insensitive stem match.
	require.Equal(t, "DRILL-X100.png", d.Resolve("drill-x100"))
	require.Equal(t, "loader-l50.jpg", d.Resolve("LOADER-L50"))
	require.Equal(t, "placeholder.png", d.Resolve("compressor-c20"))
	require.Equal(t, "placeholder.png", d.Resolve(""))
}

func TestImageDir_missingDir(t *testing.T) {
	d := NewImageDir("/does/not/exist", "fallback.png")
	require.Equal(t, "fallback.png", d.Resolve("anything"))
}

func TestProducts_resolveImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Drill-X100.png"), []byte{0}, 0o600))

	s := New(&fakeRepo{}, nil, nil, NewImageDir(dir, "placeholder.png"), 0)
	products := s.Products()
	require.Len(t, products, 3)
	require.Equal(t, "Drill-X100.png", products[0].Image)
	require.Equal(t, "placeholder.png", products[1].Image)

	recs := s.Recommendations()
	require.Len(t, recs, 3)
}

func TestProductID(t *testing.T) {
	require.Equal(t, "drill-x100", productID("Drill X100"))
	require.Equal(t, "support-bolt-sb30", productID("Support Bolt SB30"))
}
