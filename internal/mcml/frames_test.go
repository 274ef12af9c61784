package mcml

import (
	"bytes"
	"encoding/binary"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tinyFrames has one bright cell per tick so frames are not black.
func tinyFrames() *Results {
	r := NewResults(3, 2, 1, 2)
	r.Frame(0)[1*3+0] = 1
	r.Frame(1)[2*3+2] = 0.5
	r.Frame(1)[0] = 0.25
	return r
}

func TestFrameLayout(t *testing.T) {
	r := tinyFrames()
	assert.Len(t, r.Frame(0), 2*2*3)
	assert.Equal(t, 1.0, r.WTxz[(0*4+1)*3+0])
	assert.Equal(t, 0.5, r.WTxz[(1*4+2)*3+2])
}

func TestSaveAnimatedGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "w.gif")
	require.NoError(t, SaveAnimatedGIF(tinyFrames(), path, 5, 0.8))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	require.Len(t, g.Image, 2)
	assert.Equal(t, []int{5, 5}, g.Delay)
	assert.Equal(t, 4, g.Image[0].Bounds().Dx())
	assert.Equal(t, 3, g.Image[0].Bounds().Dy())

	// per-frame normalization puts each frame's peak at full brightness
	assert.Equal(t, uint8(255), g.Image[0].Pix[0*g.Image[0].Stride+1])
	assert.Equal(t, uint8(255), g.Image[1].Pix[2*g.Image[1].Stride+2])
}

func TestSavePNGSequence16(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "pngs", "frame")
	require.NoError(t, SavePNGSequence16(tinyFrames(), prefix, 1))

	for _, name := range []string{"frame_0.png", "frame_1.png"} {
		f, err := os.Open(filepath.Join(filepath.Dir(prefix), name))
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, 4, img.Bounds().Dx())
		assert.Equal(t, 3, img.Bounds().Dy())
	}
}

func TestFramesRequireTimeGrid(t *testing.T) {
	r := NewResults(3, 2, 1, 0)
	dir := t.TempDir()
	assert.Error(t, SaveAnimatedGIF(r, filepath.Join(dir, "a.gif"), 5, 1))
	assert.Error(t, SavePNGSequence16(r, filepath.Join(dir, "a"), 1))
	assert.Error(t, SaveRawWTXZ(r, filepath.Join(dir, "a.raw")))

	r = tinyFrames()
	r.WTxz = r.WTxz[:3]
	assert.Error(t, SaveRawWTXZ(r, filepath.Join(dir, "b.raw")))
}

func TestSaveRawWTXZ(t *testing.T) {
	r := tinyFrames()
	for i := range r.WTxz {
		r.WTxz[i] += float64(i) / 100
	}
	path := filepath.Join(t.TempDir(), "w.raw")
	require.NoError(t, SaveRawWTXZ(r, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 12+8*len(r.WTxz))

	var hdr [3]int32
	require.NoError(t, binary.Read(bytes.NewReader(data[:12]), binary.LittleEndian, &hdr))
	assert.Equal(t, [3]int32{2, 4, 3}, hdr)

	back, err := ReadRawWTXZ(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, r.WTxz, back.WTxz)
	assert.Equal(t, 2, back.Nt)
	assert.Equal(t, 2, back.Nr)
	assert.Equal(t, 3, back.Nz)
}

func TestReadRawWTXZTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRawWTXZ(&buf, tinyFrames()))
	_, err := ReadRawWTXZ(bytes.NewReader(buf.Bytes()[:buf.Len()-4]))
	assert.Error(t, err)
	_, err = ReadRawWTXZ(bytes.NewReader(buf.Bytes()[:8]))
	assert.Error(t, err)
}
