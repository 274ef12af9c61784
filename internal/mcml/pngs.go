package mcml

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

// SavePNGSequence16 writes one 16-bit grayscale PNG per time tick, named
// <prefix>_<t>.png with the tick zero-padded. Frames are normalized like
// SaveAnimatedGIF.
func SavePNGSequence16(res *Results, prefix string, gamma float64) error {
	if err := res.checkFrames(); err != nil {
		return err
	}
	w, h, nt := 2*res.Nr, res.Nz, res.Nt
	if err := os.MkdirAll(filepath.Dir(prefix), 0o755); err != nil {
		return err
	}

	width := 1
	if nt > 1 {
		width = int(math.Log10(float64(nt-1))) + 1
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	step := progressStep(nt)

	for t := 0; t < nt; t++ {
		if t%step == 0 {
			logger.Infof("[PNG] %.2f%%", float64(t+1)*100/float64(nt))
		}
		frame := res.Frame(t)
		scale := frameScale(frame)

		img := image.NewGray16(image.Rect(0, 0, w, h))
		for ix := 0; ix < w; ix++ {
			for iz := 0; iz < h; iz++ {
				v := uint16(math.Round(level(frame[ix*h+iz], scale, gamma) * 65535))
				p := iz*img.Stride + ix*2
				// big-endian per pixel
				img.Pix[p] = uint8(v >> 8)
				img.Pix[p+1] = uint8(v)
			}
		}

		f, err := os.Create(fmt.Sprintf("%s_%0*d.png", prefix, width, t))
		if err != nil {
			return err
		}
		if err := enc.Encode(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
