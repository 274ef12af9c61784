package mcml

import (
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"path/filepath"
)

var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

// SaveAnimatedGIF writes one frame per time tick: x across, depth down.
// delay is in 100ths of a second. Each frame is normalized to its own peak
// and gamma < 1 darkens, > 1 brightens.
func SaveAnimatedGIF(res *Results, path string, delay int, gamma float64) error {
	if err := res.checkFrames(); err != nil {
		return err
	}
	w, h, nt := 2*res.Nr, res.Nz, res.Nt

	out := &gif.GIF{
		Image: make([]*image.Paletted, 0, nt),
		Delay: make([]int, 0, nt),
	}
	step := progressStep(nt)
	for t := 0; t < nt; t++ {
		if t%step == 0 {
			logger.Infof("[GIF] %.2f%%", float64(t+1)*100/float64(nt))
		}
		frame := res.Frame(t)
		scale := frameScale(frame)

		img := image.NewPaletted(image.Rect(0, 0, w, h), grayPalette)
		for ix := 0; ix < w; ix++ {
			for iz := 0; iz < h; iz++ {
				n := level(frame[ix*h+iz], scale, gamma)
				img.Pix[iz*img.Stride+ix] = uint8(math.Round(n * 255))
			}
		}
		out.Image = append(out.Image, img)
		out.Delay = append(out.Delay, delay)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
