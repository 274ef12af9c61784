package mcml

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteRawWTXZ writes the time-resolved grid as a little-endian int32
// header (nt, 2*nr, nz) followed by the float64 body in [t][ix][iz] order.
func WriteRawWTXZ(w io.Writer, res *Results) error {
	if err := res.checkFrames(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	hdr := [3]int32{int32(res.Nt), int32(2 * res.Nr), int32(res.Nz)}
	if err := binary.Write(bw, binary.LittleEndian, hdr); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, res.WTxz); err != nil {
		return err
	}
	return bw.Flush()
}

// SaveRawWTXZ writes WriteRawWTXZ output to path.
func SaveRawWTXZ(res *Results, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteRawWTXZ(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadRawWTXZ reads a file written by WriteRawWTXZ back into a Results
// holding only the time-resolved grid.
func ReadRawWTXZ(r io.Reader) (*Results, error) {
	br := bufio.NewReader(r)
	var hdr [3]int32
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	nt, nx, nz := int(hdr[0]), int(hdr[1]), int(hdr[2])
	if nt < 0 || nx < 0 || nx%2 != 0 || nz < 0 {
		return nil, fmt.Errorf("bad header nt=%d nx=%d nz=%d", nt, nx, nz)
	}
	res := &Results{Nt: nt, Nr: nx / 2, Nz: nz, WTxz: make([]float64, nt*nx*nz)}
	if err := binary.Read(br, binary.LittleEndian, res.WTxz); err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return res, nil
}
