package source

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

// makeTagTIFF builds a little-endian TIFF block whose IFD0 holds a Make
// string and an XResolution rational.
func makeTagTIFF(maker string, resNum, resDen uint32) []byte {
	le := binary.LittleEndian
	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, le, uint16(42))
	binary.Write(&buf, le, uint32(8))

	makeBytes := append([]byte(maker), 0)
	if len(makeBytes)%2 == 1 {
		makeBytes = append(makeBytes, 0)
	}
	dataOff := uint32(8 + 2 + 2*12 + 4)

	binary.Write(&buf, le, uint16(2))
	// Make, ASCII
	binary.Write(&buf, le, uint16(0x010F))
	binary.Write(&buf, le, uint16(2))
	binary.Write(&buf, le, uint32(len(maker)+1))
	binary.Write(&buf, le, dataOff)
	// XResolution, RATIONAL
	binary.Write(&buf, le, uint16(0x011A))
	binary.Write(&buf, le, uint16(5))
	binary.Write(&buf, le, uint32(1))
	binary.Write(&buf, le, dataOff+uint32(len(makeBytes)))
	// next IFD
	binary.Write(&buf, le, uint32(0))

	buf.Write(makeBytes)
	binary.Write(&buf, le, resNum)
	binary.Write(&buf, le, resDen)
	return buf.Bytes()
}

// withEXIF inserts an APP1 Exif segment right after the SOI marker of a JPEG.
func withEXIF(jpegData, tiffData []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiffData...)
	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))

	out := append([]byte{}, jpegData[:2]...)
	out = append(out, seg...)
	out = append(out, payload...)
	return append(out, jpegData[2:]...)
}
