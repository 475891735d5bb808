// Package pixel decodes the raster payloads of E2E image chunks: plain
// 8-bit grayscale for planar reference images, and the container's
// bespoke 16-bit float encoding for volumetric scan slices.
package pixel

import (
	"fmt"
	"image"
	"math"
	"math/bits"

	"gonum.org/v1/gonum/mat"
)

const (
	mantissaBits = 10
	exponentBias = 63

	// Scan intensities are gamma-corrected as 256 * v^(1/2.4).
	gammaScale    = 256
	gammaExponent = 1.0 / 2.4
)

// GraySize returns the payload size in bytes of a planar image.
func GraySize(width, height int) int {
	return width * height
}

// ScanSize returns the payload size in bytes of a volumetric slice.
func ScanSize(width, height int) int {
	return 2 * width * height
}

// DecodeGray converts width*height single-byte samples into a grayscale
// image, row-major: height rows of width columns.
func DecodeGray(buf []byte, width, height int) (*image.Gray, error) {
	if len(buf) != GraySize(width, height) {
		return nil, fmt.Errorf("planar payload is %d bytes, want %d", len(buf), GraySize(width, height))
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, buf) // stride equals width for a zero-origin Gray
	return img, nil
}

// CustomFloat16 decodes the container's bespoke 16-bit float: no sign
// bit, 10-bit mantissa and 6-bit exponent biased by 63, with bit order
// within each byte reversed (least-significant bit first) before
// reassembly. The first ten reversed bits form the mantissa; the last
// six are reversed once more to form the exponent. Both reversals
// cancel out to: mantissa = bit-reverse of the low ten bits of the
// little-endian field, exponent = top six bits of the second byte.
func CustomFloat16(lo, hi byte) float64 {
	mantissa := bits.Reverse16(uint16(lo)|uint16(hi&0x03)<<8) >> (16 - mantissaBits)
	exponent := int(hi >> 2)
	return math.Ldexp(1+float64(mantissa)/(1<<mantissaBits), exponent-exponentBias)
}

// DecodeScan converts width*height two-byte custom-float samples into a
// gamma-corrected dense matrix of width rows by height columns.
// Both dimensions must be positive; mat.Dense cannot hold a zero-size
// raster.
func DecodeScan(buf []byte, width, height int) (*mat.Dense, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("scan raster has impossible dimensions %dx%d", width, height)
	}
	if len(buf) != ScanSize(width, height) {
		return nil, fmt.Errorf("scan payload is %d bytes, want %d", len(buf), ScanSize(width, height))
	}
	m := mat.NewDense(width, height, nil)
	data := m.RawMatrix().Data
	for i := range data {
		v := CustomFloat16(buf[2*i], buf[2*i+1])
		data[i] = gammaScale * math.Pow(v, gammaExponent)
	}
	return m, nil
}
