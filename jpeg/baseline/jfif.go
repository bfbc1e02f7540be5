package baseline

import (
	"bytes"

	"github.com/earthfail/go-jfif-codec/jpeg/common"
)

// DensityUnit is the pixel-density unit declared in the JFIF APP0 segment
type DensityUnit byte

const (
	// DensityAspectRatio means the densities only express an aspect ratio
	DensityAspectRatio DensityUnit = 0
	// DensityDotsPerInch means dots per inch
	DensityDotsPerInch DensityUnit = 1
	// DensityDotsPerCM means dots per centimeter
	DensityDotsPerCM DensityUnit = 2
)

// JFIFHeader holds the fields of a validated JFIF APP0 segment
type JFIFHeader struct {
	MajorVersion byte
	MinorVersion byte
	DensityUnit  DensityUnit
	XDensity     uint16
	YDensity     uint16
}

var jfifIdentifier = []byte("JFIF\x00")

// parseJFIF validates an APP0 payload as a JFIF prolog. Thumbnails are
// not supported and make the header invalid.
func parseJFIF(data []byte) (*JFIFHeader, error) {
	if len(data) < 14 {
		return nil, common.ErrInvalidMagicHeader
	}
	if !bytes.Equal(data[0:5], jfifIdentifier) {
		return nil, common.ErrInvalidMagicHeader
	}

	h := &JFIFHeader{
		MajorVersion: data[5],
		MinorVersion: data[6],
		DensityUnit:  DensityUnit(data[7]),
		XDensity:     uint16(data[8])<<8 | uint16(data[9]),
		YDensity:     uint16(data[10])<<8 | uint16(data[11]),
	}

	if data[12] != 0 || data[13] != 0 {
		// Embedded thumbnail
		return nil, common.ErrInvalidMagicHeader
	}

	return h, nil
}
