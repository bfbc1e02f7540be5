package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/earthfail/go-jfif-codec/jpeg/common"
)

// NewInfoCmd walks the segment structure of a JFIF file without decoding
// the entropy-coded data
func NewInfoCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "print the segment structure of a JFIF file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			if path == "" && len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("input path required (--file or argument)")
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			return walkSegments(common.NewReader(f))
		},
	}

	pf := cmd.Flags()
	pf.StringP("file", "f", "", "JFIF file to inspect")
	return cmd
}

func walkSegments(r *common.Reader) error {
	soi, err := r.ReadUint16()
	if err != nil {
		return err
	}
	if soi != common.MarkerSOI {
		return common.ErrInvalidMagicHeader
	}
	fmt.Println("SOI")

	for {
		off, err := r.Offset()
		if err != nil {
			return err
		}

		marker, err := r.ReadMarker()
		if err != nil {
			return err
		}

		if !common.HasLength(marker) {
			fmt.Printf("%-6s offset %d\n", common.MarkerName(marker), off)
			if marker == common.MarkerEOI {
				return nil
			}
			continue
		}

		data, err := r.ReadSegment()
		if err != nil {
			return err
		}
		fmt.Printf("%-6s offset %d, length %d\n", common.MarkerName(marker), off, len(data)+2)

		switch marker {
		case common.MarkerAPP0:
			printAPP0(data)
		case common.MarkerSOF0:
			printSOF(data)
		case common.MarkerDQT:
			printDQT(data)
		case common.MarkerSOS:
			// Entropy-coded data follows; no framing to walk past it
			// without decoding, so stop here.
			if len(data) > 0 {
				fmt.Printf("       %d scan component(s), entropy-coded data follows\n", data[0])
			}
			return nil
		}
	}
}

func printAPP0(data []byte) {
	if len(data) < 14 || string(data[0:5]) != "JFIF\x00" {
		fmt.Println("       not a JFIF header")
		return
	}
	units := map[byte]string{0: "aspect ratio", 1: "dpi", 2: "dpcm"}[data[7]]
	fmt.Printf("       JFIF %d.%02d, density %dx%d (%s), thumbnail %dx%d\n",
		data[5], data[6],
		int(data[8])<<8|int(data[9]), int(data[10])<<8|int(data[11]),
		units, data[12], data[13])
}

func printSOF(data []byte) {
	if len(data) < 6 {
		return
	}
	height := int(data[1])<<8 | int(data[2])
	width := int(data[3])<<8 | int(data[4])
	fmt.Printf("       %d-bit %dx%d, %d component(s)\n", data[0], width, height, data[5])
	for i := 0; i < int(data[5]) && 6+i*3+2 < len(data); i++ {
		off := 6 + i*3
		fmt.Printf("       component %d: sampling %dx%d, quant table %d\n",
			data[off], data[off+1]>>4, data[off+1]&0x0F, data[off+2])
	}
}

func printDQT(data []byte) {
	off := 0
	for off < len(data) {
		pq := data[off] >> 4
		tq := data[off] & 0x0F
		size := 64
		bits := 8
		if pq == 1 {
			size = 128
			bits = 16
		}
		fmt.Printf("       quant table %d, %d-bit\n", tq, bits)
		off += 1 + size
	}
}
