package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/earthfail/go-jfif-codec/codec"
	_ "github.com/earthfail/go-jfif-codec/jpeg/baseline" // register the JFIF codec
)

// NewDecodeCmd decodes a JFIF file to ppm, png or raw samples
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "decode a JFIF image",
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, _ := cmd.Flags().GetString("file")
			outPath, _ := cmd.Flags().GetString("out")
			format, _ := cmd.Flags().GetString("format")
			compress, _ := cmd.Flags().GetBool("zstd")

			if inPath == "" && len(args) > 0 {
				inPath = args[0]
			}
			if inPath == "" {
				return fmt.Errorf("input path required (--file or argument)")
			}

			var data []byte
			var err error
			if inPath == "-" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				data, err = os.ReadFile(inPath)
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			c, err := codec.Sniff(data)
			if err != nil {
				return err
			}
			slog.DebugContext(ctx, "codec selected", "codec", c.Name())

			res, err := c.Decode(data)
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			slog.InfoContext(ctx, "decoded",
				"width", res.Width, "height", res.Height, "components", res.Components)

			if outPath == "" {
				outPath = inPath + "." + format
				if compress {
					outPath += ".zst"
				}
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()

			var w io.Writer = f
			if compress {
				zw, err := zstd.NewWriter(f)
				if err != nil {
					return err
				}
				defer zw.Close()
				w = zw
			}

			switch format {
			case "ppm":
				return writePPM(w, res)
			case "png":
				return writePNG(w, res)
			case "raw":
				_, err := w.Write(res.PixelData)
				return err
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
		},
	}

	pf := cmd.Flags()
	pf.StringP("file", "f", "", "JFIF file to decode, or - for stdin")
	pf.StringP("out", "o", "", "Output path (defaults to input path plus format suffix)")
	pf.String("format", "ppm", "Output format (ppm|png|raw)")
	pf.Bool("zstd", false, "Compress the output with zstd")
	return cmd
}

// writePPM emits P5 for grayscale and P6 for RGB
func writePPM(w io.Writer, res *codec.DecodeResult) error {
	magic := "P6"
	if res.Components == 1 {
		magic = "P5"
	}
	if _, err := fmt.Fprintf(w, "%s\n%d %d\n255\n", magic, res.Width, res.Height); err != nil {
		return err
	}
	_, err := w.Write(res.PixelData)
	return err
}

func writePNG(w io.Writer, res *codec.DecodeResult) error {
	var img image.Image
	switch res.Components {
	case 1:
		g := image.NewGray(image.Rect(0, 0, res.Width, res.Height))
		copy(g.Pix, res.PixelData)
		img = g
	case 3:
		rgba := image.NewRGBA(image.Rect(0, 0, res.Width, res.Height))
		for i := 0; i < res.Width*res.Height; i++ {
			rgba.Pix[i*4+0] = res.PixelData[i*3+0]
			rgba.Pix[i*4+1] = res.PixelData[i*3+1]
			rgba.Pix[i*4+2] = res.PixelData[i*3+2]
			rgba.Pix[i*4+3] = 0xFF
		}
		img = rgba
	default:
		return fmt.Errorf("unexpected component count %d", res.Components)
	}
	return png.Encode(w, img)
}
