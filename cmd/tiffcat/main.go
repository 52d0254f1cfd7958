// Command tiffcat decodes one or more TIFF files, tiles them into a
// single canvas, and writes the result as PNG or JPEG. Layout and
// output-format dispatch follow the teacher's cmd/merge_tiles.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kestreltiff/tiff/pixbuf"
	"github.com/kestreltiff/tiff/tiff"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <colsxrows> <output.png|.jpg> <tile1.tif> <tile2.tif> ...\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() < 3 {
		flag.Usage()
		os.Exit(1)
	}

	cols, rows, err := parseLayout(flag.Arg(0))
	if err != nil {
		log.Fatalf("invalid layout %q: %v", flag.Arg(0), err)
	}
	output := flag.Arg(1)
	inputs := flag.Args()[2:]
	if len(inputs) != cols*rows {
		log.Fatalf("layout %dx%d needs %d tiles, got %d", cols, rows, cols*rows, len(inputs))
	}

	var canvas *image.NRGBA
	var tileW, tileH int
	for idx, path := range inputs {
		fmt.Printf("decoding %s\n", path)
		tile, err := decodeTIFF(path)
		if err != nil {
			log.Fatalf("decode %s: %v", path, err)
		}

		if canvas == nil {
			tileW = tile.Bounds().Dx()
			tileH = tile.Bounds().Dy()
			canvas = image.NewNRGBA(image.Rect(0, 0, cols*tileW, rows*tileH))
		} else if tile.Bounds().Dx() != tileW || tile.Bounds().Dy() != tileH {
			log.Fatalf("tile size mismatch for %q: expected %dx%d, got %dx%d",
				path, tileW, tileH, tile.Bounds().Dx(), tile.Bounds().Dy())
		}

		col := idx % cols
		row := idx / cols
		x, y := col*tileW, row*tileH
		draw.Draw(canvas, image.Rect(x, y, x+tileW, y+tileH), tile, image.Point{}, draw.Over)
	}

	if err := save(output, canvas); err != nil {
		log.Fatal(err)
	}
}

func parseLayout(s string) (int, int, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected NxM")
	}
	cols, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	rows, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return cols, rows, nil
}

// decodeTIFF opens path, decodes its first IFD, and adapts the
// resulting pixel buffer to image.Image for one of the photometric
// models the decode pipeline supports.
func decodeTIFF(path string) (image.Image, error) {
	fr, err := tiff.Open(path, tiff.Options{})
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	r, err := fr.FirstIFD()
	if err != nil {
		return nil, err
	}
	result, err := fr.Decode(context.Background(), r, 0)
	if err != nil {
		return nil, err
	}
	return toImage(result)
}

func toImage(result any) (image.Image, error) {
	switch buf := result.(type) {
	case *pixbuf.Buffer[uint8]:
		return pixbuf.GrayImage{Buf: buf}, nil
	case *pixbuf.Buffer[uint16]:
		return pixbuf.Gray16Image{Buf: buf}, nil
	case *pixbuf.Buffer[pixbuf.RGB8]:
		return pixbuf.RGBImage{Buf: buf}, nil
	case *pixbuf.Buffer[pixbuf.RGB16]:
		return pixbuf.RGB16Image{Buf: buf}, nil
	case *pixbuf.Buffer[pixbuf.CMYK8]:
		return pixbuf.CMYKImage{Buf: buf}, nil
	case *pixbuf.Buffer[pixbuf.RGBA8]:
		return pixbuf.RGBAImage{Buf: buf}, nil
	default:
		return nil, fmt.Errorf("tiffcat: no image.Image adapter for decoded type %T", result)
	}
}

func save(output string, canvas *image.NRGBA) error {
	fmt.Printf("-> writing %s\n", output)
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".png":
		return png.Encode(f, canvas)
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, canvas, &jpeg.Options{Quality: 95})
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}
