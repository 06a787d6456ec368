package persistence

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"

	"undercroft/pkg/engine/world"
)

var (
	ErrBadHeader     = errors.New("persistence: bad image header")
	ErrBadDimensions = errors.New("persistence: image does not match the level size")
)

// Gray levels with special meaning in imported images. Every other level is
// rock of that hardness.
const (
	grayRoom = 0
	grayHall = 255
)

// ImportPGM builds a level from a binary PGM whose pixels cover the grid
// interior. The header is "P5", one comment line, "W H" and "255", each on
// its own line. Black pixels become one-cell rooms, white pixels hallway.
func ImportPGM(path string, width, height int) (*world.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	grid, err := DecodePGM(f, width, height)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return grid, nil
}

// DecodePGM is ImportPGM over an open reader.
func DecodePGM(r io.Reader, width, height int) (*world.Grid, error) {
	br := bufio.NewReader(r)
	iw, ih := width-2, height-2

	line, err := readHeaderLine(br)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(line, "P5") {
		return nil, fmt.Errorf("%w: expected P5, got %q", ErrBadHeader, line)
	}

	if _, err := readHeaderLine(br); err != nil {
		return nil, err
	}

	line, err = readHeaderLine(br)
	if err != nil {
		return nil, err
	}
	var w, h int
	if _, err := fmt.Sscanf(line, "%d %d", &w, &h); err != nil {
		return nil, fmt.Errorf("%w: expected dimensions, got %q", ErrBadHeader, line)
	}
	if w != iw || h != ih {
		return nil, fmt.Errorf("%w: image is %dx%d, level interior is %dx%d", ErrBadDimensions, w, h, iw, ih)
	}

	line, err = readHeaderLine(br)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(line) != "255" {
		return nil, fmt.Errorf("%w: expected maxval 255, got %q", ErrBadHeader, line)
	}

	pixels := make([]byte, iw*ih)
	if _, err := io.ReadFull(br, pixels); err != nil {
		return nil, fmt.Errorf("%w: pixel data: %w", ErrIO, err)
	}

	return fromGray(width, height, func(x, y int) uint8 { return pixels[y*iw+x] }), nil
}

func readHeaderLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: header ends early", ErrBadHeader)
		}
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ImportImage builds a level from a PNG or BMP image the same way ImportPGM
// does, after converting every pixel to gray.
func ImportImage(path string, width, height int) (*world.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w: %w", path, ErrBadHeader, err)
	}

	b := img.Bounds()
	if b.Dx() != width-2 || b.Dy() != height-2 {
		return nil, fmt.Errorf("import %s: %w: %s is %dx%d, level interior is %dx%d",
			path, ErrBadDimensions, format, b.Dx(), b.Dy(), width-2, height-2)
	}

	return fromGray(width, height, func(x, y int) uint8 {
		return color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
	}), nil
}

// fromGray builds the level; gray(x, y) is addressed in interior coordinates.
func fromGray(width, height int, gray func(x, y int) uint8) *world.Grid {
	grid := world.NewGrid(width, height)
	for y := 0; y < height-2; y++ {
		for x := 0; x < width-2; x++ {
			switch v := gray(x, y); v {
			case grayRoom:
				grid.AddRoom(world.Room{X: x + 1, Y: y + 1, Width: 1, Height: 1})
			case grayHall:
				grid.Carve(x+1, y+1, world.FloorHall)
			default:
				grid.Set(x+1, y+1, world.Cell{Terrain: world.Wall, Hardness: v})
			}
		}
	}
	return grid
}

// EncodePGM writes the grid interior as a PGM that ImportPGM reads back.
// Room cells are written black and other open cells white.
func EncodePGM(w io.Writer, grid *world.Grid) error {
	iw, ih := grid.Width()-2, grid.Height()-2
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P5\n# undercroft level\n%d %d\n255\n", iw, ih)

	for y := 1; y <= ih; y++ {
		for x := 1; x <= iw; x++ {
			c := grid.At(x, y)
			switch {
			case c.Terrain == world.FloorRoom:
				bw.WriteByte(grayRoom)
			case c.Hardness == 0:
				bw.WriteByte(grayHall)
			default:
				bw.WriteByte(c.Hardness)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
