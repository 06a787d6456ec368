// Package persistence reads and writes levels.
//
// A save file stores the interior hardness of the grid and its room list:
//
//	offset  size  field
//	0       6     magic "RLG327"
//	6       4     version, big endian, always 0
//	10      4     total file size, big endian
//	14      W*H   interior hardness, row major, border excluded
//	...     4*n   rooms as x, y, width, height bytes
//
// Terrain is rebuilt on load: hardness 0 becomes hallway, anything else rock,
// and room rectangles are stamped back afterwards. Stairs and other
// landmarks are not stored.
package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"undercroft/pkg/engine/world"
)

// Magic opens every save file.
const Magic = "RLG327"

// Version is the only format version understood.
const Version uint32 = 0

const headerSize = len(Magic) + 4 + 4

var (
	ErrBadMagic        = errors.New("persistence: not a level save file")
	ErrVersionMismatch = errors.New("persistence: file version mismatch")
	ErrSizeMismatch    = errors.New("persistence: file size mismatch")
	ErrRoomOutOfRange  = errors.New("persistence: room outside the level")
	ErrIO              = errors.New("persistence: i/o error")
)

// FileSize returns the number of bytes Encode writes for grid.
func FileSize(grid *world.Grid) int {
	return headerSize + interiorSize(grid.Width(), grid.Height()) + 4*len(grid.Rooms())
}

func interiorSize(width, height int) int {
	return (width - 2) * (height - 2)
}

// Encode writes grid in the save format.
func Encode(w io.Writer, grid *world.Grid) error {
	var buf bytes.Buffer
	buf.Grow(FileSize(grid))

	buf.WriteString(Magic)
	binary.Write(&buf, binary.BigEndian, Version)
	binary.Write(&buf, binary.BigEndian, uint32(FileSize(grid)))

	for y := 1; y < grid.Height()-1; y++ {
		for x := 1; x < grid.Width()-1; x++ {
			buf.WriteByte(grid.HardnessAt(x, y))
		}
	}

	for i, r := range grid.Rooms() {
		if r.X > 255 || r.Y > 255 || r.Width > 255 || r.Height > 255 {
			return fmt.Errorf("%w: room %d %+v does not fit in a byte", ErrRoomOutOfRange, i, r)
		}
		buf.Write([]byte{byte(r.X), byte(r.Y), byte(r.Width), byte(r.Height)})
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Decode rebuilds a grid of the given dimensions from a save file image.
func Decode(data []byte, width, height int) (*world.Grid, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrSizeMismatch, len(data))
	}
	if string(data[:len(Magic)]) != Magic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, data[:len(Magic)])
	}
	if v := binary.BigEndian.Uint32(data[6:10]); v != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, v, Version)
	}
	if size := binary.BigEndian.Uint32(data[10:14]); int64(size) != int64(len(data)) {
		return nil, fmt.Errorf("%w: header says %d bytes, file has %d", ErrSizeMismatch, size, len(data))
	}

	hardness := interiorSize(width, height)
	roomBytes := len(data) - headerSize - hardness
	if roomBytes < 0 || roomBytes%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes left for rooms", ErrSizeMismatch, roomBytes)
	}

	grid := world.NewGrid(width, height)
	body := data[headerSize:]
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			h := body[(y-1)*(width-2)+(x-1)]
			if h == 0 {
				grid.Carve(x, y, world.FloorHall)
			} else {
				grid.Set(x, y, world.Cell{Terrain: world.Wall, Hardness: h})
			}
		}
	}

	rooms := body[hardness:]
	for i := 0; i < len(rooms); i += 4 {
		r := world.Room{
			X:      int(rooms[i]),
			Y:      int(rooms[i+1]),
			Width:  int(rooms[i+2]),
			Height: int(rooms[i+3]),
		}
		if !grid.AddRoom(r) {
			return nil, fmt.Errorf("%w: room %d %+v", ErrRoomOutOfRange, i/4, r)
		}
	}
	return grid, nil
}

// Save writes grid to path, creating parent directories as needed. The file
// is replaced atomically.
func Save(path string, grid *world.Grid) error {
	var buf bytes.Buffer
	if err := Encode(&buf, grid); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create save directory: %w", ErrIO, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write temp save: %w", ErrIO, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: replace save: %w", ErrIO, err)
	}

	slog.Info("level saved", "path", path, "bytes", buf.Len(), "rooms", len(grid.Rooms()))
	return nil
}

// Load reads a save file written for a grid of the given dimensions.
func Load(path string, width, height int) (*world.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	grid, err := Decode(data, width, height)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	slog.Info("level loaded", "path", path, "rooms", len(grid.Rooms()))
	return grid, nil
}
