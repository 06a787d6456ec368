// Package ranking keeps the top five scores, by monsters beaten.
//
// The file holds one "N name" line per entry, best first. Entries with a
// score of zero are not written.
package ranking

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Size is the number of entries kept.
const Size = 5

// Entry is one line of the ranking.
type Entry struct {
	Beaten int
	Name   string
}

// Board is the ranking table, best first.
type Board struct {
	entries [Size]Entry
}

// Default returns the board used when no ranking file exists yet.
func Default() *Board {
	b := &Board{}
	b.entries[0] = Entry{Beaten: 2, Name: "KEISUKE(default)"}
	b.entries[1] = Entry{Beaten: 1, Name: "KATE(default)"}
	return b
}

// Entries returns the non-empty entries, best first.
func (b *Board) Entries() []Entry {
	var out []Entry
	for _, e := range b.entries {
		if e.Beaten != 0 {
			out = append(out, e)
		}
	}
	return out
}

// Highest returns the best score on the board.
func (b *Board) Highest() int {
	return b.entries[0].Beaten
}

// Record enters a result. It replaces the last entry when it scores at
// least as well and is not zero. Returns whether the result made the board.
func (b *Board) Record(name string, beaten int) bool {
	last := &b.entries[Size-1]
	if beaten == 0 || beaten < last.Beaten {
		return false
	}
	*last = Entry{Beaten: beaten, Name: name}
	sort.SliceStable(b.entries[:], func(i, j int) bool {
		return b.entries[i].Beaten > b.entries[j].Beaten
	})
	return true
}

// Load reads a ranking file. A missing file yields the default board.
func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ranking: %w", err)
	}

	b := &Board{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for i := 0; i < Size && sc.Scan(); {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		num, name, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("ranking %s: malformed line %q", path, line)
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return nil, fmt.Errorf("ranking %s: bad score in %q: %w", path, line, err)
		}
		b.entries[i] = Entry{Beaten: n, Name: name}
		i++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ranking: %w", err)
	}
	return b, nil
}

// Save writes the board to path.
func (b *Board) Save(path string) error {
	var buf bytes.Buffer
	for _, e := range b.Entries() {
		fmt.Fprintf(&buf, "%d %s\n", e.Beaten, e.Name)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create ranking directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write ranking: %w", err)
	}
	return nil
}
