// Package flashpage stands in for the vendor flash page read/erase/write
// primitive (spec Section 1, "Out of scope"; Section 6, "Flash layout").
// It backs a single erasable page with one file on disk so the
// provisioning store above it can be exercised without real hardware.
package flashpage

import (
	"errors"
	"os"
)

// ErrShortRead is returned when the backing file holds fewer bytes than
// requested — the flash-equivalent of unwritten (erased) memory.
var ErrShortRead = errors.New("flashpage: short read, page may be unwritten")

// Page is a single erasable flash page backed by a file.
type Page struct {
	path string
	size int
}

// New returns a Page of size bytes backed by path. The file is created
// lazily on first Write/Erase; Read on a missing file returns
// ErrShortRead, modeling unwritten flash.
func New(path string, size int) *Page {
	return &Page{path: path, size: size}
}

// Read loads the full page into a freshly allocated buffer. If the
// backing file doesn't exist or is smaller than the page size, Read
// returns ErrShortRead and a zero-filled buffer of page size — the same
// shape first-boot code sees when reading unwritten flash.
func (p *Page) Read() ([]byte, error) {
	buf := make([]byte, p.size)
	data, err := os.ReadFile(p.path)
	if err != nil {
		return buf, ErrShortRead
	}
	if len(data) < p.size {
		copy(buf, data)
		return buf, ErrShortRead
	}
	copy(buf, data[:p.size])
	return buf, nil
}

// Erase clears the page to zero bytes, matching a flash block erase.
func (p *Page) Erase() error {
	return os.WriteFile(p.path, make([]byte, p.size), 0o600)
}

// Write persists data (truncated/zero-padded to page size) to the page.
// Real flash requires an erase before write; callers needing that
// semantics should call Erase first, as provisioning.Store.Replace does.
func (p *Page) Write(data []byte) error {
	buf := make([]byte, p.size)
	copy(buf, data)
	return os.WriteFile(p.path, buf, 0o600)
}
