package provisioning

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/flashpage"
)

func newTestPage(t *testing.T) *flashpage.Page {
	t.Helper()
	return flashpage.New(filepath.Join(t.TempDir(), "provision.bin"), recordSize)
}

func TestFirstBootSeeds(t *testing.T) {
	page := newTestPage(t)
	seed := []uint32{0x11111124, 0x11111125}

	s, err := Load(Config{Page: page, SeedIDs: seed})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.List(); !reflect.DeepEqual(got, seed) {
		t.Fatalf("List() = %v, want %v", got, seed)
	}
}

func TestLoadAfterSeedPersists(t *testing.T) {
	page := newTestPage(t)
	seed := []uint32{0x11111124, 0x11111125}

	if _, err := Load(Config{Page: page, SeedIDs: seed}); err != nil {
		t.Fatalf("first Load: %v", err)
	}

	s2, err := Load(Config{Page: page, SeedIDs: []uint32{0x99999999}})
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if got := s2.List(); !reflect.DeepEqual(got, seed) {
		t.Fatalf("List() after reload = %v, want original seed %v", got, seed)
	}
}

func TestReplace(t *testing.T) {
	page := newTestPage(t)
	seed := []uint32{0x11111124, 0x11111125}
	s, err := Load(Config{Page: page, SeedIDs: seed})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.Replace(0x11111124, 0x22222222); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	want := []uint32{0x22222222, 0x11111125}
	if got := s.List(); !reflect.DeepEqual(got, want) {
		t.Fatalf("List() after replace = %v, want %v", got, want)
	}

	// Replacing the new ID with the old one restores the original list.
	if err := s.Replace(0x22222222, 0x11111124); err != nil {
		t.Fatalf("Replace back: %v", err)
	}
	if got := s.List(); !reflect.DeepEqual(got, seed) {
		t.Fatalf("List() after replace back = %v, want %v", got, seed)
	}
}

func TestReplaceUnknownComponent(t *testing.T) {
	page := newTestPage(t)
	s, err := Load(Config{Page: page, SeedIDs: []uint32{0x11111124}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Replace(0xDEADC0DE, 0x1); err != ErrUnknownComponent {
		t.Fatalf("err = %v, want ErrUnknownComponent", err)
	}
}

func TestReplacePreservesCount(t *testing.T) {
	page := newTestPage(t)
	seed := []uint32{0x1, 0x2, 0x3}
	s, err := Load(Config{Page: page, SeedIDs: seed})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Replace(0x2, 0x99); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if len(s.List()) != len(seed) {
		t.Fatalf("count changed after replace: %d != %d", len(s.List()), len(seed))
	}
}
