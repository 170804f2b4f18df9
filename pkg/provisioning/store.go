// Package provisioning implements the AP's flash-backed list of
// authorized Component IDs (spec Section 4.3, "Provisioning store").
package provisioning

import (
	"encoding/binary"

	"github.com/pion/logging"
)

// FlashMagic is the sentinel written once a page holds a valid record
// (spec Section 3, "Provisioning record").
const FlashMagic uint32 = 0xDEADBEEF

// MaxComponents is the largest number of Component IDs a record can hold.
const MaxComponents = 32

// recordSize is the encoded size: magic(4) + count(4) + 32*id(4).
const recordSize = 4 + 4 + MaxComponents*4

// Page is the minimal flash-page primitive the store depends on,
// satisfied by internal/flashpage.Page.
type Page interface {
	Read() ([]byte, error)
	Erase() error
	Write([]byte) error
}

// record is the in-memory, decoded form of the flash page.
type record struct {
	magic uint32
	count uint32
	ids   [MaxComponents]uint32
}

// Store is the AP's view of its provisioning record. It is not safe for
// concurrent use — the spec's single-threaded command dispatcher is the
// only caller.
type Store struct {
	page Page
	rec  record
	log  logging.LeveledLogger
}

// Config configures a Store.
type Config struct {
	Page Page

	// SeedIDs are the compiled-in Component IDs used to initialize the
	// record on first boot (spec Section 6, COMPONENT_IDS/COMPONENT_CNT).
	SeedIDs []uint32

	// LoggerFactory creates the store's logger. If nil, logging is
	// disabled.
	LoggerFactory logging.LoggerFactory
}

// Load reads the page into memory. If the magic word mismatches, this is
// treated as first boot: the record is seeded from cfg.SeedIDs and
// persisted immediately (spec Section 4.3, load()).
func Load(cfg Config) (*Store, error) {
	if len(cfg.SeedIDs) > MaxComponents {
		return nil, ErrTooManyComponents
	}

	var log logging.LeveledLogger
	if cfg.LoggerFactory != nil {
		log = cfg.LoggerFactory.NewLogger("provisioning")
	} else {
		log = logging.NewDefaultLoggerFactory().NewLogger("provisioning")
	}

	s := &Store{page: cfg.Page, log: log}

	buf, readErr := cfg.Page.Read()
	rec := decodeRecord(buf)

	if readErr != nil || rec.magic != FlashMagic {
		log.Info("first boot, seeding provisioning record from build-time defaults")
		rec = record{magic: FlashMagic, count: uint32(len(cfg.SeedIDs))}
		copy(rec.ids[:], cfg.SeedIDs)
		s.rec = rec
		if err := s.persist(); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.rec = rec
	return s, nil
}

// List returns the currently provisioned Component IDs in stored order.
func (s *Store) List() []uint32 {
	ids := make([]uint32, s.rec.count)
	copy(ids, s.rec.ids[:s.rec.count])
	return ids
}

// Replace swaps out for in within the record (spec Section 4.3,
// replace()). It erases and rewrites the whole page; a power loss between
// the two leaves the page unmagic, which Load treats as first boot on the
// next start (spec Section 5, documented first-boot re-seed path).
func (s *Store) Replace(out, in uint32) error {
	for i := uint32(0); i < s.rec.count; i++ {
		if s.rec.ids[i] != out {
			continue
		}
		s.rec.ids[i] = in
		if err := s.persist(); err != nil {
			return err
		}
		s.log.Infof("replaced component 0x%08x with 0x%08x", out, in)
		return nil
	}
	return ErrUnknownComponent
}

func (s *Store) persist() error {
	if err := s.page.Erase(); err != nil {
		return err
	}
	return s.page.Write(encodeRecord(s.rec))
}

func encodeRecord(r record) []byte {
	buf := make([]byte, recordSize)
	binary.LittleEndian.PutUint32(buf[0:4], r.magic)
	binary.LittleEndian.PutUint32(buf[4:8], r.count)
	for i, id := range r.ids {
		off := 8 + i*4
		binary.LittleEndian.PutUint32(buf[off:off+4], id)
	}
	return buf
}

func decodeRecord(buf []byte) record {
	var r record
	if len(buf) < recordSize {
		return r
	}
	r.magic = binary.LittleEndian.Uint32(buf[0:4])
	r.count = binary.LittleEndian.Uint32(buf[4:8])
	if r.count > MaxComponents {
		r.count = MaxComponents
	}
	for i := 0; i < MaxComponents; i++ {
		off := 8 + i*4
		r.ids[i] = binary.LittleEndian.Uint32(buf[off : off+4])
	}
	return r
}
