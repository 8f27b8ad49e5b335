package magic

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/herohde/shogo/pkg/bit"
	"github.com/herohde/shogo/pkg/shogierr"
)

// shmtMagic is the 4-byte file signature for a persisted magic table.
var shmtMagic = [4]byte{'S', 'H', 'M', 'T'}

// shmtVersion is the on-disk format version.
const shmtVersion uint32 = 1

// SaveTable writes t to w in the "SHMT" binary format: a 4-byte magic,
// a version, one fixed-size header per square (mask, magic halves, shift,
// store length), the concatenated attack stores, and a trailing CRC32 of
// everything preceding it.
func SaveTable(w io.Writer, t *Table) error {
	var buf bytes.Buffer
	buf.Write(shmtMagic[:])
	_ = binary.Write(&buf, binary.LittleEndian, shmtVersion)

	for s := 0; s < 81; s++ {
		e := t.Entries[s]
		_ = binary.Write(&buf, binary.LittleEndian, e.Mask.Lo)
		_ = binary.Write(&buf, binary.LittleEndian, e.Mask.Hi)
		_ = binary.Write(&buf, binary.LittleEndian, e.MagicLo)
		_ = binary.Write(&buf, binary.LittleEndian, e.MagicHi)
		_ = binary.Write(&buf, binary.LittleEndian, uint32(e.Shift))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(e.Store)))
	}
	for s := 0; s < 81; s++ {
		for _, a := range t.Entries[s].Store {
			_ = binary.Write(&buf, binary.LittleEndian, a.Lo)
			_ = binary.Write(&buf, binary.LittleEndian, a.Hi)
		}
	}

	sum := crc32.ChecksumIEEE(buf.Bytes())
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("magic: write body: %w", err)
	}
	return binary.Write(w, binary.LittleEndian, sum)
}

// LoadTable reads a table previously written by SaveTable, verifying the
// magic signature, version, and trailing CRC32 before trusting the
// contents. Returns a shogierr.MagicTableCorrupt-kind error on any
// structural mismatch.
func LoadTable(r io.Reader, deltas []Delta) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("magic: read: %w", err)
	}
	if len(data) < 4+4+4 {
		return nil, shogierr.New(shogierr.MagicTableCorrupt, "file too short")
	}

	body, sumBytes := data[:len(data)-4], data[len(data)-4:]
	want := binary.LittleEndian.Uint32(sumBytes)
	got := crc32.ChecksumIEEE(body)
	if want != got {
		return nil, shogierr.New(shogierr.MagicTableCorrupt, "checksum mismatch")
	}

	buf := bytes.NewReader(body)
	var sig [4]byte
	if _, err := io.ReadFull(buf, sig[:]); err != nil || sig != shmtMagic {
		return nil, shogierr.New(shogierr.MagicTableCorrupt, "bad signature")
	}
	var version uint32
	if err := binary.Read(buf, binary.LittleEndian, &version); err != nil || version != shmtVersion {
		return nil, shogierr.New(shogierr.MagicTableCorrupt, "unsupported version")
	}

	t := &Table{Deltas: deltas}
	lengths := [81]uint32{}
	for s := 0; s < 81; s++ {
		e := &t.Entries[s]
		var shift uint32
		if err := binary.Read(buf, binary.LittleEndian, &e.Mask.Lo); err != nil {
			return nil, shogierr.Wrap(shogierr.MagicTableCorrupt, "truncated header", err)
		}
		_ = binary.Read(buf, binary.LittleEndian, &e.Mask.Hi)
		_ = binary.Read(buf, binary.LittleEndian, &e.MagicLo)
		_ = binary.Read(buf, binary.LittleEndian, &e.MagicHi)
		_ = binary.Read(buf, binary.LittleEndian, &shift)
		_ = binary.Read(buf, binary.LittleEndian, &lengths[s])
		e.Shift = uint(shift)
	}
	for s := 0; s < 81; s++ {
		e := &t.Entries[s]
		e.Store = make([]bit.Board128, lengths[s])
		for i := range e.Store {
			if err := binary.Read(buf, binary.LittleEndian, &e.Store[i].Lo); err != nil {
				return nil, shogierr.Wrap(shogierr.MagicTableCorrupt, "truncated store", err)
			}
			_ = binary.Read(buf, binary.LittleEndian, &e.Store[i].Hi)
		}
	}
	return t, nil
}
