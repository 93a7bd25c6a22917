package symbol

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/joshuapare/dryad/arena"
	"github.com/joshuapare/dryad/internal/assert"
	"github.com/joshuapare/dryad/internal/hashtable"
	"github.com/joshuapare/dryad/internal/logger"
)

// ref locates the text of one symbol: the buffer and the offset of its
// length prefix.
type ref struct {
	buf uint32
	off uint32
}

// Interner maps text to symbols. Create it with NewInterner.
type Interner struct {
	opts Options

	bufs   [][]byte // as returned by the resource
	used   int      // bytes used in the last buffer
	stored int      // bytes used across all buffers

	refs   []ref    // by symbol index
	hashes []uint64 // by symbol index

	table *hashtable.Table[uint32] // symbol indices
}

// Stats summarizes interner usage.
type Stats struct {
	Symbols     int `json:"symbols"`      // distinct texts interned
	Buffers     int `json:"buffers"`      // text buffers obtained from the resource
	BufferBytes int `json:"buffer_bytes"` // total size of all buffers
	TextBytes   int `json:"text_bytes"`   // bytes used by stored entries
	TableCap    int `json:"table_cap"`    // index slots
}

// NewInterner returns an empty interner configured by opts.
// Zero fields in opts take their default values.
func NewInterner(opts Options) (*Interner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	in := &Interner{opts: opts.withDefaults()}
	in.table = hashtable.New(in.opts.MinTableCapacity, func(idx uint32) uint64 {
		return in.hashes[idx]
	})
	return in, nil
}

// Intern returns the symbol for s, storing a copy of s on first sight.
func (in *Interner) Intern(s string) Symbol {
	if in.opts.Normalize {
		s = in.opts.Form.String(s)
	}
	return in.intern(s)
}

// InternBytes is Intern for a byte slice. b is copied and may be reused.
func (in *Interner) InternBytes(b []byte) Symbol {
	if in.opts.Normalize {
		b = in.opts.Form.Bytes(b)
	}
	return in.intern(unsafe.String(unsafe.SliceData(b), len(b)))
}

func (in *Interner) intern(s string) Symbol {
	h := hashtable.HashString(s)
	if in.table.ShouldRehash() {
		in.table.Rehash(in.table.NextCapacity(), nil)
	}

	e := in.table.LookupEntry(h, func(idx uint32) bool {
		return in.hashes[idx] == h && in.text(idx) == s
	})
	if e.Found() {
		return Symbol{id: e.Get() + 1}
	}

	assert.That(uint64(len(in.refs)) < math.MaxUint32, "symbol.Intern", "too many symbols")
	idx := uint32(len(in.refs))
	in.refs = append(in.refs, in.store(s))
	in.hashes = append(in.hashes, h)
	e.Create(idx)
	return Symbol{id: idx + 1}
}

// store appends the length-prefixed, zero-terminated entry for s.
func (in *Interner) store(s string) ref {
	var prefix [binary.MaxVarintLen64]byte
	p := binary.PutUvarint(prefix[:], uint64(len(s)))
	need := p + len(s) + 1
	if len(in.bufs) == 0 || in.used+need > len(in.bufs[len(in.bufs)-1]) {
		in.grow(need)
	}

	last := len(in.bufs) - 1
	buf := in.bufs[last]
	off := in.used
	n := copy(buf[off:], prefix[:p])
	n += copy(buf[off+n:], s)
	buf[off+n] = 0
	in.used = off + n + 1
	in.stored += n + 1

	assert.That(uint64(off) <= math.MaxUint32, "symbol.Intern", "buffer offset overflow")
	return ref{buf: uint32(last), off: uint32(off)}
}

func (in *Interner) grow(need int) {
	size := max(in.opts.MinBufferSize, need)
	mem, err := in.opts.Resource.Allocate(size, 1)
	if err != nil {
		logger.Error("symbol: buffer allocation failed", "size", size, "err", err)
		panic(fmt.Errorf("%w: interner buffer of %d bytes: %w", arena.ErrAllocFailed, size, err))
	}
	in.bufs = append(in.bufs, mem)
	in.used = 0
	logger.Debug("symbol: buffer allocated", "buffers", len(in.bufs), "size", size)
}

// entry returns the stored bytes of symbol index idx, without the terminator.
func (in *Interner) entry(idx uint32) []byte {
	r := in.refs[idx]
	buf := in.bufs[r.buf][r.off:]
	n, w := binary.Uvarint(buf)
	return buf[w : w+int(n) : w+int(n)]
}

func (in *Interner) text(idx uint32) string {
	b := in.entry(idx)
	return unsafe.String(unsafe.SliceData(b), len(b))
}

func (in *Interner) check(op string, s Symbol) uint32 {
	assert.Thatf(s.IsValid() && s.Index() < len(in.refs), op, "%s does not belong to this interner", s)
	return uint32(s.Index())
}

// Text returns the text of s. The string views interner memory and stays
// valid until Release.
func (in *Interner) Text(s Symbol) string {
	return in.text(in.check("symbol.Interner.Text", s))
}

// Bytes returns the text of s as a read-only view into interner memory.
func (in *Interner) Bytes(s Symbol) []byte {
	return in.entry(in.check("symbol.Interner.Bytes", s))
}

// Lookup returns the symbol of s if s was interned before.
// It never stores anything.
func (in *Interner) Lookup(s string) (Symbol, bool) {
	if in.opts.Normalize {
		s = in.opts.Form.String(s)
	}
	h := hashtable.HashString(s)
	idx, ok := in.table.Find(h, func(idx uint32) bool {
		return in.hashes[idx] == h && in.text(idx) == s
	})
	if !ok {
		return Symbol{}, false
	}
	v, _ := in.table.At(idx)
	return Symbol{id: v + 1}, true
}

// Len returns the number of distinct texts interned.
func (in *Interner) Len() int { return len(in.refs) }

// Reserve prepares for n more texts of about avgLen bytes each: the index is
// grown so that interning them does not rehash, and a buffer with room for
// them is made current.
func (in *Interner) Reserve(n, avgLen int) {
	if n <= 0 {
		return
	}
	want := 2*(in.table.Len()+n) + 1
	if want > in.table.Cap() {
		in.table.Rehash(want, nil)
	}

	bytes := n * (max(avgLen, 0) + 2)
	if len(in.bufs) == 0 || in.used+bytes > len(in.bufs[len(in.bufs)-1]) {
		in.grow(bytes)
	}
}

// Stats reports usage figures.
func (in *Interner) Stats() Stats {
	st := Stats{
		Symbols:   len(in.refs),
		Buffers:   len(in.bufs),
		TextBytes: in.stored,
		TableCap:  in.table.Cap(),
	}
	for _, b := range in.bufs {
		st.BufferBytes += len(b)
	}
	return st
}

// Release returns every buffer to the resource and empties the interner.
// Symbols, texts and byte views obtained before become invalid.
func (in *Interner) Release() {
	for _, b := range in.bufs {
		in.opts.Resource.Deallocate(b, 1)
	}
	clear(in.bufs)
	in.bufs = in.bufs[:0]
	in.used, in.stored = 0, 0
	in.refs = in.refs[:0]
	in.hashes = in.hashes[:0]
	in.table.Reset()
}
