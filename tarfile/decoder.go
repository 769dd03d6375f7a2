package tarfile

// State is the phase of the decoder's state machine.
type State int

const (
	ReadingHeader   State = iota // Accumulating a 512-byte header block
	ReadingFileData              // Copying a regular file's payload to the output
	SkippingPadding              // Discarding the bytes up to the next block boundary
	Finished                     // End-of-archive marker seen
)

func (s State) String() string {
	switch s {
	case ReadingHeader:
		return "reading-header"
	case ReadingFileData:
		return "reading-file-data"
	case SkippingPadding:
		return "skipping-padding"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Filter is a symmetric stream filter: it consumes from src, produces into
// dst and reports how much of each it used. more is false once the filter
// has nothing left to do.
type Filter interface {
	Advance(src, dst []byte, flush bool) (nSrc, nDst int, more bool)
	Reset()
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithStrictEndMarker makes the decoder wait for two consecutive zero blocks
// before finishing. A lone zero block followed by a header is skipped.
func WithStrictEndMarker() DecoderOption {
	return func(d *Decoder) { d.strict = true }
}

// WithSkipEntryData makes the decoder skip the declared payload of
// non-regular entries along with their padding. By default only the padding
// is skipped, which is enough for directories, links and devices but leaves
// the decoder reading PAX records or GNU long names as if they were headers.
func WithSkipEntryData() DecoderOption {
	return func(d *Decoder) { d.skipData = true }
}

// withHeaderFunc registers fn to be called with every decoded header.
func withHeaderFunc(fn func(Entry)) DecoderOption {
	return func(d *Decoder) { d.onHeader = fn }
}

// Decoder incrementally turns a TAR byte stream into the concatenated
// payloads of its regular files. Headers, padding and the contents of every
// other entry type are dropped.
//
// Decoding is permissive: checksums and magic are not checked, malformed
// octal digits are skipped and oversized base-256 numbers are clamped. A
// truncated archive is indistinguishable from one whose remaining bytes have
// not arrived yet.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	strict   bool
	skipData bool
	onHeader func(Entry)

	state      State
	hdr        [BLOCKSIZE]byte
	hdrRead    int
	size       uint64 // declared size, zero for skipped entries
	emitted    uint64
	pad        uint64
	padSkipped uint64
	zeros      int // consecutive zero blocks, strict mode only

	name    string
	entry   Entry
	entries int
	offset  int64
}

var _ Filter = (*Decoder)(nil)

// NewDecoder returns a Decoder positioned at the start of an archive.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Advance decodes as much of src into dst as possible. It returns the number
// of bytes consumed from src and written to dst; more is true while the
// caller should keep calling, and false once the end of the archive has been
// reached. flush is ignored.
func (d *Decoder) Advance(src, dst []byte, flush bool) (nSrc, nDst int, more bool) {
	if d.state == Finished {
		return 0, 0, false
	}
	defer func() { d.offset += int64(nSrc) }()

	for nSrc < len(src) && nDst < len(dst) {
		switch d.state {
		case ReadingHeader:
			n := copy(d.hdr[d.hdrRead:], src[nSrc:])
			nSrc += n
			d.hdrRead += n
			if d.hdrRead < BLOCKSIZE {
				break
			}
			d.hdrRead = 0
			if isZeroBlock(&d.hdr) {
				d.zeros++
				if !d.strict || d.zeros == 2 {
					d.state = Finished
					return nSrc, nDst, false
				}
				break
			}
			d.zeros = 0
			d.readHeader(d.offset + int64(nSrc) - BLOCKSIZE)

		case ReadingFileData:
			n := min(len(src)-nSrc, len(dst)-nDst)
			if rem := d.size - d.emitted; rem < uint64(n) {
				n = int(rem)
			}
			copy(dst[nDst:], src[nSrc:nSrc+n])
			nSrc += n
			nDst += n
			d.emitted += uint64(n)
			if d.emitted == d.size {
				d.state = SkippingPadding
			}

		case SkippingPadding:
			n := len(src) - nSrc
			if rem := d.pad - d.padSkipped; rem < uint64(n) {
				n = int(rem)
			}
			nSrc += n
			d.padSkipped += uint64(n)
			if d.padSkipped == d.pad {
				d.state = ReadingHeader
			}
		}
	}
	return nSrc, nDst, true
}

// readHeader takes the per-entry values out of the complete header block
// and picks the next state.
func (d *Decoder) readHeader(offset int64) {
	d.entry = entryFromHeader(&d.hdr, offset)
	d.entries++
	d.name = d.entry.Name
	if d.onHeader != nil {
		d.onHeader(d.entry)
	}

	// Negative sizes wrap around like any other garbage and are streamed
	// until the input runs out.
	d.size = uint64(d.entry.Size)
	d.emitted = 0
	d.pad = padding(d.size)
	d.padSkipped = 0

	if isRegular(d.entry.Type) {
		d.state = ReadingFileData
		return
	}
	if d.skipData {
		d.pad += d.size
	}
	d.size = 0
	d.state = SkippingPadding
}

// Reset returns the decoder to its initial state so it can decode another
// archive. Options are kept.
func (d *Decoder) Reset() {
	*d = Decoder{strict: d.strict, skipData: d.skipData, onHeader: d.onHeader}
}

// State returns the current phase of the decoder.
func (d *Decoder) State() State {
	return d.state
}

// Name returns the name of the current entry, or "" before the first header.
func (d *Decoder) Name() string {
	return d.name
}

// Entry returns the metadata of the current entry. ok is false before the
// first header has been decoded.
func (d *Decoder) Entry() (e Entry, ok bool) {
	return d.entry, d.entries > 0
}

// Entries returns the number of headers decoded so far.
func (d *Decoder) Entries() int {
	return d.entries
}

// Offset returns the number of archive bytes consumed so far.
func (d *Decoder) Offset() int64 {
	return d.offset
}
