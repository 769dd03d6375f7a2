package tarfile

import (
	"io"

	"github.com/pkg/errors"
)

// Reader is an io.Reader over the file payloads of the archive read from an
// underlying reader.
type Reader struct {
	r    io.Reader
	f    Filter
	dec  *Decoder // nil when f is not a Decoder
	opts options

	buf        []byte
	start, end int
	srcEOF     bool
	done       bool
	produced   int64
}

// NewReader returns a Reader decoding the archive read from r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	rd := NewFilterReader(r, nil, opts...)
	rd.dec = rd.opts.newDecoder()
	rd.f = rd.dec
	return rd
}

// NewFilterReader returns a Reader that runs the bytes of r through f. The
// entry hook and header logging only apply to Readers built by NewReader.
func NewFilterReader(r io.Reader, f Filter, opts ...Option) *Reader {
	o := newOptions(opts)
	return &Reader{
		r:    r,
		f:    f,
		opts: o,
		buf:  make([]byte, o.bufsize),
	}
}

// Read reads payload bytes into p. It returns io.EOF once the end-of-archive
// marker has been decoded or the underlying reader is exhausted.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := 0
	for n == 0 {
		if r.done {
			return 0, io.EOF
		}
		if r.start == r.end {
			if r.srcEOF {
				r.opts.logger.WithField("bytes", r.produced).Warn("archive ended without an end-of-archive marker")
				r.done = true
				continue
			}
			if err := r.fill(); err != nil {
				return 0, err
			}
			continue
		}
		nSrc, nDst, more := r.f.Advance(r.buf[r.start:r.end], p, r.srcEOF)
		r.start += nSrc
		n += nDst
		if !more {
			r.opts.logger.WithField("bytes", r.produced+int64(n)).Debug("end of archive")
			r.done = true
		}
	}
	r.produced += int64(n)
	return n, nil
}

func (r *Reader) fill() error {
	m, err := r.r.Read(r.buf)
	r.start, r.end = 0, m
	if err == io.EOF {
		r.srcEOF = true
		return nil
	}
	return errors.Wrap(err, "tarfile: read archive")
}

// Reset discards the Reader's state and makes it decode the archive read
// from src.
func (r *Reader) Reset(src io.Reader) {
	r.f.Reset()
	r.r = src
	r.start, r.end = 0, 0
	r.srcEOF, r.done = false, false
	r.produced = 0
}

// Decoder returns the Decoder behind r, or nil for Readers built by
// NewFilterReader.
func (r *Reader) Decoder() *Decoder {
	return r.dec
}
