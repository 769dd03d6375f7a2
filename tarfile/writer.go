package tarfile

import (
	"io"

	"github.com/pkg/errors"
)

// Writer is an io.WriteCloser that decodes the archive bytes written to it
// and forwards the file payloads to an underlying writer.
type Writer struct {
	w    io.Writer
	f    Filter
	dec  *Decoder // nil when f is not a Decoder
	opts options

	out      []byte
	done     bool
	closed   bool
	produced int64
}

// NewWriter returns a Writer forwarding the payloads of the archive written
// to it to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	fw := NewFilterWriter(w, nil, opts...)
	fw.dec = fw.opts.newDecoder()
	fw.f = fw.dec
	return fw
}

// NewFilterWriter returns a Writer that runs the bytes written to it through
// f before passing them on to w.
func NewFilterWriter(w io.Writer, f Filter, opts ...Option) *Writer {
	o := newOptions(opts)
	return &Writer{
		w:    w,
		f:    f,
		opts: o,
		out:  make([]byte, o.bufsize),
	}
}

// Write decodes p. Bytes following the end-of-archive marker are accepted
// and discarded.
func (fw *Writer) Write(p []byte) (int, error) {
	if fw.closed {
		return 0, ErrClosed
	}
	consumed := 0
	for consumed < len(p) && !fw.done {
		nSrc, nDst, more := fw.f.Advance(p[consumed:], fw.out, false)
		consumed += nSrc
		if nDst > 0 {
			if _, err := fw.w.Write(fw.out[:nDst]); err != nil {
				return consumed, errors.Wrap(err, "tarfile: write payload")
			}
			fw.produced += int64(nDst)
		}
		if !more {
			fw.opts.logger.WithField("bytes", fw.produced).Debug("end of archive")
			fw.done = true
		}
	}
	return len(p), nil
}

// Close marks the end of the input. It does not close the underlying writer.
func (fw *Writer) Close() error {
	if fw.closed {
		return ErrClosed
	}
	fw.closed = true
	fw.f.Advance(nil, fw.out, true)
	if !fw.done {
		fw.opts.logger.WithField("bytes", fw.produced).Warn("archive ended without an end-of-archive marker")
	}
	return nil
}

// Done reports whether the end-of-archive marker has been decoded.
func (fw *Writer) Done() bool {
	return fw.done
}

// Reset discards the Writer's state and makes it forward payloads to w.
func (fw *Writer) Reset(w io.Writer) {
	fw.f.Reset()
	fw.w = w
	fw.done, fw.closed = false, false
	fw.produced = 0
}

// Decoder returns the Decoder behind fw, or nil for Writers built by
// NewFilterWriter.
func (fw *Writer) Decoder() *Decoder {
	return fw.dec
}
