package tarfile

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type options struct {
	bufsize     int
	comp        Compression
	logger      *logrus.Entry
	hook        func(Entry)
	decoderOpts []DecoderOption
}

// Option configures a Reader, Writer or TarFile.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		bufsize: DefaultBufferSize,
		comp:    Auto,
		logger:  logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newDecoder builds a Decoder that logs every header and passes it to the
// entry hook.
func (o *options) newDecoder() *Decoder {
	onHeader := func(e Entry) {
		o.logger.WithFields(logrus.Fields{
			"name":   e.Path(),
			"type":   e.TypeName(),
			"size":   e.Size,
			"offset": e.Offset,
		}).Debug("decoded entry header")
		if o.hook != nil {
			o.hook(e)
		}
	}
	opts := append([]DecoderOption{}, o.decoderOpts...)
	return NewDecoder(append(opts, withHeaderFunc(onHeader))...)
}

// WithBufferSize sets the size of the chunks read from the source or
// written to the destination. Values below one are ignored.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufsize = n
		}
	}
}

// WithCompression sets the compression of the archive opened by Open or
// NewTarFile. The default is Auto.
func WithCompression(c Compression) Option {
	return func(o *options) { o.comp = c }
}

// WithLogger sets the logger. Headers are logged at debug level.
func WithLogger(l *logrus.Entry) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEntryHook registers a function called with every decoded header, in
// archive order, including entries whose payload is skipped.
func WithEntryHook(fn func(Entry)) Option {
	return func(o *options) { o.hook = fn }
}

// WithDecoderOptions passes options through to the Decoder.
func WithDecoderOptions(opts ...DecoderOption) Option {
	return func(o *options) { o.decoderOpts = append(o.decoderOpts, opts...) }
}

// TarFile reads the file payloads of a possibly compressed archive.
type TarFile struct {
	Name        string      // Absolute path of the archive, if opened by name
	Compression Compression // Compression found or configured
	Members     []Entry     // Headers decoded so far

	file   *os.File // set when TarFile opened the file itself
	src    io.ReadCloser
	reader *Reader
	closed bool
}

// Open opens the archive at name.
func Open(name string, opts ...Option) (*TarFile, error) {
	if name == "" {
		return nil, NewReadError("nothing to open")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "tarfile: open archive")
	}
	adviseSequential(f)
	tf, err := NewTarFile(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	tf.file = f
	if tf.Name, err = filepath.Abs(name); err != nil {
		tf.Close()
		return nil, errors.Wrap(err, "tarfile: resolve archive path")
	}
	return tf, nil
}

// NewTarFile wraps an archive stream. Closing the TarFile does not close r.
func NewTarFile(r io.Reader, opts ...Option) (*TarFile, error) {
	o := newOptions(opts)
	src, comp, err := DecompressStream(r, o.comp)
	if err != nil {
		return nil, err
	}
	tf := &TarFile{Compression: comp, src: src}
	hook := o.hook
	opts = append(opts[:len(opts):len(opts)], WithEntryHook(func(e Entry) {
		tf.Members = append(tf.Members, e)
		if hook != nil {
			hook(e)
		}
	}))
	tf.reader = NewReader(src, opts...)
	o.logger.WithField("compression", comp.String()).Debug("opened archive stream")
	return tf, nil
}

// Read reads file payload bytes.
func (tf *TarFile) Read(p []byte) (int, error) {
	if tf.closed {
		return 0, ErrClosed
	}
	n, err := tf.reader.Read(p)
	if err != nil && err != io.EOF {
		return n, NewReadError(err.Error())
	}
	return n, err
}

// WriteTo copies every remaining payload byte to w.
func (tf *TarFile) WriteTo(w io.Writer) (int64, error) {
	if tf.closed {
		return 0, ErrClosed
	}
	return io.Copy(w, struct{ io.Reader }{tf})
}

// GetMembers decodes the rest of the archive, discarding payloads, and
// returns every header found.
func (tf *TarFile) GetMembers() ([]Entry, error) {
	if _, err := tf.WriteTo(io.Discard); err != nil {
		return nil, err
	}
	return tf.Members, nil
}

// GetNames returns the names of all members.
func (tf *TarFile) GetNames() ([]string, error) {
	members, err := tf.GetMembers()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Path()
	}
	return names, nil
}

// Offset returns the number of decompressed archive bytes consumed.
func (tf *TarFile) Offset() int64 {
	return tf.reader.Decoder().Offset()
}

// Close closes the TarFile.
func (tf *TarFile) Close() error {
	if tf.closed {
		return nil
	}
	tf.closed = true
	err := tf.src.Close()
	if tf.file != nil {
		if cerr := tf.file.Close(); err == nil {
			err = cerr
		}
	}
	return errors.Wrap(err, "tarfile: close archive")
}
