package tarfile

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// Compression identifies the compression wrapped around an archive.
type Compression int

const (
	Auto  Compression = -1 // Auto detects the compression from magic bytes.
	None  Compression = 0  // None represents the uncompressed.
	Gzip  Compression = 1  // Gzip is gzip compression algorithm.
	Bzip2 Compression = 2  // Bzip2 is bzip2 compression algorithm.
	Xz    Compression = 3  // Xz is xz compression algorithm.
	Zstd  Compression = 4  // Zstd is zstd compression algorithm.
)

var compressionNames = map[Compression]string{
	Auto:  "*",
	None:  "tar",
	Gzip:  "gz",
	Bzip2: "bz2",
	Xz:    "xz",
	Zstd:  "zst",
}

// String returns the short name used in "r:gz" style modes.
func (c Compression) String() string {
	if s, ok := compressionNames[c]; ok {
		return s
	}
	return fmt.Sprintf("compression(%d)", int(c))
}

// Extension returns the extension of a file that uses the compression.
func (c Compression) Extension() string {
	switch c {
	case None:
		return "tar"
	case Auto:
		return ""
	}
	if s, ok := compressionNames[c]; ok {
		return "tar." + s
	}
	return ""
}

// ParseCompression accepts the short names returned by String, the
// extensions returned by Extension, and "" or "auto" for Auto.
func ParseCompression(s string) (Compression, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "tar.")
	switch s {
	case "", "auto", "*":
		return Auto, nil
	case "none":
		return None, nil
	case "gzip", "tgz":
		return Gzip, nil
	case "bzip2":
		return Bzip2, nil
	case "zstd":
		return Zstd, nil
	}
	for c, name := range compressionNames {
		if s == name {
			return c, nil
		}
	}
	return None, NewCompressionError(fmt.Sprintf("unknown compression type %q", s))
}

var (
	bzip2Magic = []byte{0x42, 0x5A, 0x68}
	gzipMagic  = []byte{0x1F, 0x8B, 0x08}
	xzMagic    = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Detect guesses the compression of a stream from its first bytes. Anything
// unrecognised is assumed to be a plain archive.
func Detect(source []byte) Compression {
	switch {
	case bytes.HasPrefix(source, bzip2Magic):
		return Bzip2
	case bytes.HasPrefix(source, gzipMagic):
		return Gzip
	case bytes.HasPrefix(source, xzMagic):
		return Xz
	case bytes.HasPrefix(source, zstdMagic):
		return Zstd
	}
	return None
}

// DecompressStream returns a reader yielding the decompressed archive and the
// compression that was applied. With Auto the compression is detected from
// the first bytes of r.
func DecompressStream(r io.Reader, comp Compression) (io.ReadCloser, Compression, error) {
	buf := bufio.NewReaderSize(r, DefaultBufferSize)
	if comp == Auto {
		magic, err := buf.Peek(len(xzMagic))
		if err != nil && err != io.EOF {
			return nil, comp, errors.Wrap(err, "tarfile: peek compression header")
		}
		// A short or empty stream is treated as a plain archive.
		comp = Detect(magic)
	}

	switch comp {
	case None:
		return io.NopCloser(buf), comp, nil
	case Gzip:
		gz, err := gzip.NewReader(buf)
		if err != nil {
			return nil, comp, errors.Wrap(err, "tarfile: open gzip stream")
		}
		return gz, comp, nil
	case Bzip2:
		return io.NopCloser(bzip2.NewReader(buf)), comp, nil
	case Xz:
		xzReader, err := xz.NewReader(buf)
		if err != nil {
			return nil, comp, errors.Wrap(err, "tarfile: open xz stream")
		}
		return io.NopCloser(xzReader), comp, nil
	case Zstd:
		zr, err := zstd.NewReader(buf)
		if err != nil {
			return nil, comp, errors.Wrap(err, "tarfile: open zstd stream")
		}
		return zstdReadCloser{zr}, comp, nil
	}
	return nil, comp, NewCompressionError("unknown compression type " + comp.String())
}

// zstdReadCloser adapts zstd.Decoder, whose Close returns nothing.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}
