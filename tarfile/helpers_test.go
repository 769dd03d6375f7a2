package tarfile

import (
	"archive/tar"
	"bytes"
	"fmt"
	"time"

	"gotest.tools/v3/assert"
)

// testingT is satisfied by both *testing.T and *rapid.T.
type testingT interface {
	assert.TestingT
	Helper()
	Fatalf(format string, args ...interface{})
}

type testEntry struct {
	name     string
	typeflag byte
	body     string
	linkname string
}

func reg(name, body string) testEntry {
	return testEntry{name: name, typeflag: tar.TypeReg, body: body}
}

func dir(name string) testEntry {
	return testEntry{name: name, typeflag: tar.TypeDir}
}

func symlink(name, target string) testEntry {
	return testEntry{name: name, typeflag: tar.TypeSymlink, linkname: target}
}

// writeEntries writes entries to tw and flushes the last one, leaving the
// end-of-archive marker to the caller.
func writeEntries(t testingT, tw *tar.Writer, entries ...testEntry) {
	t.Helper()
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Typeflag: e.typeflag,
			Linkname: e.linkname,
			Mode:     0o644,
			Size:     int64(len(e.body)),
			ModTime:  time.Unix(1700000000, 0),
			Format:   tar.FormatUSTAR,
		}
		assert.NilError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(e.body))
		assert.NilError(t, err)
	}
	assert.NilError(t, tw.Flush())
}

// buildArchive returns a complete archive holding entries, terminated by two
// zero blocks.
func buildArchive(t testingT, entries ...testEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	writeEntries(t, tw, entries...)
	assert.NilError(t, tw.Close())
	return buf.Bytes()
}

// payloads returns the expected decoder output for entries.
func payloads(entries ...testEntry) []byte {
	var out []byte
	for _, e := range entries {
		if e.typeflag == tar.TypeReg {
			out = append(out, e.body...)
		}
	}
	return out
}

// rawBlock builds a header block by hand so fields can hold values the
// archive/tar writer refuses to produce.
func rawBlock(name string, typeflag byte, size []byte) []byte {
	var blk [BLOCKSIZE]byte
	h := header(&blk)
	copy(h.name[:], name)
	copy(h.mode[:], "0000644\x00")
	copy(h.size[:], size)
	h.typeflag[0] = typeflag
	copy(h.magic[:], POSIX_MAGIC)
	copy(h.version[:], "00")
	return blk[:]
}

// itn encodes n into a numeric field of the given width, switching to
// base-256 when octal digits do not suffice.
func itn(n int64, digits int) []byte {
	if n >= 0 && n < 1<<(3*(digits-1)) {
		return append([]byte(fmt.Sprintf("%0*o", digits-1, n)), NUL)
	}
	return base256(n, digits)
}

// base256 encodes n as a big-endian two's complement number of the given
// width with the marker bit set.
func base256(n int64, digits int) []byte {
	buf := make([]byte, digits)
	for i := digits - 1; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	buf[0] |= 0x80
	return buf
}

// blocks pads b with NULs up to the next block boundary.
func blocks(b []byte) []byte {
	return append(b, make([]byte, padding(uint64(len(b))))...)
}

func zeroBlocks(n int) []byte {
	return make([]byte, n*BLOCKSIZE)
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}
