package tarfile

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func nullLogger(level logrus.Level) (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(level)
	return logrus.NewEntry(logger), hook
}

func TestReaderOneByteAtATime(t *testing.T) {
	entries := []testEntry{
		reg("a", strings.Repeat("a", 513)),
		dir("b/"),
		reg("c", "see"),
	}
	archive := buildArchive(t, entries...)

	r := NewReader(iotest.OneByteReader(bytes.NewReader(archive)), WithBufferSize(1))
	out, err := io.ReadAll(iotest.OneByteReader(r))
	assert.NilError(t, err)
	assert.Check(t, bytes.Equal(out, payloads(entries...)))
	assert.Equal(t, r.Decoder().State(), Finished)
}

func TestReaderConformsToIOReader(t *testing.T) {
	archive := buildArchive(t, reg("a", "0123456789"), reg("b", "abcdef"))
	assert.NilError(t, iotest.TestReader(NewReader(bytes.NewReader(archive)), []byte("0123456789abcdef")))
}

func TestReaderStopsAtEndMarker(t *testing.T) {
	archive := buildArchive(t, reg("a", "payload"))
	withGarbage := concat(archive, []byte("trailing bytes that are not an archive"))

	r := NewReader(bytes.NewReader(withGarbage))
	out, err := io.ReadAll(r)
	assert.NilError(t, err)
	assert.Equal(t, string(out), "payload")
	// The first zero block ends the archive, the second is never consumed.
	assert.Equal(t, r.Decoder().Offset(), int64(len(archive)-BLOCKSIZE))

	n, err := r.Read(make([]byte, 8))
	assert.Equal(t, n, 0)
	assert.Equal(t, err, io.EOF)
}

func TestReaderTruncatedArchive(t *testing.T) {
	archive := buildArchive(t, reg("big", strings.Repeat("x", 2000)))
	logger, hook := nullLogger(logrus.DebugLevel)

	r := NewReader(bytes.NewReader(archive[:BLOCKSIZE+100]), WithLogger(logger))
	out, err := io.ReadAll(r)
	assert.NilError(t, err)
	assert.Equal(t, string(out), strings.Repeat("x", 100))
	assert.Equal(t, r.Decoder().State(), ReadingFileData)

	last := hook.LastEntry()
	assert.Assert(t, last != nil)
	assert.Equal(t, last.Level, logrus.WarnLevel)
	assert.Equal(t, last.Message, "archive ended without an end-of-archive marker")
	assert.Equal(t, last.Data["bytes"], int64(100))
}

func TestReaderEmptySource(t *testing.T) {
	logger, hook := nullLogger(logrus.WarnLevel)
	out, err := io.ReadAll(NewReader(strings.NewReader(""), WithLogger(logger)))
	assert.NilError(t, err)
	assert.Equal(t, len(out), 0)
	assert.Equal(t, len(hook.AllEntries()), 1)
}

func TestReaderEntryHook(t *testing.T) {
	archive := buildArchive(t,
		reg("one", "1"),
		dir("two/"),
		symlink("three", "one"),
		reg("four", "4"),
	)
	var names []string
	r := NewReader(bytes.NewReader(archive), WithBufferSize(7), WithEntryHook(func(e Entry) {
		names = append(names, e.Name)
	}))
	out, err := io.ReadAll(r)
	assert.NilError(t, err)
	assert.Equal(t, string(out), "14")
	assert.Check(t, is.DeepEqual(names, []string{"one", "two/", "three", "four"}))
}

func TestReaderLogsHeaders(t *testing.T) {
	archive := buildArchive(t, reg("a.txt", "abc"), dir("d/"))
	logger, hook := nullLogger(logrus.DebugLevel)

	_, err := io.ReadAll(NewReader(bytes.NewReader(archive), WithLogger(logger)))
	assert.NilError(t, err)

	var headers []logrus.Fields
	for _, e := range hook.AllEntries() {
		if e.Message == "decoded entry header" {
			headers = append(headers, e.Data)
		}
	}
	assert.Equal(t, len(headers), 2)
	assert.Equal(t, headers[0]["name"], "a.txt")
	assert.Equal(t, headers[0]["type"], "file")
	assert.Equal(t, headers[0]["size"], int64(3))
	assert.Equal(t, headers[1]["name"], "d/")
	assert.Equal(t, headers[1]["offset"], int64(2*BLOCKSIZE))
	assert.Equal(t, hook.LastEntry().Message, "end of archive")
}

func TestReaderDecoderOptions(t *testing.T) {
	archive := concat(
		rawBlock("PaxHeaders/x", XHDTYPE, itn(30, LENGTH_SIZE)),
		blocks([]byte("30 mtime=1700000000.123456789\n")),
		rawBlock("x", REGTYPE, itn(3, LENGTH_SIZE)),
		blocks([]byte("xyz")),
		zeroBlocks(2),
	)
	out, err := io.ReadAll(NewReader(bytes.NewReader(archive), WithDecoderOptions(WithSkipEntryData())))
	assert.NilError(t, err)
	assert.Equal(t, string(out), "xyz")
}

func TestReaderReset(t *testing.T) {
	first := buildArchive(t, reg("a", "first"))
	second := buildArchive(t, reg("b", "second"), reg("c", "third"))

	r := NewReader(bytes.NewReader(first), WithBufferSize(100))
	out, err := io.ReadAll(r)
	assert.NilError(t, err)
	assert.Equal(t, string(out), "first")

	r.Reset(bytes.NewReader(second))
	assert.Equal(t, r.Decoder().State(), ReadingHeader)
	out, err = io.ReadAll(r)
	assert.NilError(t, err)
	assert.Equal(t, string(out), "secondthird")
	assert.Equal(t, r.Decoder().Entries(), 2)
}

func TestReaderSourceError(t *testing.T) {
	errBoom := errors.New("boom")
	archive := buildArchive(t, reg("a", strings.Repeat("a", 1000)))
	src := io.MultiReader(bytes.NewReader(archive[:600]), iotest.ErrReader(errBoom))

	out, err := io.ReadAll(NewReader(src, WithBufferSize(64)))
	assert.ErrorContains(t, err, "tarfile: read archive")
	assert.Equal(t, errors.Cause(err), errBoom)
	assert.Equal(t, string(out), strings.Repeat("a", 600-BLOCKSIZE))
}

// upperFilter passes its input through with ASCII letters upper-cased.
type upperFilter struct {
	resets int
}

func (f *upperFilter) Advance(src, dst []byte, _ bool) (int, int, bool) {
	n := copy(dst, src)
	copy(dst[:n], bytes.ToUpper(dst[:n]))
	return n, n, true
}

func (f *upperFilter) Reset() { f.resets++ }

func TestFilterReader(t *testing.T) {
	f := &upperFilter{}
	r := NewFilterReader(strings.NewReader("hello, filter"), f, WithBufferSize(4))
	assert.Check(t, r.Decoder() == nil)

	out, err := io.ReadAll(r)
	assert.NilError(t, err)
	assert.Equal(t, string(out), "HELLO, FILTER")

	r.Reset(strings.NewReader("again"))
	assert.Equal(t, f.resets, 1)
	out, err = io.ReadAll(r)
	assert.NilError(t, err)
	assert.Equal(t, string(out), "AGAIN")
}
