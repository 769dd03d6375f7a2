package tarfile

import "unsafe"

// rawHeader mirrors the on-disk USTAR header block field by field.
type rawHeader struct {
	name     [LENGTH_NAME]byte
	mode     [8]byte
	uid      [8]byte
	gid      [8]byte
	size     [LENGTH_SIZE]byte
	mtime    [12]byte
	chksum   [8]byte
	typeflag [1]byte
	linkname [LENGTH_LINK]byte
	magic    [6]byte
	version  [2]byte
	uname    [32]byte
	gname    [32]byte
	devmajor [8]byte
	devminor [8]byte
	prefix   [LENGTH_PREFIX]byte
	padding  [12]byte
}

// Both assignments fail to compile unless rawHeader is exactly one block.
var (
	_ [BLOCKSIZE - unsafe.Sizeof(rawHeader{})]struct{}
	_ [unsafe.Sizeof(rawHeader{}) - BLOCKSIZE]struct{}
)

// header returns a view of blk as a rawHeader. rawHeader consists of byte
// arrays only, so it has alignment 1 and no padding.
func header(blk *[BLOCKSIZE]byte) *rawHeader {
	return (*rawHeader)(unsafe.Pointer(blk))
}
