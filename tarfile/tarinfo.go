package tarfile

import "fmt"

// Entry describes the archive member whose header was decoded last. It is
// informational only; the decoder's output does not depend on it.
type Entry struct {
	Name       string // Name field, up to the first NUL
	Prefix     string // USTAR name prefix
	Linkname   string // Target file name for links
	Magic      string // Magic field as found
	Version    string // Version field as found
	Type       byte   // Type flag (REGTYPE, DIRTYPE, ...)
	Size       int64  // Declared size in bytes
	DevMajor   int64  // Device major number
	DevMinor   int64  // Device minor number
	Offset     int64  // Offset of the header in the archive stream
	OffsetData int64  // Offset of the data in the archive stream
}

// entryFromHeader builds an Entry from a complete header block found at
// offset.
func entryFromHeader(blk *[BLOCKSIZE]byte, offset int64) Entry {
	h := header(blk)
	return Entry{
		Name:       nts(h.name[:]),
		Prefix:     nts(h.prefix[:]),
		Linkname:   nts(h.linkname[:]),
		Magic:      string(h.magic[:]),
		Version:    string(h.version[:]),
		Type:       h.typeflag[0],
		Size:       nti(h.size[:]),
		DevMajor:   nti(h.devmajor[:]),
		DevMinor:   nti(h.devminor[:]),
		Offset:     offset,
		OffsetData: offset + BLOCKSIZE,
	}
}

// Path returns the member name with the USTAR prefix prepended. GNU headers
// use the prefix area for other data, so it is ignored for them.
func (e *Entry) Path() string {
	if e.Prefix == "" || e.Magic != POSIX_MAGIC {
		return e.Name
	}
	return e.Prefix + "/" + e.Name
}

// String returns a string representation of the Entry.
func (e *Entry) String() string {
	return fmt.Sprintf("<%s %q type=%q size=%d at %d>", "Entry", e.Path(), e.Type, e.Size, e.Offset)
}

// TypeName returns a short human readable name for the type flag.
func (e *Entry) TypeName() string {
	switch e.Type {
	case REGTYPE, AREGTYPE:
		return "file"
	case LNKTYPE:
		return "hardlink"
	case SYMTYPE:
		return "symlink"
	case CHRTYPE:
		return "char"
	case BLKTYPE:
		return "block"
	case DIRTYPE:
		return "dir"
	case FIFOTYPE:
		return "fifo"
	case CONTTYPE:
		return "contiguous"
	case GNUTYPE_LONGNAME, GNUTYPE_LONGLINK:
		return "gnu-long"
	case GNUTYPE_SPARSE:
		return "sparse"
	case XHDTYPE, XGLTYPE, SOLARIS_XHDTYPE:
		return "pax"
	}
	return fmt.Sprintf("unknown(%q)", e.Type)
}

// IsReg returns true if the entry's payload is emitted by the decoder.
func (e *Entry) IsReg() bool {
	return isRegular(e.Type)
}

// IsDir returns true if the entry represents a directory.
func (e *Entry) IsDir() bool {
	return e.Type == DIRTYPE
}

// IsSym returns true if the entry represents a symbolic link.
func (e *Entry) IsSym() bool {
	return e.Type == SYMTYPE
}

// IsLnk returns true if the entry represents a hard link.
func (e *Entry) IsLnk() bool {
	return e.Type == LNKTYPE
}

// IsChr returns true if the entry represents a character device.
func (e *Entry) IsChr() bool {
	return e.Type == CHRTYPE
}

// IsBlk returns true if the entry represents a block device.
func (e *Entry) IsBlk() bool {
	return e.Type == BLKTYPE
}

// IsFifo returns true if the entry represents a FIFO.
func (e *Entry) IsFifo() bool {
	return e.Type == FIFOTYPE
}

// IsDev returns true if the entry represents a device (character, block, or FIFO).
func (e *Entry) IsDev() bool {
	return e.Type == CHRTYPE || e.Type == BLKTYPE || e.Type == FIFOTYPE
}
