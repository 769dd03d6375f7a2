package tarfile

const (
	NUL           = byte(0)     // Null character
	BLOCKSIZE     = 512         // Length of processing blocks
	LENGTH_NAME   = 100         // Max length of filename
	LENGTH_LINK   = 100         // Max length of linkname
	LENGTH_PREFIX = 155         // Max length of prefix field
	LENGTH_SIZE   = 12          // Width of the size field
	GNU_MAGIC     = "ustar "    // Magic field of GNU headers
	POSIX_MAGIC   = "ustar\x00" // Magic field of USTAR and PAX headers

	REGTYPE          = '0'    // Regular file
	AREGTYPE         = '\x00' // Regular file (old format)
	LNKTYPE          = '1'    // Hard link
	SYMTYPE          = '2'    // Symbolic link
	CHRTYPE          = '3'    // Character device
	BLKTYPE          = '4'    // Block device
	DIRTYPE          = '5'    // Directory
	FIFOTYPE         = '6'    // FIFO
	CONTTYPE         = '7'    // Contiguous file
	GNUTYPE_LONGNAME = 'L'    // GNU long name
	GNUTYPE_LONGLINK = 'K'    // GNU long link
	GNUTYPE_SPARSE   = 'S'    // GNU sparse file
	XHDTYPE          = 'x'    // POSIX.1-2001 extended header
	XGLTYPE          = 'g'    // POSIX.1-2001 global header
	SOLARIS_XHDTYPE  = 'X'    // Solaris extended header

	// DefaultBufferSize is the chunk size the adapters read and write with.
	DefaultBufferSize = 32 * 1024
)

// REGULAR_TYPES holds the type flags whose payload is emitted. Contiguous and
// sparse files are deliberately absent: only '0' and NUL carry output.
var REGULAR_TYPES = []byte{REGTYPE, AREGTYPE}
