package tarfile

import (
	"bytes"
	"math"
)

// nts converts a NUL-terminated field to a string. A field without a NUL is
// taken whole.
func nts(s []byte) string {
	if p := bytes.IndexByte(s, NUL); p != -1 {
		s = s[:p]
	}
	return string(s)
}

// nti decodes a numeric header field, octal or base-256.
func nti(s []byte) int64 {
	if len(s) > 0 && s[0]&0x80 != 0 {
		return parseBase256(s)
	}
	return parseOctal(s)
}

// parseOctal accumulates the octal digits of s up to the first NUL.
// Anything that is not a digit, spaces included, is skipped.
func parseOctal(s []byte) int64 {
	var n int64
	for _, c := range s {
		if c == NUL {
			break
		}
		if c >= '0' && c <= '7' {
			n = n<<3 + int64(c-'0')
		}
	}
	return n
}

// parseBase256 decodes the GNU binary encoding: big-endian two's complement
// with the marker bit 0x80 set on the first byte and the sign in bit 0x40.
// Values that do not fit in an int64 clamp to math.MinInt64 or math.MaxInt64.
func parseBase256(s []byte) int64 {
	if len(s) == 0 {
		return 0
	}
	var (
		c   = s[0]
		neg byte
		n   uint64
	)
	if c&0x40 != 0 {
		neg = 0xff
		c |= 0x80
		n = math.MaxUint64
	} else {
		c &= 0x7f
	}
	clamp := func() int64 {
		if neg != 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	}

	// Leading bytes beyond the width of an int64 carry nothing but sign.
	i := 0
	for len(s)-i > 8 {
		if c != neg {
			return clamp()
		}
		i++
		c = s[i]
	}
	if (c^neg)&0x80 != 0 {
		return clamp()
	}
	for {
		n = n<<8 | uint64(c)
		i++
		if i == len(s) {
			break
		}
		c = s[i]
	}
	return int64(n)
}

// isZeroBlock reports whether every byte of blk is NUL.
func isZeroBlock(blk *[BLOCKSIZE]byte) bool {
	for _, c := range blk {
		if c != NUL {
			return false
		}
	}
	return true
}

// padding returns how many bytes follow a payload of size bytes before the
// next block boundary.
func padding(size uint64) uint64 {
	return (BLOCKSIZE - size%BLOCKSIZE) % BLOCKSIZE
}

func isRegular(typeflag byte) bool {
	return bytes.IndexByte(REGULAR_TYPES, typeflag) != -1
}
