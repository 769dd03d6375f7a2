package tarfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel f is about to be read front to back.
// It is only a hint; failure is ignored.
func adviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
