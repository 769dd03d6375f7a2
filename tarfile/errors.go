package tarfile

// TarError is the base type of the errors returned by the adapters. The
// Decoder itself never fails.
type TarError struct {
	msg string
}

func (e *TarError) Error() string { return e.msg }

type ReadError struct{ TarError }
type CompressionError struct{ TarError }
type StreamError struct{ TarError }

// ErrClosed is returned when a closed Writer or TarFile is used.
var ErrClosed = NewStreamError("tarfile: use of closed stream")

func NewReadError(msg string) error {
	return &ReadError{TarError{msg: msg}}
}

func NewCompressionError(msg string) error {
	return &CompressionError{TarError{msg: msg}}
}

func NewStreamError(msg string) error {
	return &StreamError{TarError{msg: msg}}
}
