package tdms

// Default buffer sizes for the Open/Create convenience constructors.
const (
	DefaultReadBufferSize  = 64 * 1024
	DefaultWriteBufferSize = 64 * 1024
)
