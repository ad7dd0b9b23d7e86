package serialmux

import "io"

// SerialPorter is the minimal interface needed for a serial port. The
// abstraction enables unit testing without real actuator hardware.
type SerialPorter interface {
	io.ReadWriter
	io.Closer
}

// PortMode holds the serial parameters for the actuator bridge.
type PortMode struct {
	BaudRate int
	DataBits int
}

// DefaultPortMode returns the mode used by the pointer hardware.
func DefaultPortMode() PortMode {
	return PortMode{
		BaudRate: 9600,
		DataBits: 8,
	}
}
