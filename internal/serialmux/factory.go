package serialmux

import (
	"go.bug.st/serial"
)

// NewRealSerialMux creates a SerialMux backed by a real serial port at the
// given path.
func NewRealSerialMux(path string, mode PortMode) (*SerialMux[serial.Port], error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: mode.BaudRate,
		DataBits: mode.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	return NewSerialMux[serial.Port](port), nil
}
