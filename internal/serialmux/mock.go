package serialmux

import (
	"bytes"
	"errors"
	"sync"
)

// MockSerialPort implements SerialPorter in memory, capturing writes and
// serving reads from a pre-loaded buffer. It stands in for the actuator
// bridge in tests and dev mode.
type MockSerialPort struct {
	mu sync.Mutex

	// ReadBuffer holds data returned by Read calls.
	ReadBuffer *bytes.Buffer
	// WriteBuffer captures data written to the port.
	WriteBuffer *bytes.Buffer
	// WriteError is returned by the next Write call if set.
	WriteError error
	// ShortWrite truncates the next write to half its length if set.
	ShortWrite bool
	// Closed indicates whether Close was called.
	Closed bool
}

// NewMockSerialPort returns an empty mock port.
func NewMockSerialPort() *MockSerialPort {
	return &MockSerialPort{
		ReadBuffer:  bytes.NewBuffer(nil),
		WriteBuffer: bytes.NewBuffer(nil),
	}
}

// Read serves from the read buffer.
func (m *MockSerialPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Closed {
		return 0, errors.New("serial port closed")
	}
	return m.ReadBuffer.Read(p)
}

// Write captures into the write buffer.
func (m *MockSerialPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Closed {
		return 0, errors.New("serial port closed")
	}
	if m.WriteError != nil {
		err := m.WriteError
		m.WriteError = nil
		return 0, err
	}
	if m.ShortWrite {
		m.ShortWrite = false
		n := len(p) / 2
		m.WriteBuffer.Write(p[:n])
		return n, nil
	}
	return m.WriteBuffer.Write(p)
}

// Close marks the port closed.
func (m *MockSerialPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Written returns everything written so far.
func (m *MockSerialPort) Written() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.WriteBuffer.String()
}

// NewMockSerialMux creates a SerialMux backed by an in-memory mock port and
// returns both so tests can inspect the traffic.
func NewMockSerialMux() (*SerialMux[*MockSerialPort], *MockSerialPort) {
	port := NewMockSerialPort()
	return NewSerialMux[*MockSerialPort](port), port
}
