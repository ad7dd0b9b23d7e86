// Package actuator drives the physical directional pointer over the serial
// bridge.
//
// The pointer covers a 180-degree front arc: 0 is hard right of the
// mounting, 90 is straight ahead, 180 is hard left. Commands are
// best-effort text lines; the hardware never acknowledges.
package actuator

import (
	"fmt"

	"github.com/banshee-data/wayfinder/internal/metrics"
)

// CentreAngle is the straight-ahead pointer position.
const CentreAngle = 90

// CommandSender writes one command line to the actuator link.
// *serialmux.SerialMux satisfies it.
type CommandSender interface {
	SendCommand(string) error
}

// Pointer formats and sends angle commands.
type Pointer struct {
	link CommandSender
}

// NewPointer returns a pointer speaking over link.
func NewPointer(link CommandSender) *Pointer {
	return &Pointer{link: link}
}

// Point aims the actuator at the given angle, clamped to [0, 180].
func (p *Pointer) Point(angle int) error {
	if angle < 0 {
		angle = 0
	}
	if angle > 180 {
		angle = 180
	}
	if err := p.link.SendCommand(fmt.Sprintf("centre = %d\r\n", angle)); err != nil {
		return err
	}
	metrics.ActuatorCommands.Inc()
	return nil
}

// Centre aims the actuator straight ahead.
func (p *Pointer) Centre() error {
	return p.Point(CentreAngle)
}
