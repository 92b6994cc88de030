// Package gomidi sends the key preview of the editor to a MIDI output port
// through the RtMidi driver. It needs cgo.
package gomidi

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	RTMIDIContext struct {
		driver  *rtmididrv.Driver
		current drivers.Out
		send    func(midi.Message) error

		outputDevices      []RTMIDIDevice
		devicesInitialized bool
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		out     drivers.Out
	}
)

// ErrNoOutput is returned when sending without an open output port.
var ErrNoOutput = errors.New("no MIDI output open")

// NewContext opens the driver. If that fails, the context has no devices and
// every send fails with ErrNoOutput.
func NewContext() *RTMIDIContext {
	m := RTMIDIContext{}
	m.driver, _ = rtmididrv.New()
	return &m
}

// OutputDevices iterates the output ports, listing them on the first call.
func (m *RTMIDIContext) OutputDevices(yield func(RTMIDIDevice) bool) {
	if !m.devicesInitialized {
		m.initOutputDevices()
	}
	for _, device := range m.outputDevices {
		if !yield(device) {
			break
		}
	}
}

func (m *RTMIDIContext) initOutputDevices() {
	m.devicesInitialized = true
	if m.driver == nil {
		return
	}
	outs, err := m.driver.Outs()
	if err != nil {
		return
	}
	for _, out := range outs {
		m.outputDevices = append(m.outputDevices, RTMIDIDevice{context: m, out: out})
	}
}

// Open makes the device the output of the context, closing the previous one.
func (d RTMIDIDevice) Open() error {
	c := d.context
	if c.current == d.out {
		return nil
	}
	if c.driver == nil {
		return errors.New("no driver available")
	}
	c.closeCurrent()
	send, err := midi.SendTo(d.out)
	if err != nil {
		return fmt.Errorf("opening MIDI output failed: %w", err)
	}
	c.current, c.send = d.out, send
	return nil
}

func (d RTMIDIDevice) String() string {
	return d.out.String()
}

// TryToOpenBy opens the first output whose name starts with namePrefix, or
// the first output at all if takeFirst is set.
func (m *RTMIDIContext) TryToOpenBy(namePrefix string, takeFirst bool) error {
	if namePrefix == "" && !takeFirst {
		return nil
	}
	for output := range m.OutputDevices {
		if takeFirst || strings.HasPrefix(output.String(), namePrefix) {
			return output.Open()
		}
	}
	if takeFirst {
		return errors.New("could not find any MIDI output")
	}
	return fmt.Errorf("could not find a MIDI output starting with %q", namePrefix)
}

func (m *RTMIDIContext) HasDeviceOpen() bool {
	return m.current != nil && m.current.IsOpen()
}

func (m *RTMIDIContext) NoteOn(channel, key, velocity uint8) error {
	return m.sendMessage(midi.NoteOn(channel, key, velocity))
}

func (m *RTMIDIContext) NoteOff(channel, key uint8) error {
	return m.sendMessage(midi.NoteOff(channel, key))
}

func (m *RTMIDIContext) sendMessage(msg midi.Message) error {
	if m.send == nil {
		return ErrNoOutput
	}
	return m.send(msg)
}

func (m *RTMIDIContext) closeCurrent() {
	if m.current != nil && m.current.IsOpen() {
		m.current.Close()
	}
	m.current, m.send = nil, nil
}

func (m *RTMIDIContext) Close() {
	if m.driver == nil {
		return
	}
	m.closeCurrent()
	m.driver.Close()
}
