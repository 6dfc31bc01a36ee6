package serialport

import (
	"fmt"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Port is an open serial port.
type Port = serial.Port

// Open opens device with opts.
func Open(device string, opts Options) (Port, error) {
	mode, err := opts.Mode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return port, nil
}

// PortInfo describes an available serial port.
type PortInfo struct {
	Device      string
	Description string
	HardwareID  string
}

func (p PortInfo) String() string {
	s := p.Device
	if p.Description != "" {
		s += " - " + p.Description
	}
	if p.HardwareID != "" {
		s += " [" + p.HardwareID + "]"
	}
	return s
}

func hardwareID(d *enumerator.PortDetails) string {
	if !d.IsUSB {
		return ""
	}
	id := fmt.Sprintf("USB VID:PID=%s:%s", d.VID, d.PID)
	if d.SerialNumber != "" {
		id += " SER=" + d.SerialNumber
	}
	return id
}

func portInfo(d *enumerator.PortDetails) PortInfo {
	return PortInfo{
		Device:      d.Name,
		Description: d.Product,
		HardwareID:  hardwareID(d),
	}
}

// List enumerates the serial ports of the system.
func List() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, portInfo(d))
	}
	return ports, nil
}
