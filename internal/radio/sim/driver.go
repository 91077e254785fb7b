// Package sim provides an in-memory WiFi driver for running off-device.
package sim

import (
	"sync"

	"cardputer_radio/internal/radio"
)

// Driver is a simulated radio. Setters may be called from any goroutine.
type Driver struct {
	mu        sync.Mutex
	mode      radio.Mode
	apSSID    string
	apUp      bool
	connected bool
	stations  int

	// call counters, read by tests
	modeChanges int
	apStarts    int
	apDrops     int
}

// NewDriver returns a powered-off radio.
func NewDriver() *Driver {
	return &Driver{mode: radio.ModeOff}
}

var (
	_ radio.Driver  = (*Driver)(nil)
	_ radio.Station = (*Driver)(nil)
)

func (d *Driver) SetMode(m radio.Mode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mode = m
	d.modeChanges++
	if m != radio.ModeAccessPoint {
		d.apUp = false
		d.apSSID = ""
		d.stations = 0
	}
}

func (d *Driver) StartAccessPoint(ssid string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.apSSID = ssid
	d.apUp = d.mode == radio.ModeAccessPoint
	d.apStarts++
}

func (d *Driver) DisconnectAccessPoint() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.apUp = false
	d.apSSID = ""
	d.stations = 0
	d.apDrops++
}

// ConnectionState reports Connected only in station mode with a link up.
func (d *Driver) ConnectionState() radio.ConnState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == radio.ModeStation && d.connected {
		return radio.Connected
	}
	return radio.Disconnected
}

func (d *Driver) StationCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stations
}

// JoinNetwork puts the radio in station mode with an established link.
func (d *Driver) JoinNetwork() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mode = radio.ModeStation
	d.connected = true
	d.apUp = false
	d.stations = 0
}

func (d *Driver) LeaveNetwork() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mode = radio.ModeOff
	d.connected = false
	d.modeChanges++
}

// SetConnected flips the station link without touching the mode.
func (d *Driver) SetConnected(ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = ok
}

// SetStationCount simulates clients associating with the AP.
func (d *Driver) SetStationCount(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n < 0 {
		n = 0
	}
	d.stations = n
}

// Mode returns the current radio mode.
func (d *Driver) Mode() radio.Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// AccessPoint returns the advertised SSID and whether the AP is up.
func (d *Driver) AccessPoint() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.apSSID, d.apUp
}

// Counters returns how many times SetMode, StartAccessPoint and
// DisconnectAccessPoint were called.
func (d *Driver) Counters() (modeChanges, apStarts, apDrops int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.modeChanges, d.apStarts, d.apDrops
}
