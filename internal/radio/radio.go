// Package radio declares the collaborators the mode coordinator drives:
// the WiFi driver, the captive portal subsystem and the transfer server.
package radio

// Mode is the WiFi radio operating mode.
type Mode int

const (
	ModeOff Mode = iota
	ModeAccessPoint
	ModeStation
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeAccessPoint:
		return "ap"
	case ModeStation:
		return "sta"
	default:
		return "unknown"
	}
}

// ConnState is the station-mode link state.
type ConnState int

const (
	Disconnected ConnState = iota
	Connected
)

func (c ConnState) String() string {
	if c == Connected {
		return "connected"
	}
	return "disconnected"
}

// Driver is the WiFi radio.
type Driver interface {
	SetMode(m Mode)
	// StartAccessPoint brings up an open AP with the given SSID.
	StartAccessPoint(ssid string)
	// DisconnectAccessPoint drops every associated station and tears the AP down.
	DisconnectAccessPoint()
	ConnectionState() ConnState
	// StationCount is the number of stations associated with our AP.
	StationCount() int
}

// Station is implemented by drivers that can associate with the configured
// upstream network on demand.
type Station interface {
	JoinNetwork()
	// LeaveNetwork drops the link and powers the radio off.
	LeaveNetwork()
}

// Portal is the captive portal subsystem. It may be started without going
// through the coordinator, so Running is authoritative.
type Portal interface {
	Start(ssid string)
	Stop()
	Running() bool
	// Tick advances the portal's HTTP/DNS handling by one step.
	Tick()
	Visitors() int
	SSID() string
}

// Transfer is the file-transfer web server. It needs an existing station link.
type Transfer interface {
	Start()
	Stop()
	Tick()
	Running() bool
}
