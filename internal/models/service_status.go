package models

import "time"

// ServiceStatus is the aggregate snapshot of the radio modes.
type ServiceStatus struct {
	FakeAPRunning    bool   `json:"fake_ap_running"`
	FakeAPName       string `json:"fake_ap_name,omitempty"`
	PortalRunning    bool   `json:"portal_running"`
	PortalName       string `json:"portal_name,omitempty"`
	PortalVisitors   int    `json:"portal_visitors"`
	TransferRunning  bool   `json:"transfer_running"`
	ConnectedClients int    `json:"connected_clients"` // stations associated with our AP
	StationConnected bool   `json:"station_connected"` // radio joined to the upstream network
}

// AnyRunning reports whether at least one mode is active.
func (s ServiceStatus) AnyRunning() bool {
	return s.FakeAPRunning || s.PortalRunning || s.TransferRunning
}

// APActive reports whether the radio is expected to be in access-point mode.
func (s ServiceStatus) APActive() bool {
	return s.FakeAPRunning || s.PortalRunning
}

// StatusSnapshot is a persisted ServiceStatus.
type StatusSnapshot struct {
	ServiceStatus
	UpdatedAt time.Time `json:"updated_at"`
}

// TransferStats counts completed file transfers since boot.
type TransferStats struct {
	Uploads   int   `json:"uploads"`
	Downloads int   `json:"downloads"`
	Deletes   int   `json:"deletes"`
	BytesIn   int64 `json:"bytes_in"`
	BytesOut  int64 `json:"bytes_out"`
}
