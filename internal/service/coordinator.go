package service

import (
	"errors"

	"cardputer_radio/internal/logger"
	"cardputer_radio/internal/models"
	"cardputer_radio/internal/radio"
)

var (
	// ErrRadioBusy is returned when the station link is requested while an
	// access point mode holds the radio.
	ErrRadioBusy = errors.New("radio is hosting an access point; stop fake AP and portal first")
	// ErrNoStation is returned when the driver cannot join networks.
	ErrNoStation  = errors.New("radio driver has no station support")
	ErrJoinFailed = errors.New("station link did not come up")
)

// Recorder receives mode transitions. It must not fail the transition.
type Recorder interface {
	Record(eventType, mode, description string, meta map[string]any)
}

type nopRecorder struct{}

func (nopRecorder) Record(string, string, string, map[string]any) {}

// Coordinator arbitrates the single WiFi radio between fake AP, captive
// portal and transfer server. It is not safe for concurrent use: every call
// must come from the goroutine that owns the main loop.
//
// Each Start* only tears down its own prior instance. Starting fake AP while
// the portal runs (or the reverse) is allowed and leaves the radio with
// whichever mode touched it last.
type Coordinator struct {
	driver   radio.Driver
	portal   radio.Portal
	transfer radio.Transfer

	status *models.ServiceStatus
	rec    Recorder
	log    *logger.Logger
}

// NewCoordinator wires the collaborators to the status record owned by the
// caller. rec and log may be nil.
func NewCoordinator(status *models.ServiceStatus, driver radio.Driver, portal radio.Portal, transfer radio.Transfer, rec Recorder, log *logger.Logger) *Coordinator {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Coordinator{
		driver:   driver,
		portal:   portal,
		transfer: transfer,
		status:   status,
		rec:      rec,
		log:      logger.OrNop(log).Named("coordinator"),
	}
}

// StartFakeAP advertises an open AP with no services behind it.
// A running fake AP is torn down first.
func (c *Coordinator) StartFakeAP(ssid string) {
	c.StopFakeAP()

	c.driver.SetMode(radio.ModeAccessPoint)
	c.driver.StartAccessPoint(ssid)

	c.status.FakeAPRunning = true
	c.status.FakeAPName = ssid

	c.log.Infow("fake_ap_started", "ssid", ssid)
	c.rec.Record(models.EventStart, models.ModeFakeAP, "Fake AP started", map[string]any{"ssid": ssid})
}

// StopFakeAP drops clients and powers the radio off.
func (c *Coordinator) StopFakeAP() {
	if !c.status.FakeAPRunning {
		return
	}
	name := c.status.FakeAPName

	c.driver.DisconnectAccessPoint()
	c.driver.SetMode(radio.ModeOff)

	c.status.FakeAPRunning = false
	c.status.FakeAPName = ""

	c.log.Infow("fake_ap_stopped", "ssid", name)
	c.rec.Record(models.EventStop, models.ModeFakeAP, "Fake AP stopped", map[string]any{"ssid": name})
}

// StartPortal hands bring-up to the portal subsystem.
func (c *Coordinator) StartPortal(ssid string) {
	c.StopPortal()

	c.portal.Start(ssid)

	c.status.PortalRunning = true
	c.status.PortalName = ssid
	c.status.PortalVisitors = 0

	c.log.Infow("portal_started", "ssid", ssid)
	c.rec.Record(models.EventStart, models.ModePortal, "Captive portal started", map[string]any{"ssid": ssid})
}

// StopPortal also fires when only the subsystem thinks it is running,
// which covers portals started without going through the coordinator.
func (c *Coordinator) StopPortal() {
	if !c.status.PortalRunning && !c.portal.Running() {
		return
	}
	name := c.status.PortalName
	if name == "" {
		name = c.portal.SSID()
	}
	visitors := c.portal.Visitors()

	c.portal.Stop()
	c.driver.SetMode(radio.ModeOff)

	c.status.PortalRunning = false
	c.status.PortalName = ""
	c.status.PortalVisitors = 0

	c.log.Infow("portal_stopped", "ssid", name, "visitors", visitors)
	c.rec.Record(models.EventStop, models.ModePortal, "Captive portal stopped", map[string]any{"ssid": name, "visitors": visitors})
}

// StartTransfer needs the radio to already be associated with a network in
// station mode. Without a link it returns without doing anything; callers
// check Status to see whether the server came up.
func (c *Coordinator) StartTransfer() {
	c.StopTransfer()

	if state := c.driver.ConnectionState(); state != radio.Connected {
		c.log.Warnw("transfer_start_skipped", "conn_state", state.String())
		c.rec.Record(models.EventRejected, models.ModeTransfer, "Transfer server needs a station link", map[string]any{"conn_state": state.String()})
		return
	}

	c.transfer.Start()
	c.status.TransferRunning = true

	c.log.Infow("transfer_started")
	c.rec.Record(models.EventStart, models.ModeTransfer, "Transfer server started", nil)
}

func (c *Coordinator) StopTransfer() {
	if !c.status.TransferRunning {
		return
	}
	c.transfer.Stop()
	c.status.TransferRunning = false

	c.log.Infow("transfer_stopped")
	c.rec.Record(models.EventStop, models.ModeTransfer, "Transfer server stopped", nil)
}

// StopAll is the hard reset path.
func (c *Coordinator) StopAll() {
	c.StopFakeAP()
	c.StopPortal()
	c.StopTransfer()
}

// JoinStation associates the radio with the upstream network so the
// transfer server can be started. It refuses while an AP mode is up.
func (c *Coordinator) JoinStation() error {
	sta, ok := c.driver.(radio.Station)
	if !ok {
		return ErrNoStation
	}
	if c.status.APActive() {
		c.log.Warnw("station_join_rejected", "fake_ap", c.status.FakeAPRunning, "portal", c.status.PortalRunning)
		c.rec.Record(models.EventRejected, models.ModeStation, "Station link needs the radio free of AP modes", nil)
		return ErrRadioBusy
	}
	if c.driver.ConnectionState() == radio.Connected {
		c.status.StationConnected = true
		return nil
	}

	sta.JoinNetwork()
	state := c.driver.ConnectionState()
	c.status.StationConnected = state == radio.Connected
	if !c.status.StationConnected {
		c.log.Warnw("station_join_failed", "conn_state", state.String())
		c.rec.Record(models.EventRejected, models.ModeStation, "Station link did not come up", map[string]any{"conn_state": state.String()})
		return ErrJoinFailed
	}

	c.log.Infow("station_joined")
	c.rec.Record(models.EventStart, models.ModeStation, "Joined upstream network", nil)
	return nil
}

// LeaveStation stops the transfer server, which cannot outlive the link,
// and powers the radio off.
func (c *Coordinator) LeaveStation() error {
	sta, ok := c.driver.(radio.Station)
	if !ok {
		return ErrNoStation
	}
	if c.driver.ConnectionState() != radio.Connected && !c.status.StationConnected {
		return nil
	}

	c.StopTransfer()
	sta.LeaveNetwork()
	c.status.StationConnected = false

	c.log.Infow("station_left")
	c.rec.Record(models.EventStop, models.ModeStation, "Left upstream network", nil)
	return nil
}

// Status returns a copy of the snapshot, refreshing the client count from
// the driver while an AP mode is up and the station link every time.
func (c *Coordinator) Status() models.ServiceStatus {
	if c.status.APActive() {
		c.status.ConnectedClients = c.driver.StationCount()
	}
	c.status.StationConnected = c.driver.ConnectionState() == radio.Connected
	return *c.status
}

func (c *Coordinator) IsAnyRunning() bool {
	return c.status.AnyRunning()
}

// PortalTick runs one step of the portal subsystem. It is meant to be called
// from the main loop on a short fixed cadence.
func (c *Coordinator) PortalTick() {
	if !c.status.PortalRunning && !c.portal.Running() {
		return
	}
	c.portal.Tick()
	c.status.ConnectedClients = c.driver.StationCount()
	c.status.PortalVisitors = c.portal.Visitors()
	c.ReconcilePortal()
}

// ReconcilePortal treats the portal subsystem as the source of truth: when
// it reports running but our flag is clear, adopt its state. Idempotent.
// A set flag with a stopped subsystem is left alone; StopPortal clears it.
func (c *Coordinator) ReconcilePortal() {
	if !c.portal.Running() || c.status.PortalRunning {
		return
	}
	c.status.PortalRunning = true
	c.status.PortalName = c.portal.SSID()

	c.log.Warnw("portal_reconciled", "ssid", c.status.PortalName)
	c.rec.Record(models.EventReconcile, models.ModePortal, "Captive portal started outside the coordinator", map[string]any{"ssid": c.status.PortalName})
}

// TransferTick runs one step of the transfer server while it is up.
func (c *Coordinator) TransferTick() {
	if !c.status.TransferRunning {
		return
	}
	c.transfer.Tick()
}
