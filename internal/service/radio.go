package service

import (
	"context"
	"errors"
	"strings"

	"cardputer_radio/internal/models"
)

// maxSSIDLen is the 802.11 SSID limit in bytes.
const maxSSIDLen = 32

var (
	ErrInvalidSSID  = errors.New("invalid ssid: must be 1-32 bytes")
	ErrNotConnected = errors.New("transfer server needs the radio connected to a network")
)

// RadioService submits mode changes to the main loop.
type RadioService struct {
	loop *Loop
}

func NewRadioService(loop *Loop) *RadioService {
	return &RadioService{loop: loop}
}

func validateSSID(ssid string) (string, error) {
	ssid = strings.TrimSpace(ssid)
	if ssid == "" || len(ssid) > maxSSIDLen {
		return "", ErrInvalidSSID
	}
	return ssid, nil
}

func (s *RadioService) StartFakeAP(ctx context.Context, ssid string) error {
	ssid, err := validateSSID(ssid)
	if err != nil {
		return err
	}
	return s.loop.Do(ctx, func(c *Coordinator) { c.StartFakeAP(ssid) })
}

func (s *RadioService) StopFakeAP(ctx context.Context) error {
	return s.loop.Do(ctx, func(c *Coordinator) { c.StopFakeAP() })
}

func (s *RadioService) StartPortal(ctx context.Context, ssid string) error {
	ssid, err := validateSSID(ssid)
	if err != nil {
		return err
	}
	return s.loop.Do(ctx, func(c *Coordinator) { c.StartPortal(ssid) })
}

func (s *RadioService) StopPortal(ctx context.Context) error {
	return s.loop.Do(ctx, func(c *Coordinator) { c.StopPortal() })
}

// StartTransfer reports ErrNotConnected when the coordinator declined to
// start the server. The coordinator itself stays silent about it.
func (s *RadioService) StartTransfer(ctx context.Context) error {
	var running bool
	err := s.loop.Do(ctx, func(c *Coordinator) {
		c.StartTransfer()
		running = c.Status().TransferRunning
	})
	if err != nil {
		return err
	}
	if !running {
		return ErrNotConnected
	}
	return nil
}

func (s *RadioService) StopTransfer(ctx context.Context) error {
	return s.loop.Do(ctx, func(c *Coordinator) { c.StopTransfer() })
}

func (s *RadioService) StopAll(ctx context.Context) error {
	return s.loop.Do(ctx, func(c *Coordinator) { c.StopAll() })
}

// JoinNetwork brings the station link up so the transfer server can run.
func (s *RadioService) JoinNetwork(ctx context.Context) error {
	var joinErr error
	if err := s.loop.Do(ctx, func(c *Coordinator) { joinErr = c.JoinStation() }); err != nil {
		return err
	}
	return joinErr
}

// LeaveNetwork drops the station link, stopping the transfer server first.
func (s *RadioService) LeaveNetwork(ctx context.Context) error {
	var leaveErr error
	if err := s.loop.Do(ctx, func(c *Coordinator) { leaveErr = c.LeaveStation() }); err != nil {
		return err
	}
	return leaveErr
}

// GetStatus returns the current snapshot with a fresh client count.
func (s *RadioService) GetStatus(ctx context.Context) (models.ServiceStatus, error) {
	var st models.ServiceStatus
	err := s.loop.Do(ctx, func(c *Coordinator) { st = c.Status() })
	return st, err
}

func (s *RadioService) IsAnyRunning(ctx context.Context) (bool, error) {
	var running bool
	err := s.loop.Do(ctx, func(c *Coordinator) { running = c.IsAnyRunning() })
	return running, err
}
