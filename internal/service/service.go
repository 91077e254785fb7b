package service

import (
	"context"

	"cardputer_radio/internal/models"
	"cardputer_radio/internal/repository"
)

// Authorization manages operators and their bearer tokens.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (models.Actor, error)
}

// Radio exposes the mode start/stop operations.
type Radio interface {
	StartFakeAP(ctx context.Context, ssid string) error
	StopFakeAP(ctx context.Context) error
	StartPortal(ctx context.Context, ssid string) error
	StopPortal(ctx context.Context) error
	StartTransfer(ctx context.Context) error
	StopTransfer(ctx context.Context) error
	StopAll(ctx context.Context) error
	JoinNetwork(ctx context.Context) error
	LeaveNetwork(ctx context.Context) error
}

// Monitoring exposes the read-only status snapshot.
type Monitoring interface {
	GetStatus(ctx context.Context) (models.ServiceStatus, error)
	IsAnyRunning(ctx context.Context) (bool, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.RadioEvent, error)
}

// FileStats exposes transfer server counters. Safe to call off the loop.
type FileStats interface {
	Stats() models.TransferStats
}

// Service aggregates all sub-services consumed by the HTTP layer.
type Service struct {
	Radio
	Monitoring
	EventLog
	Authorization
	FileStats
}

// NewService wires the repository layer and the main loop into concrete services.
func NewService(repos *repository.Repository, loop *Loop, files FileStats, auth AuthConfig) *Service {
	radio := NewRadioService(loop)
	return &Service{
		Radio:         radio,
		Monitoring:    radio,
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Operators, auth),
		FileStats:     files,
	}
}
