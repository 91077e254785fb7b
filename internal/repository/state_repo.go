package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cardputer_radio/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	radioStatusRowID = 1

	upsertStatusSQL = `
		INSERT INTO radio_status (id, fake_ap_running, fake_ap_name, portal_running, portal_name,
			portal_visitors, transfer_running, connected_clients, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fake_ap_running=excluded.fake_ap_running,
			fake_ap_name=excluded.fake_ap_name,
			portal_running=excluded.portal_running,
			portal_name=excluded.portal_name,
			portal_visitors=excluded.portal_visitors,
			transfer_running=excluded.transfer_running,
			connected_clients=excluded.connected_clients,
			updated_at=excluded.updated_at
	`

	selectStatusSQL = `
		SELECT fake_ap_running, fake_ap_name, portal_running, portal_name,
			portal_visitors, transfer_running, connected_clients, updated_at
		FROM radio_status WHERE id=?
	`
)

// Save upserts the radio_status row. A zero UpdatedAt is stamped with now.
func (r *StateSQLite) Save(ctx context.Context, snap models.StatusSnapshot) error {
	ts := snap.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	st := snap.ServiceStatus
	_, err := r.db.ExecContext(ctx, upsertStatusSQL,
		radioStatusRowID,
		st.FakeAPRunning,
		st.FakeAPName,
		st.PortalRunning,
		st.PortalName,
		st.PortalVisitors,
		st.TransferRunning,
		st.ConnectedClients,
		ts,
	)
	if err != nil {
		return fmt.Errorf("save radio status: %w", err)
	}
	return nil
}

// Load returns the persisted snapshot, or a zero snapshot if none exists yet.
func (r *StateSQLite) Load(ctx context.Context) (models.StatusSnapshot, error) {
	row := r.db.QueryRowContext(ctx, selectStatusSQL, radioStatusRowID)

	var s models.StatusSnapshot
	if err := row.Scan(
		&s.FakeAPRunning,
		&s.FakeAPName,
		&s.PortalRunning,
		&s.PortalName,
		&s.PortalVisitors,
		&s.TransferRunning,
		&s.ConnectedClients,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StatusSnapshot{}, nil
		}
		return models.StatusSnapshot{}, fmt.Errorf("load radio status: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
