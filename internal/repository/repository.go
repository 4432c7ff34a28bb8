// Package repository implements all database queries for the gig scheduler.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bandpraxis/gig-scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

const gigColumns = `id, name, date, dates, is_whole_day, is_multi_day,
	start_time, end_time, status, location, distance, pay, description,
	member_availability, created_by, created_at, updated_at`

// GigRepository handles persistence for gigs. The availability document is
// stored as one JSONB column so the nested member/date structure round-trips
// without a relational mapping.
type GigRepository struct {
	db *pgxpool.Pool
}

// NewGigRepository constructs a GigRepository.
func NewGigRepository(db *pgxpool.Pool) *GigRepository {
	return &GigRepository{db: db}
}

// Create inserts a new gig and returns it with a generated UUID.
func (r *GigRepository) Create(ctx context.Context, gig *model.Gig) (*model.Gig, error) {
	gig.ID = uuid.New().String()
	gig.CreatedAt = time.Now().UTC()
	gig.UpdatedAt = gig.CreatedAt
	if gig.MemberAvailability == nil {
		gig.MemberAvailability = map[string]model.MemberAvailability{}
	}
	if gig.Dates == nil {
		gig.Dates = []string{} // a nil slice would write SQL NULL into a NOT NULL column
	}

	avail, err := json.Marshal(gig.MemberAvailability)
	if err != nil {
		return nil, fmt.Errorf("encode availability: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO gigs (id, name, date, dates, is_whole_day, is_multi_day,
			start_time, end_time, status, location, distance, pay, description,
			member_availability, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		gig.ID, gig.Name, gig.Date, gig.Dates, gig.IsWholeDay, gig.IsMultiDay,
		gig.StartTime, gig.EndTime, gig.Status, gig.Location, gig.Distance,
		gig.Pay, gig.Description, avail, gig.CreatedBy, gig.CreatedAt, gig.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert gig: %w", err)
	}
	return gig, nil
}

// List returns all gigs ordered by date ascending, then creation time.
func (r *GigRepository) List(ctx context.Context) ([]model.Gig, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+gigColumns+` FROM gigs ORDER BY date ASC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list gigs: %w", err)
	}
	defer rows.Close()

	var gigs []model.Gig
	for rows.Next() {
		g, err := scanGig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gig: %w", err)
		}
		gigs = append(gigs, *g)
	}
	return gigs, rows.Err()
}

// GetByID returns a single gig or ErrNotFound.
func (r *GigRepository) GetByID(ctx context.Context, id string) (*model.Gig, error) {
	row := r.db.QueryRow(ctx, `SELECT `+gigColumns+` FROM gigs WHERE id = $1`, id)
	g, err := scanGig(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get gig: %w", err)
	}
	return g, nil
}

// Update writes every mutable field of an existing gig.
func (r *GigRepository) Update(ctx context.Context, gig *model.Gig) (*model.Gig, error) {
	gig.UpdatedAt = time.Now().UTC()
	if gig.Dates == nil {
		gig.Dates = []string{}
	}

	avail, err := json.Marshal(gig.MemberAvailability)
	if err != nil {
		return nil, fmt.Errorf("encode availability: %w", err)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE gigs SET name = $2, date = $3, dates = $4, is_whole_day = $5,
			is_multi_day = $6, start_time = $7, end_time = $8, status = $9,
			location = $10, distance = $11, pay = $12, description = $13,
			member_availability = $14, updated_at = $15
		 WHERE id = $1`,
		gig.ID, gig.Name, gig.Date, gig.Dates, gig.IsWholeDay, gig.IsMultiDay,
		gig.StartTime, gig.EndTime, gig.Status, gig.Location, gig.Distance,
		gig.Pay, gig.Description, avail, gig.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update gig: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return gig, nil
}

// UpdateStatus sets only the lifecycle status.
func (r *GigRepository) UpdateStatus(ctx context.Context, id string, status model.GigStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE gigs SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update gig status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a gig.
func (r *GigRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM gigs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gig: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAvailability applies a pure transform to a gig under a row-level
// lock and persists the result.
//
// Two members answering the same gig concurrently is the normal case here.
// A naive read-then-write loses one of the answers: both requests load the
// same availability document, each merges its own member in memory, and the
// second UPDATE overwrites the first. SELECT ... FOR UPDATE serialises the
// read-modify-write, so every answer lands. The transform runs inside the
// transaction but stays pure; all I/O is in this method.
//
// A transform may return nil to signal the change is not applicable (for
// example, driving answered before availability); the transaction is then
// rolled back unchanged and nil is returned to the caller.
func (r *GigRepository) UpdateAvailability(ctx context.Context, id string, transform func(*model.Gig) *model.Gig) (*model.Gig, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `SELECT `+gigColumns+` FROM gigs WHERE id = $1 FOR UPDATE`, id)
	gig, err := scanGig(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrNotFound
			return nil, err
		}
		return nil, fmt.Errorf("lock gig row: %w", err)
	}

	updated := transform(gig)
	if updated == nil {
		_ = tx.Rollback(ctx)
		return nil, nil
	}
	updated.UpdatedAt = time.Now().UTC()
	if updated.Dates == nil {
		updated.Dates = []string{}
	}

	avail, err := json.Marshal(updated.MemberAvailability)
	if err != nil {
		return nil, fmt.Errorf("encode availability: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE gigs SET date = $2, dates = $3, is_whole_day = $4, is_multi_day = $5,
			start_time = $6, end_time = $7, member_availability = $8, updated_at = $9
		 WHERE id = $1`,
		updated.ID, updated.Date, updated.Dates, updated.IsWholeDay, updated.IsMultiDay,
		updated.StartTime, updated.EndTime, avail, updated.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("write availability: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return updated, nil
}

// scanGig reads one gig row, decoding the JSONB availability document.
func scanGig(row pgx.Row) (*model.Gig, error) {
	var (
		g     model.Gig
		avail []byte
	)
	err := row.Scan(
		&g.ID, &g.Name, &g.Date, &g.Dates, &g.IsWholeDay, &g.IsMultiDay,
		&g.StartTime, &g.EndTime, &g.Status, &g.Location, &g.Distance,
		&g.Pay, &g.Description, &avail, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(avail, &g.MemberAvailability); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	if g.MemberAvailability == nil {
		g.MemberAvailability = map[string]model.MemberAvailability{}
	}
	return &g, nil
}

// MemberRepository handles persistence for the band roster.
type MemberRepository struct {
	db *pgxpool.Pool
}

// NewMemberRepository constructs a MemberRepository.
func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create inserts a new roster member with a generated UUID.
func (r *MemberRepository) Create(ctx context.Context, req model.CreateMemberRequest) (*model.BandMember, error) {
	member := &model.BandMember{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Instrument: req.Instrument,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO band_members (id, name, instrument, created_at)
		 VALUES ($1, $2, $3, $4)`,
		member.ID, member.Name, member.Instrument, member.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return member, nil
}

// List returns the roster ordered by name.
func (r *MemberRepository) List(ctx context.Context) ([]model.BandMember, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, instrument, created_at FROM band_members ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.BandMember
	for rows.Next() {
		var m model.BandMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Instrument, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Delete removes a roster member. Availability already recorded on gigs
// keeps the member's id; historical answers are never rewritten.
func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM band_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
