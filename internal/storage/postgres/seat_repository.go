package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seatwise/ticketer/internal/domain"
)

// SeatRepository is the seat inventory store. Claim, release and finalize
// must run inside an ambient transaction (WithTx) so the row locks they
// take are held until the surrounding order mutation commits.
type SeatRepository struct {
	pool *pgxpool.Pool
}

func NewSeatRepository(pool *pgxpool.Pool) *SeatRepository {
	return &SeatRepository{pool: pool}
}

func (r *SeatRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// ClaimSeats transitions every named seat FREE→HELD, all or nothing.
// Rows are locked in ascending id order so concurrent multi-seat claims
// cannot deadlock; the first missing, foreign or non-FREE seat aborts the
// claim with a SeatUnavailableError and the rollback leaves no seat held.
func (r *SeatRepository) ClaimSeats(ctx context.Context, eventID string, seatIDs []string) ([]domain.Seat, error) {
	const query = `
SELECT id, event_id, label, seat_row, col, price_cents, state
FROM seats
WHERE id = ANY($1::uuid[])
ORDER BY id
FOR UPDATE`

	rows, err := r.query(ctx, query, seatIDs)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("lock seats: %w", err)
	}
	locked := make(map[string]domain.Seat, len(seatIDs))
	seats := make([]domain.Seat, 0, len(seatIDs))
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.EventID, &s.Label, &s.Row, &s.Col, &s.PriceCents, &s.State); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		locked[s.ID] = s
		seats = append(seats, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("lock seats: %w", err)
	}

	for _, id := range seatIDs {
		seat, ok := locked[id]
		if !ok || seat.EventID != eventID || seat.State != domain.SeatFree {
			return nil, &domain.SeatUnavailableError{SeatID: id}
		}
	}

	const stmt = `UPDATE seats SET state = 'HELD' WHERE id = ANY($1::uuid[])`
	tag, err := r.exec(ctx, stmt, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("hold seats: %w", err)
	}
	if int(tag.RowsAffected()) != len(seatIDs) {
		return nil, domain.ErrSeatStateConflict
	}
	for i := range seats {
		seats[i].State = domain.SeatHeld
	}
	return seats, nil
}

// ReleaseSeats transitions HELD seats back to FREE. Already-FREE seats
// are left untouched, making release idempotent.
func (r *SeatRepository) ReleaseSeats(ctx context.Context, seatIDs []string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	const stmt = `UPDATE seats SET state = 'FREE' WHERE id = ANY($1::uuid[]) AND state = 'HELD'`
	if _, err := r.exec(ctx, stmt, seatIDs); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("release seats: %w", err)
	}
	return nil
}

// FinalizeSeats transitions HELD seats to RESERVED. Any seat not
// currently HELD fails the whole call with ErrSeatStateConflict.
func (r *SeatRepository) FinalizeSeats(ctx context.Context, seatIDs []string) error {
	const stmt = `UPDATE seats SET state = 'RESERVED' WHERE id = ANY($1::uuid[]) AND state = 'HELD'`
	tag, err := r.exec(ctx, stmt, seatIDs)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("finalize seats: %w", err)
	}
	if int(tag.RowsAffected()) != len(seatIDs) {
		return domain.ErrSeatStateConflict
	}
	return nil
}

// ListAvailable returns all FREE seats for an event ordered by row then
// column. Read-only, no locks.
func (r *SeatRepository) ListAvailable(ctx context.Context, eventID string) ([]domain.Seat, error) {
	const query = `
SELECT id, event_id, label, seat_row, col, price_cents, state
FROM seats
WHERE event_id = $1 AND state = 'FREE'
ORDER BY seat_row, col`

	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list available seats: %w", err)
	}
	defer rows.Close()

	var seats []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.EventID, &s.Label, &s.Row, &s.Col, &s.PriceCents, &s.State); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list available seats: %w", err)
	}
	return seats, nil
}

// CreateSeat inserts a new FREE seat. (event, label) uniqueness is
// enforced by the database.
func (r *SeatRepository) CreateSeat(ctx context.Context, seat domain.Seat) error {
	const stmt = `
INSERT INTO seats (id, event_id, label, seat_row, col, price_cents, state)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.exec(ctx, stmt,
		seat.ID, seat.EventID, seat.Label, seat.Row, seat.Col, seat.PriceCents, seat.State,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSeatLabelTaken
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create seat: %w", err)
	}
	return nil
}

func (r *SeatRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SeatRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
