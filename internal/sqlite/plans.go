package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fightcamp/internal/errors"
)

var ErrPlanNotFound = errors.NewSentinel("plan not found")

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Plan is an archived plan document.
type Plan struct {
	ID      string
	Athlete string
	Title   string
	Seed    uint64
	// Markdown is the plan text and HTML its rendered page.
	Markdown string
	HTML     []byte
	// Output is the JSON encoded generator output.
	Output    []byte
	CreatedAt time.Time
}

// PlanRepository stores and retrieves archived plans.
type PlanRepository struct {
	db  *Database
	now func() time.Time
}

func NewPlanRepository(db *Database) *PlanRepository {
	return &PlanRepository{db: db, now: time.Now}
}

// Create archives p under a fresh random ID and returns the ID. p.ID and p.CreatedAt are ignored.
func (r *PlanRepository) Create(ctx context.Context, p Plan) (string, error) {
	id := uuid.NewString()
	created := r.now().UTC().Format(timestampLayout)
	if p.HTML == nil {
		p.HTML = []byte{}
	}
	// The seed column is a signed 64-bit integer; the bits are stored as-is.
	_, err := r.db.ReadWrite.ExecContext(ctx, `INSERT INTO plans (id, athlete, title, seed, markdown, html, output, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Athlete, p.Title, int64(p.Seed), p.Markdown, p.HTML, string(p.Output), created) //nolint:gosec // bit cast.
	if err != nil {
		return "", errors.Wrap(err, "insert plan", slog.String("athlete", p.Athlete))
	}
	return id, nil
}

// Get returns the plan with the given ID or ErrPlanNotFound.
func (r *PlanRepository) Get(ctx context.Context, id string) (Plan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Plan{}, errors.Wrap(ErrPlanNotFound, "malformed id", slog.String("id", id))
	}
	var (
		p       Plan
		seed    int64
		output  string
		created string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `SELECT id, athlete, title, seed, markdown, html, output, created_at
FROM plans WHERE id = ?`, id).Scan(&p.ID, &p.Athlete, &p.Title, &seed, &p.Markdown, &p.HTML, &output, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Plan{}, errors.Wrap(ErrPlanNotFound, "select plan", slog.String("id", id))
	}
	if err != nil {
		return Plan{}, errors.Wrap(err, "select plan", slog.String("id", id))
	}
	p.Seed = uint64(seed) //nolint:gosec // bit cast.
	p.Output = []byte(output)
	if p.CreatedAt, err = time.Parse(timestampLayout, created); err != nil {
		return Plan{}, errors.Wrap(err, "parse created_at", slog.String("id", id))
	}
	return p, nil
}

// List returns summaries of the most recently archived plans, newest first. Markdown, HTML and Output are
// left empty.
func (r *PlanRepository) List(ctx context.Context, limit int) ([]Plan, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `SELECT id, athlete, title, seed, created_at
FROM plans ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query plans")
	}
	defer rows.Close()
	var plans []Plan
	for rows.Next() {
		var (
			p       Plan
			seed    int64
			created string
		)
		if err = rows.Scan(&p.ID, &p.Athlete, &p.Title, &seed, &created); err != nil {
			return nil, errors.Wrap(err, "scan plan")
		}
		p.Seed = uint64(seed) //nolint:gosec // bit cast.
		if p.CreatedAt, err = time.Parse(timestampLayout, created); err != nil {
			return nil, errors.Wrap(err, "parse created_at", slog.String("id", p.ID))
		}
		plans = append(plans, p)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate plans")
	}
	return plans, nil
}

// Ping checks that the archive is reachable.
func (r *PlanRepository) Ping(ctx context.Context) error {
	return errors.Wrap(r.db.ReadOnly.PingContext(ctx), "ping archive")
}
