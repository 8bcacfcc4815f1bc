// Package cms manages marketing-site content pages. Only the publishing flow
// lives here; rendering is the site's problem.
package cms

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/shared"
)

var (
	// ErrSlugTaken indicates another page already uses the slug.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrBadSlug rejects slugs with characters that do not survive a URL.
	ErrBadSlug = errors.New("slug may contain lowercase letters, digits and hyphens only")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Page is a content page for the marketing site.
type Page struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageRequest is the create/update payload.
type PageRequest struct {
	Slug      string `json:"slug" validate:"required,max=200"`
	Title     string `json:"title" validate:"required,max=200"`
	Body      string `json:"body" validate:"required"`
	Published bool   `json:"published"`
}

// Repository provides PostgreSQL backed persistence for pages.
type Repository interface {
	List(ctx context.Context, tenantID int64) ([]Page, error)
	Get(ctx context.Context, tenantID, id int64) (Page, error)
	GetPublishedBySlug(ctx context.Context, tenantID int64, slug string) (Page, error)
	Create(ctx context.Context, p Page) (int64, error)
	Update(ctx context.Context, p Page) error
	SetPublished(ctx context.Context, tenantID, id int64, published bool) error
	Delete(ctx context.Context, tenantID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const pageColumns = `id, tenant_id, slug, title, body, published, created_at, updated_at`

func scanPage(row pgx.Row) (Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.TenantID, &p.Slug, &p.Title, &p.Body, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Page{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) List(ctx context.Context, tenantID int64) ([]Page, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+pageColumns+` FROM pages WHERE tenant_id = $1 ORDER BY slug`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (Page, error) {
	return scanPage(r.pool.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *repository) GetPublishedBySlug(ctx context.Context, tenantID int64, slug string) (Page, error) {
	return scanPage(r.pool.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE tenant_id = $1 AND slug = $2 AND published`, tenantID, slug))
}

func (r *repository) Create(ctx context.Context, p Page) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO pages (tenant_id, slug, title, body, published, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id`,
		p.TenantID, p.Slug, p.Title, p.Body, p.Published).Scan(&id)
	return id, mapSlugConflict(err)
}

func (r *repository) Update(ctx context.Context, p Page) error {
	tag, err := r.pool.Exec(ctx, `UPDATE pages SET slug = $1, title = $2, body = $3, published = $4, updated_at = NOW()
WHERE tenant_id = $5 AND id = $6`, p.Slug, p.Title, p.Body, p.Published, p.TenantID, p.ID)
	if err != nil {
		return mapSlugConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SetPublished(ctx context.Context, tenantID, id int64, published bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE pages SET published = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`,
		published, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pages WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func mapSlugConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrSlugTaken
	}
	return err
}

// ValidSlug reports whether the slug is URL-safe.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}
