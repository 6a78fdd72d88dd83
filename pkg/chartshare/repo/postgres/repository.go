package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yumetaro/chart-share/pkg/chartshare"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements chartshare.Repository using PostgreSQL.
//
// Schema expectations: tables charts, users, file_resources, co_authors,
// chart_tags and likes under the chartshare schema. The charts table carries
// a nullable variant_id self reference with ON DELETE SET NULL, and the child
// tables reference charts(id) with ON DELETE CASCADE, which together uphold
// the delete semantics this core relies on.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) chartshare.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) chartshare.Repository {
	return &Repository{db: pool}
}

const chartColumns = `id, name, title, composer, artist, description, rating,
		genre, chart_type, author_id, author_name, visibility,
		published_at, scheduled_at, variant_id, created_at, updated_at`

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) scanChart(row pgx.Row) (*chartshare.Chart, error) {
	var chart chartshare.Chart
	err := row.Scan(
		&chart.ID, &chart.Name, &chart.Title, &chart.Composer, &chart.Artist,
		&chart.Description, &chart.Rating, &chart.Genre, &chart.ChartType,
		&chart.AuthorID, &chart.AuthorName, &chart.Visibility,
		&chart.PublishedAt, &chart.ScheduledAt, &chart.VariantID,
		&chart.CreatedAt, &chart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, chartshare.ErrChartNotFound
		}
		return nil, err
	}
	return &chart, nil
}

// Chart operations

func (r *Repository) CreateChart(ctx context.Context, chart *chartshare.Chart) error {
	query := `
		INSERT INTO chartshare.charts (
			id, name, title, composer, artist, description, rating,
			genre, chart_type, author_id, author_name, visibility,
			published_at, scheduled_at, variant_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.Exec(ctx, query,
		chart.ID, chart.Name, chart.Title, chart.Composer, chart.Artist,
		chart.Description, chart.Rating, chart.Genre, chart.ChartType,
		chart.AuthorID, chart.AuthorName, chart.Visibility,
		chart.PublishedAt, chart.ScheduledAt, chart.VariantID,
		chart.CreatedAt, chart.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create chart", err)
	}

	return nil
}

func (r *Repository) GetChart(ctx context.Context, id uuid.UUID) (*chartshare.Chart, error) {
	query := `SELECT ` + chartColumns + ` FROM chartshare.charts WHERE id = $1`
	return r.scanChart(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetChartByName(ctx context.Context, name string) (*chartshare.Chart, error) {
	query := `SELECT ` + chartColumns + ` FROM chartshare.charts WHERE name = $1`
	return r.scanChart(r.db.QueryRow(ctx, query, name))
}

func (r *Repository) UpdateChart(ctx context.Context, chart *chartshare.Chart) error {
	query := `
		UPDATE chartshare.charts SET
			name = $2, title = $3, composer = $4, artist = $5, description = $6,
			rating = $7, genre = $8, chart_type = $9, author_id = $10,
			author_name = $11, visibility = $12, published_at = $13,
			scheduled_at = $14, variant_id = $15, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		chart.ID, chart.Name, chart.Title, chart.Composer, chart.Artist,
		chart.Description, chart.Rating, chart.Genre, chart.ChartType,
		chart.AuthorID, chart.AuthorName, chart.Visibility,
		chart.PublishedAt, chart.ScheduledAt, chart.VariantID)
	if err != nil {
		return r.handlePostgresError("update chart", err)
	}
	if tag.RowsAffected() == 0 {
		return chartshare.ErrChartNotFound
	}
	return nil
}

// DeleteChart deletes a chart. Child rows (resources, co-authors, tags,
// likes) go with it via ON DELETE CASCADE; variants are kept and their
// variant_id nullified via ON DELETE SET NULL.
func (r *Repository) DeleteChart(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM chartshare.charts WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete chart", err)
	}
	if tag.RowsAffected() == 0 {
		return chartshare.ErrChartNotFound
	}
	return nil
}

func (r *Repository) ListVariants(ctx context.Context, chartID uuid.UUID) ([]*chartshare.Chart, error) {
	query := `SELECT ` + chartColumns + ` FROM chartshare.charts WHERE variant_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, chartID)
	if err != nil {
		return nil, r.handlePostgresError("list variants", err)
	}
	defer rows.Close()

	var variants []*chartshare.Chart
	for rows.Next() {
		chart, err := r.scanChart(rows)
		if err != nil {
			return nil, r.handlePostgresError("list variants", err)
		}
		variants = append(variants, chart)
	}
	return variants, rows.Err()
}

func (r *Repository) ListChartIDs(ctx context.Context, filter chartshare.ChartIDFilter) ([]uuid.UUID, error) {
	query, args := buildFilterQuery(`SELECT id FROM chartshare.charts`, filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list chart ids", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, r.handlePostgresError("list chart ids", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) CountCharts(ctx context.Context, filter chartshare.ChartIDFilter) (int64, error) {
	query, args := buildFilterQuery(`SELECT COUNT(*) FROM chartshare.charts`, filter)

	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, r.handlePostgresError("count charts", err)
	}
	return n, nil
}

func (r *Repository) CountAuthorPublicCharts(ctx context.Context, authorID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*) FROM chartshare.charts
		WHERE author_id = $1 AND visibility = $2 AND variant_id IS NULL`

	var n int64
	if err := r.db.QueryRow(ctx, query, authorID, chartshare.VisibilityPublic).Scan(&n); err != nil {
		return 0, r.handlePostgresError("count author public charts", err)
	}
	return n, nil
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *chartshare.User) error {
	query := `
		INSERT INTO chartshare.users (id, name, handle, created_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Handle, user.CreatedAt); err != nil {
		return r.handlePostgresError("create user", err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*chartshare.User, error) {
	query := `SELECT id, name, handle, created_at FROM chartshare.users WHERE id = $1`

	var user chartshare.User
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.Handle, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, chartshare.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user", err)
	}
	return &user, nil
}

// File resource operations

func (r *Repository) AddFileResource(ctx context.Context, resource *chartshare.FileResource) error {
	query := `
		INSERT INTO chartshare.file_resources (id, chart_id, kind, hash, url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		resource.ID, resource.ChartID, resource.Kind, resource.Hash,
		resource.URL, resource.CreatedAt, resource.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("add file resource", err)
	}
	return nil
}

func (r *Repository) ListFileResources(ctx context.Context, chartID uuid.UUID) ([]*chartshare.FileResource, error) {
	query := `
		SELECT id, chart_id, kind, hash, url, created_at, updated_at
		FROM chartshare.file_resources WHERE chart_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, chartID)
	if err != nil {
		return nil, r.handlePostgresError("list file resources", err)
	}
	defer rows.Close()

	var resources []*chartshare.FileResource
	for rows.Next() {
		var resource chartshare.FileResource
		err := rows.Scan(&resource.ID, &resource.ChartID, &resource.Kind,
			&resource.Hash, &resource.URL, &resource.CreatedAt, &resource.UpdatedAt)
		if err != nil {
			return nil, r.handlePostgresError("list file resources", err)
		}
		resources = append(resources, &resource)
	}
	return resources, rows.Err()
}

// Co-author operations

func (r *Repository) AddCoAuthor(ctx context.Context, chartID, userID uuid.UUID) error {
	query := `
		INSERT INTO chartshare.co_authors (chart_id, user_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`

	if _, err := r.db.Exec(ctx, query, chartID, userID); err != nil {
		return r.handlePostgresError("add co-author", err)
	}
	return nil
}

func (r *Repository) ListCoAuthors(ctx context.Context, chartID uuid.UUID) ([]*chartshare.User, error) {
	query := `
		SELECT u.id, u.name, u.handle, u.created_at
		FROM chartshare.co_authors ca
		JOIN chartshare.users u ON u.id = ca.user_id
		WHERE ca.chart_id = $1`

	rows, err := r.db.Query(ctx, query, chartID)
	if err != nil {
		return nil, r.handlePostgresError("list co-authors", err)
	}
	defer rows.Close()

	var users []*chartshare.User
	for rows.Next() {
		var user chartshare.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Handle, &user.CreatedAt); err != nil {
			return nil, r.handlePostgresError("list co-authors", err)
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// Tag operations

func (r *Repository) AddTag(ctx context.Context, chartID uuid.UUID, name string) error {
	query := `
		INSERT INTO chartshare.chart_tags (chart_id, name)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`

	if _, err := r.db.Exec(ctx, query, chartID, name); err != nil {
		return r.handlePostgresError("add tag", err)
	}
	return nil
}

func (r *Repository) ListTags(ctx context.Context, chartID uuid.UUID) ([]string, error) {
	query := `SELECT name FROM chartshare.chart_tags WHERE chart_id = $1 ORDER BY name`

	rows, err := r.db.Query(ctx, query, chartID)
	if err != nil {
		return nil, r.handlePostgresError("list tags", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, r.handlePostgresError("list tags", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// Like operations

func (r *Repository) AddLike(ctx context.Context, chartID, userID uuid.UUID) error {
	query := `
		INSERT INTO chartshare.likes (chart_id, user_id, created_at)
		VALUES ($1, $2, NOW()) ON CONFLICT DO NOTHING`

	if _, err := r.db.Exec(ctx, query, chartID, userID); err != nil {
		return r.handlePostgresError("add like", err)
	}
	return nil
}

func (r *Repository) RemoveLike(ctx context.Context, chartID, userID uuid.UUID) error {
	query := `DELETE FROM chartshare.likes WHERE chart_id = $1 AND user_id = $2`

	if _, err := r.db.Exec(ctx, query, chartID, userID); err != nil {
		return r.handlePostgresError("remove like", err)
	}
	return nil
}

func (r *Repository) CountLikes(ctx context.Context, chartID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM chartshare.likes WHERE chart_id = $1`

	var n int64
	if err := r.db.QueryRow(ctx, query, chartID).Scan(&n); err != nil {
		return 0, r.handlePostgresError("count likes", err)
	}
	return n, nil
}

func (r *Repository) HasLike(ctx context.Context, chartID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM chartshare.likes WHERE chart_id = $1 AND user_id = $2)`

	var liked bool
	if err := r.db.QueryRow(ctx, query, chartID, userID).Scan(&liked); err != nil {
		return false, r.handlePostgresError("has like", err)
	}
	return liked, nil
}

// buildFilterQuery appends WHERE clauses for a ChartIDFilter.
func buildFilterQuery(base string, filter chartshare.ChartIDFilter) (string, []interface{}) {
	query := base
	var args []interface{}
	var clauses []string

	if filter.Genre != nil {
		args = append(args, *filter.Genre)
		clauses = append(clauses, fmt.Sprintf("genre = $%d", len(args)))
	}
	if filter.Visibility != nil {
		args = append(args, *filter.Visibility)
		clauses = append(clauses, fmt.Sprintf("visibility = $%d", len(args)))
	}
	if filter.RootOnly {
		clauses = append(clauses, "variant_id IS NULL")
	}

	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	return query, args
}
