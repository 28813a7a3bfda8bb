package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"docsearch/internal/domain"
	"docsearch/internal/domain/models"
	"docsearch/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// docColumns is the canonical column list; every read path scans the same
// shape through scanDocument so record reconstruction lives in one place.
const docColumns = "id, name, path, relative_path, file_type, size, content, preview, created_at, updated_at, indexed_at"

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// EnsureSchema creates the documents table if it does not exist.
func (r *PostgresDocumentRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			path          TEXT NOT NULL UNIQUE,
			relative_path TEXT NOT NULL,
			file_type     TEXT NOT NULL,
			size          BIGINT NOT NULL,
			content       TEXT NOT NULL,
			preview       TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL,
			indexed_at    TIMESTAMPTZ NOT NULL
		)
	`, r.tables.Documents)

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}

	return nil
}

// EnsureSearchIndex creates the GIN expression indexes backing full-text
// search. CREATE INDEX IF NOT EXISTS makes repeated calls a no-op.
func (r *PostgresDocumentRepository) EnsureSearchIndex(ctx context.Context) error {
	indexes := []string{
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_content_fts ON %s USING gin (to_tsvector('english', content))`,
			r.tables.Documents, r.tables.Documents),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_name_fts ON %s USING gin (to_tsvector('english', name))`,
			r.tables.Documents, r.tables.Documents),
	}

	for _, query := range indexes {
		if _, err := r.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("create search index: %w", err)
		}
	}

	return nil
}

// Upsert inserts or replaces the record keyed by absolute path. On conflict
// the stored id and created_at survive; the caller's doc is refreshed with
// the persisted values.
func (r *PostgresDocumentRepository) Upsert(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, path, relative_path, file_type, size, content, preview, created_at, updated_at, indexed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (path) DO UPDATE SET
			name          = EXCLUDED.name,
			relative_path = EXCLUDED.relative_path,
			file_type     = EXCLUDED.file_type,
			size          = EXCLUDED.size,
			content       = EXCLUDED.content,
			preview       = EXCLUDED.preview,
			updated_at    = EXCLUDED.updated_at,
			indexed_at    = EXCLUDED.indexed_at
		RETURNING id, created_at
	`, r.tables.Documents)

	err := r.pool.QueryRow(ctx, query,
		doc.ID,
		doc.Name,
		doc.Path,
		doc.RelativePath,
		doc.FileType,
		doc.Size,
		doc.Content,
		doc.Preview,
		doc.CreatedAt,
		doc.UpdatedAt,
		doc.IndexedAt,
	).Scan(&doc.ID, &doc.CreatedAt)

	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, docColumns, r.tables.Documents)

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// GetByRelativePath retrieves a document by its path relative to the
// document root.
func (r *PostgresDocumentRepository) GetByRelativePath(ctx context.Context, relativePath string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE relative_path = $1`, docColumns, r.tables.Documents)

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, relativePath))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document at path '%s': %w", relativePath, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document by path: %w", err)
	}

	return doc, nil
}

// ListPaths returns the absolute paths of all stored records.
func (r *PostgresDocumentRepository) ListPaths(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT path FROM %s`, r.tables.Documents)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list document paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan document path: %w", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document paths: %w", err)
	}

	return paths, nil
}

// DeleteByPaths removes the records for the given absolute paths.
func (r *PostgresDocumentRepository) DeleteByPaths(ctx context.Context, paths []string) (int64, error) {
	if len(paths) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE path = ANY($1)`, r.tables.Documents)

	result, err := r.pool.Exec(ctx, query, paths)
	if err != nil {
		return 0, fmt.Errorf("delete documents: %w", err)
	}

	return result.RowsAffected(), nil
}

// Count returns the total number of stored records.
func (r *PostgresDocumentRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.tables.Documents)

	var total int
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}

	return total, nil
}

// Search runs a ranked full-text query over content and name.
//
// PostgreSQL full-text search components:
//   - to_tsvector(language, field): converts a field to searchable tokens
//   - websearch_to_tsquery(language, query): parses web-style query syntax
//   - @@: full-text match operator
//   - ts_rank(): relevance score, higher = better match
//
// Name matches are weighted 2x over content matches; the combined score is
// returned to callers unmodified.
func (r *PostgresDocumentRepository) Search(ctx context.Context, query string, limit int) ([]models.RankedDocument, error) {
	sql := fmt.Sprintf(`
		SELECT %s,
		       (ts_rank(to_tsvector('english', name), websearch_to_tsquery('english', $1)) * 2.0 +
		        ts_rank(to_tsvector('english', content), websearch_to_tsquery('english', $1))) AS rank_score
		FROM %s
		WHERE to_tsvector('english', content) @@ websearch_to_tsquery('english', $1)
		   OR to_tsvector('english', name) @@ websearch_to_tsquery('english', $1)
		ORDER BY rank_score DESC
		LIMIT $2
	`, docColumns, r.tables.Documents)

	rows, err := r.pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("full-text search query failed: %w", err)
	}
	defer rows.Close()

	var ranked []models.RankedDocument
	for rows.Next() {
		var doc models.Document
		var score float64

		err := rows.Scan(
			&doc.ID,
			&doc.Name,
			&doc.Path,
			&doc.RelativePath,
			&doc.FileType,
			&doc.Size,
			&doc.Content,
			&doc.Preview,
			&doc.CreatedAt,
			&doc.UpdatedAt,
			&doc.IndexedAt,
			&score,
		)
		if err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}

		ranked = append(ranked, models.RankedDocument{Document: doc, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search results: %w", err)
	}

	return ranked, nil
}

// scanDocument is the single point where a stored row becomes a Document;
// timestamptz columns come back as time.Time here and nowhere else.
func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.Name,
		&doc.Path,
		&doc.RelativePath,
		&doc.FileType,
		&doc.Size,
		&doc.Content,
		&doc.Preview,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&doc.IndexedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
