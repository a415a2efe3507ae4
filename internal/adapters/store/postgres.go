package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/database"
	"github.com/smartnote/core/internal/ports"
)

// PostgresStore keeps every collection in one JSONB table (see the
// database migrations). Merge uses the jsonb concatenation operator so
// absent fields are left untouched.
type PostgresStore struct {
	db   *sqlx.DB
	conn *database.DB
}

type documentRow struct {
	ID   string         `db:"id"`
	Data types.JSONText `db:"data"`
}

// NewPostgresStore creates a document store on an open connection pool.
// The store owns conn and closes it on Close.
func NewPostgresStore(conn *database.DB) *PostgresStore {
	return &PostgresStore{db: conn.DB, conn: conn}
}

func (s *PostgresStore) Create(ctx context.Context, collection string, doc entities.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: encode document: %v", entities.ErrStorage, err)
	}

	id := uuid.NewString()
	query := `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, collection, id, types.JSONText(data)); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", entities.ErrStorage, collection, err)
	}
	return id, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*ports.Record, error) {
	query := `SELECT id, data FROM documents WHERE collection = $1 AND id = $2`

	var row documentRow
	err := s.db.GetContext(ctx, &row, query, collection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get %s: %v", entities.ErrStorage, collection, err)
	}
	return row.record()
}

func (s *PostgresStore) Find(ctx context.Context, collection string, filters ...ports.Filter) ([]*ports.Record, error) {
	query, args, err := buildFindQuery(collection, filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStorage, err)
	}

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: find %s: %v", entities.ErrStorage, collection, err)
	}

	records := make([]*ports.Record, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *PostgresStore) Merge(ctx context.Context, collection, id string, patch entities.Document) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("%w: encode patch: %v", entities.ErrStorage, err)
	}

	query := `
		UPDATE documents
		SET data = data || $3::jsonb, written_at = CURRENT_TIMESTAMP
		WHERE collection = $1 AND id = $2`

	result, err := s.db.ExecContext(ctx, query, collection, id, types.JSONText(data))
	if err != nil {
		return fmt.Errorf("%w: merge %s: %v", entities.ErrStorage, collection, err)
	}
	return requireAffected(result)
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`

	result, err := s.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", entities.ErrStorage, collection, err)
	}
	return requireAffected(result)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.conn.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStorage, err)
	}
	return nil
}

// ConnectionInfo reports the pool statistics shown on /ready
func (s *PostgresStore) ConnectionInfo() map[string]interface{} {
	return s.conn.GetConnectionInfo()
}

func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

func (r *documentRow) record() (*ports.Record, error) {
	doc := entities.Document{}
	if err := r.Data.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode document %s: %v", entities.ErrStorage, r.ID, err)
	}
	return &ports.Record{ID: r.ID, Data: doc}, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStorage, err)
	}
	if n == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// buildFindQuery turns equality filters into a containment match. Nil values
// become "field absent or null" clauses since @> cannot express absence.
func buildFindQuery(collection string, filters []ports.Filter) (string, []any, error) {
	var (
		clauses  = []string{"collection = $1"}
		args     = []any{collection}
		contains = entities.Document{}
	)

	for _, f := range filters {
		if f.Value == nil {
			args = append(args, f.Field)
			n := len(args)
			clauses = append(clauses, fmt.Sprintf("(data->$%d IS NULL OR data->$%d = 'null'::jsonb)", n, n))
			continue
		}
		contains[f.Field] = f.Value
	}

	if len(contains) > 0 {
		data, err := json.Marshal(contains)
		if err != nil {
			return "", nil, fmt.Errorf("encode filter: %w", err)
		}
		args = append(args, types.JSONText(data))
		clauses = append(clauses, fmt.Sprintf("data @> $%d::jsonb", len(args)))
	}

	query := "SELECT id, data FROM documents WHERE " + strings.Join(clauses, " AND ") + " ORDER BY seq"
	return query, args, nil
}
