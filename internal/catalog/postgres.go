package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/errors"
)

// PostgresSource reads one table per logical table, named prefix + lower-cased
// table name (catalog_jobs, catalog_majors, ...). Columns are read generically
// so the same header mapping applies as for the spreadsheet.
//
// Row order matters for ranking ties and first-match lookups, so rows are
// sorted by orderColumn. A table without it is read unordered and flagged.
type PostgresSource struct {
	db          *sql.DB
	prefix      string
	orderColumn string
}

func NewPostgresSource(db *sql.DB, prefix, orderColumn string) *PostgresSource {
	return &PostgresSource{db: db, prefix: prefix, orderColumn: orderColumn}
}

func (s *PostgresSource) Name() string { return config.SourcePostgres }

func (s *PostgresSource) Fetch(ctx context.Context) (map[string]*Table, error) {
	existing, err := s.existingTables(ctx)
	if err != nil {
		return nil, err
	}

	tables := make(map[string]*Table, len(Tables))
	for _, name := range Tables {
		relation := s.relation(name)
		ordered, ok := existing[relation]
		if !ok {
			continue
		}
		t, err := s.readTable(ctx, name, relation, ordered)
		if err != nil {
			return nil, err
		}
		tables[name] = t
	}
	return tables, nil
}

func (s *PostgresSource) relation(table string) string {
	return s.prefix + strings.ToLower(table)
}

// existingTables maps each catalog relation to whether it has the order column.
func (s *PostgresSource) existingTables(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.table_name,
		       EXISTS (SELECT 1 FROM information_schema.columns c
		               WHERE c.table_schema = t.table_schema
		                 AND c.table_name = t.table_name
		                 AND c.column_name = $2)
		FROM information_schema.tables t
		WHERE t.table_schema = current_schema() AND t.table_name LIKE $1`, s.prefix+"%", s.orderColumn)
	if err != nil {
		return nil, fmt.Errorf("list catalog tables: %w", err)
	}
	defer rows.Close()

	out := map[string]bool{}
	for rows.Next() {
		var name string
		var ordered bool
		if err := rows.Scan(&name, &ordered); err != nil {
			return nil, fmt.Errorf("list catalog tables: %w", err)
		}
		out[name] = ordered && s.orderColumn != ""
	}
	return out, rows.Err()
}

func (s *PostgresSource) readTable(ctx context.Context, name, relation string, ordered bool) (*Table, error) {
	query := "SELECT * FROM " + pq.QuoteIdentifier(relation)
	if ordered {
		query += " ORDER BY " + pq.QuoteIdentifier(s.orderColumn)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", relation, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", relation, err)
	}

	// The ordinal is not catalog data; keep it out of the header so a key
	// column substitution never lands on it.
	skip := -1
	t := &Table{Name: name}
	for i, c := range columns {
		if ordered && c == s.orderColumn {
			skip = i
			continue
		}
		t.Header = append(t.Header, c)
	}
	if !ordered {
		w := errors.NewSchemaMismatchError(name, s.orderColumn, "server order")
		t.Warnings = append(t.Warnings, Warning{Code: string(w.Code), Table: name, Message: w.Details})
	}

	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", relation, err)
		}

		rec := make([]string, 0, len(t.Header))
		for i, c := range cells {
			if i == skip {
				continue
			}
			rec = append(rec, c.String)
		}
		if !isBlank(rec) {
			t.Rows = append(t.Rows, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", relation, err)
	}
	return t, nil
}
