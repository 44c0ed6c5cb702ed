package seed

import (
	"context"
	"database/sql"
	"fmt"

	"api-testgen/internal/config"
)

// Sampler pulls a handful of rows per table from a live database and
// offers the observed column values as payload seeds. The SQL drivers are
// registered by the importing binary.
type Sampler struct {
	cfg config.DBConfig
	db  *sql.DB
}

// NewSampler opens the configured database.
func NewSampler(cfg config.DBConfig) (*Sampler, error) {
	driver, dsn, err := dsnFor(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Type, err)
	}
	return &Sampler{cfg: cfg, db: db}, nil
}

// Close releases the connection pool.
func (s *Sampler) Close() error {
	return s.db.Close()
}

// Populate samples every base table and merges the first observed non-nil
// value per column into the source. Errors on individual tables are
// skipped; sampling is never load-bearing.
func (s *Sampler) Populate(ctx context.Context, src *Source) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	tables, err := s.listTables(ctx)
	if err != nil {
		return err
	}
	for _, table := range tables {
		values, err := s.sampleTable(ctx, table)
		if err != nil {
			continue
		}
		src.Merge(values)
	}
	return nil
}

func (s *Sampler) listTables(ctx context.Context) ([]string, error) {
	var query string
	switch s.cfg.Type {
	case "postgres":
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_type = 'BASE TABLE' ORDER BY table_name`
	case "mysql":
		query = "SHOW TABLES"
	case "sqlserver":
		query = `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
	default:
		return nil, fmt.Errorf("unsupported seed db type %q", s.cfg.Type)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (s *Sampler) sampleTable(ctx context.Context, table string) (map[string]interface{}, error) {
	var query string
	switch s.cfg.Type {
	case "sqlserver":
		query = fmt.Sprintf("SELECT TOP %d * FROM %s", s.cfg.SampleSize, table)
	default:
		query = fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, s.cfg.SampleSize)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	observed := make(map[string]interface{}, len(columns))
	scan := make([]interface{}, len(columns))
	for i := range scan {
		scan[i] = new(interface{})
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}
		for i, col := range columns {
			if _, have := observed[col]; have {
				continue
			}
			value := *(scan[i].(*interface{}))
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			if value != nil {
				observed[col] = value
			}
		}
	}
	return observed, rows.Err()
}

func dsnFor(cfg config.DBConfig) (driver, dsn string, err error) {
	switch cfg.Type {
	case "postgres":
		return "postgres", fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database), nil
	case "mysql":
		return "mysql", fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database), nil
	case "sqlserver":
		return "sqlserver", fmt.Sprintf("server=%s;port=%d;database=%s;user id=%s;password=%s",
			cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password), nil
	default:
		return "", "", fmt.Errorf("unsupported seed db type %q", cfg.Type)
	}
}
