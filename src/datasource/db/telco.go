// Package db acquires the raw telco churn table. The database is only
// hit when no cached CSV exists; a successful query writes the cache
// so every later run is file-local.
package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/KwameTaylor/clustering-exercises/src/config"
	"github.com/KwameTaylor/clustering-exercises/src/datasource/file"
)

// telcoQuery joins customers with their plan-type lookup tables. The
// *_id columns stay in the result; the encoder re-bases them.
const telcoQuery = `
SELECT c.customer_id,
       c.gender,
       c.senior_citizen,
       c.partner,
       c.dependents,
       c.tenure,
       c.phone_service,
       c.online_security,
       c.online_backup,
       c.device_protection,
       c.tech_support,
       c.streaming_tv,
       c.streaming_movies,
       c.contract_type_id,
       c.internet_service_type_id,
       c.monthly_charges,
       c.total_charges,
       c.churn
FROM customers c
JOIN contract_types ct USING (contract_type_id)
JOIN internet_service_types ist USING (internet_service_type_id)
ORDER BY c.customer_id`

// TelcoSource acquires the raw churn table from the cache file or,
// failing that, the source database.
type TelcoSource struct {
	cfg *config.Config
	log *zap.Logger
}

func NewTelcoSource(cfg *config.Config, log *zap.Logger) (*TelcoSource, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &TelcoSource{cfg: cfg, log: log.Named("telco-source")}, nil
}

// Acquire returns the raw telco table, all columns as strings. Cache
// hit reads the CSV; cache miss queries the database and writes the
// CSV before returning.
func (s *TelcoSource) Acquire(ctx context.Context) (dataframe.DataFrame, error) {
	cache := s.cfg.TelcoCachePath()
	if _, err := os.Stat(cache); err == nil {
		s.log.Info("reading raw telco data from cache", zap.String("path", cache))
		return file.ReadCSV(cache)
	}

	if err := s.cfg.ValidateDatabase(); err != nil {
		return dataframe.DataFrame{}, err
	}

	df, err := s.query(ctx)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	if err := s.writeCache(df, cache); err != nil {
		// The acquired frame is still good; a failed cache write only
		// costs the next run a query.
		s.log.Warn("failed to write telco cache", zap.String("path", cache), zap.Error(err))
	}
	return df, nil
}

func (s *TelcoSource) query(ctx context.Context) (dataframe.DataFrame, error) {
	dbc := s.cfg.Database
	s.log.Info("connecting to churn database",
		zap.String("host", dbc.Host),
		zap.Int("port", dbc.Port),
		zap.String("database", dbc.Name),
		zap.String("user", dbc.User))

	conn, err := sqlx.ConnectContext(ctx, "postgres", dbc.DSN())
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("connect to churn database: %w", err)
	}
	defer conn.Close()

	queryCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	rows, err := conn.QueryxContext(queryCtx, telcoQuery)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("query telco data: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read result columns: %w", err)
	}

	records := [][]string{cols}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("scan telco row: %w", err)
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = toString(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("iterate telco rows: %w", err)
	}

	df := dataframe.LoadRecords(records,
		dataframe.DefaultType(series.String),
		dataframe.DetectTypes(false),
	)
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("load telco records: %w", err)
	}

	s.log.Info("acquired raw telco data from database", zap.Int("rows", df.Nrow()))
	return df, nil
}

func (s *TelcoSource) writeCache(df dataframe.DataFrame, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return df.WriteCSV(f, dataframe.WriteHeader(true))
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
