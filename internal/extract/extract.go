/*
Copyright © 2020 A. Jensen <jensen.aaro@gmail.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package extract

import (
	"context"
	"fmt"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"time"

	"github.com/ajjensen13/candler/internal/model"
	"github.com/ajjensen13/candler/internal/partition"
	"github.com/ajjensen13/candler/internal/query"
)

// MainTable lists the securities known to the warehouse.
const MainTable = "Main"

// Querier is the database collaborator reads run against. *pgxpool.Pool,
// *pgx.Conn, and pgx.Tx all satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// ConnectionError reports a failed round trip to the database collaborator.
// It is returned as-is: the query path never retries.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database query failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Candles executes a composed candle statement and returns the raw rows
// for decoding.
func Candles(ctx context.Context, q Querier, qry *query.Query) (pgx.Rows, error) {
	rows, err := q.Query(ctx, qry.SQL, qry.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", &ConnectionError{Err: err})
	}
	return rows, nil
}

// Tables lists the table names in the warehouse schema.
func Tables(ctx context.Context, q Querier, schema string) ([]string, error) {
	rows, err := q.Query(ctx, `SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = $1 ORDER BY tablename`, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", &ConnectionError{Err: err})
	}
	defer rows.Close()

	var ret []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		ret = append(ret, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", &ConnectionError{Err: err})
	}

	return ret, nil
}

// Securities lists the Main table.
func Securities(ctx context.Context, q Querier, schema string) ([]model.Security, error) {
	sql := fmt.Sprintf(`SELECT "TickerSymbol", "SecurityType", "Sector" FROM %s ORDER BY "TickerSymbol"`, pgx.Identifier{schema, MainTable}.Sanitize())
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query securities: %w", &ConnectionError{Err: err})
	}
	defer rows.Close()

	var ret []model.Security
	for rows.Next() {
		var symbol, securityType, sector pgtype.Text
		if err := rows.Scan(&symbol, &securityType, &sector); err != nil {
			return nil, fmt.Errorf("failed to scan security: %w", err)
		}
		ret = append(ret, model.Security{
			Symbol:       symbol.String,
			SecurityType: securityType.String,
			Sector:       sector.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read securities: %w", &ConnectionError{Err: err})
	}

	return ret, nil
}

// LatestTimestamps returns the newest bar per symbol. Only each symbol's
// latest partition table is read.
func LatestTimestamps(ctx context.Context, q Querier, schema string, cat partition.Catalog) (map[string]time.Time, error) {
	ret := make(map[string]time.Time)
	for _, symbol := range cat.Symbols() {
		years := cat.Years(symbol)
		if len(years) == 0 {
			continue
		}

		table := partition.Partition{Symbol: symbol, Year: years[len(years)-1]}.TableName()
		sql := fmt.Sprintf(`SELECT MAX("Timestamp") FROM %s`, pgx.Identifier{schema, table}.Sanitize())

		latest, err := scanLatest(ctx, q, sql)
		if err != nil {
			return nil, fmt.Errorf("failed to query latest timestamp for %q: %w", symbol, err)
		}
		if !latest.IsZero() {
			ret[symbol] = latest
		}
	}

	return ret, nil
}

func scanLatest(ctx context.Context, q Querier, sql string) (time.Time, error) {
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return time.Time{}, &ConnectionError{Err: err}
	}
	defer rows.Close()

	var latest pgtype.Timestamptz
	for rows.Next() {
		if err := rows.Scan(&latest); err != nil {
			return time.Time{}, fmt.Errorf("failed to scan latest timestamp: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return time.Time{}, &ConnectionError{Err: err}
	}

	if latest.Status != pgtype.Present {
		return time.Time{}, nil
	}
	return latest.Time, nil
}
