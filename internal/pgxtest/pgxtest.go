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

// Package pgxtest provides in-memory fakes of the pgx interfaces used by
// tests throughout the module.
package pgxtest

import (
	"context"
	"fmt"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"time"
)

// Call records one Query invocation.
type Call struct {
	SQL  string
	Args []interface{}
}

// Querier is a fake database collaborator. When Handler is set it decides
// each call's result; otherwise Rows and Err are returned as-is. Every
// invocation is recorded in Calls.
type Querier struct {
	Rows    pgx.Rows
	Err     error
	Handler func(sql string, args ...interface{}) (pgx.Rows, error)
	Calls   []Call
}

func (q *Querier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	q.Calls = append(q.Calls, Call{SQL: sql, Args: args})
	if q.Handler != nil {
		return q.Handler(sql, args...)
	}
	return q.Rows, q.Err
}

// Rows is a fake pgx.Rows over literal row values. A nil cell scans as a
// SQL null. When FailErr is set, iteration stops before the zero-based row
// FailAt and Err reports FailErr, imitating a connection lost mid-stream.
type Rows struct {
	Data    [][]interface{}
	FailAt  int
	FailErr error
	ScanErr error

	pos    int
	failed bool
	closed bool
}

var _ pgx.Rows = (*Rows)(nil)

// NewRows returns rows that yield each entry of data in order.
func NewRows(data [][]interface{}) *Rows {
	return &Rows{Data: data, FailAt: -1}
}

func (r *Rows) Next() bool {
	if r.closed || r.failed {
		return false
	}
	if r.FailErr != nil && r.FailAt >= 0 && r.pos == r.FailAt {
		r.failed = true
		return false
	}
	if r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...interface{}) error {
	if r.ScanErr != nil {
		return r.ScanErr
	}

	row := r.Data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan expected %d destinations, got %d", len(row), len(dest))
	}

	for i, d := range dest {
		switch v := d.(type) {
		case *pgtype.Text:
			if err := v.Set(row[i]); err != nil {
				return err
			}
		case *pgtype.Timestamptz:
			if err := v.Set(row[i]); err != nil {
				return err
			}
		case *pgtype.Int8:
			if err := v.Set(row[i]); err != nil {
				return err
			}
		case *string:
			s, ok := row[i].(string)
			if !ok {
				return fmt.Errorf("cannot scan %T into *string", row[i])
			}
			*v = s
		case *time.Time:
			ts, ok := row[i].(time.Time)
			if !ok {
				return fmt.Errorf("cannot scan %T into *time.Time", row[i])
			}
			*v = ts
		default:
			return fmt.Errorf("unsupported scan destination %T", d)
		}
	}

	return nil
}

func (r *Rows) Err() error {
	if r.failed {
		return r.FailErr
	}
	return nil
}

func (r *Rows) Close() {
	r.closed = true
}

func (r *Rows) Closed() bool {
	return r.closed
}

func (r *Rows) CommandTag() pgconn.CommandTag {
	return nil
}

func (r *Rows) FieldDescriptions() []pgproto3.FieldDescription {
	return nil
}

func (r *Rows) Values() ([]interface{}, error) {
	if r.pos == 0 || r.pos > len(r.Data) {
		return nil, fmt.Errorf("no current row")
	}
	return r.Data[r.pos-1], nil
}

func (r *Rows) RawValues() [][]byte {
	return nil
}
