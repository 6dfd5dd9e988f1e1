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

package transform

import (
	"errors"
	"fmt"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"
	"sort"
	"time"

	"github.com/ajjensen13/candler/internal/extract"
	"github.com/ajjensen13/candler/internal/model"
	"github.com/ajjensen13/candler/internal/price"
)

var errNullValue = errors.New("null where a value is required")

// DecodeError reports a stored row that cannot be decoded into a candle.
// Symbol and Timestamp locate the bad record when they themselves decoded.
type DecodeError struct {
	Symbol    string
	Timestamp time.Time
	Field     string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s for symbol %q at %s: %v", e.Field, e.Symbol, e.Timestamp.Format(time.RFC3339), e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Results is a lazy, once-consumable cursor over a candle statement's rows.
// After any failure no further candles are yielded.
type Results struct {
	rows    pgx.Rows
	current model.Candle
	err     error
	done    bool
}

// Candles wraps executed statement rows for decoding. The cursor owns rows
// until Close or Collect.
func Candles(rows pgx.Rows) *Results {
	return &Results{rows: rows}
}

// Next advances to the next candle. It returns false when the rows are
// exhausted or a failure occurred; Err distinguishes the two.
func (r *Results) Next() bool {
	if r.done || r.err != nil {
		return false
	}

	if !r.rows.Next() {
		r.done = true
		if err := r.rows.Err(); err != nil {
			r.err = fmt.Errorf("failed to read candle rows: %w", &extract.ConnectionError{Err: err})
		}
		return false
	}

	var (
		symbol    pgtype.Text
		timestamp pgtype.Timestamptz
		open      pgtype.Int8
		high      pgtype.Int8
		low       pgtype.Int8
		cls       pgtype.Int8
		volume    pgtype.Int8
	)
	if err := r.rows.Scan(&symbol, &timestamp, &open, &high, &low, &cls, &volume); err != nil {
		r.fail(&DecodeError{Symbol: symbol.String, Timestamp: timestamp.Time, Field: "Row", Err: err})
		return false
	}

	if symbol.Status != pgtype.Present {
		r.fail(&DecodeError{Field: "Symbol", Err: errNullValue})
		return false
	}
	if timestamp.Status != pgtype.Present {
		r.fail(&DecodeError{Symbol: symbol.String, Field: "Timestamp", Err: errNullValue})
		return false
	}

	o, err := decodePrice(symbol, timestamp, "Open", open)
	if err != nil {
		r.fail(err)
		return false
	}
	h, err := decodePrice(symbol, timestamp, "High", high)
	if err != nil {
		r.fail(err)
		return false
	}
	l, err := decodePrice(symbol, timestamp, "Low", low)
	if err != nil {
		r.fail(err)
		return false
	}
	c, err := decodePrice(symbol, timestamp, "Close", cls)
	if err != nil {
		r.fail(err)
		return false
	}

	switch {
	case volume.Status != pgtype.Present:
		r.fail(&DecodeError{Symbol: symbol.String, Timestamp: timestamp.Time, Field: "Volume", Err: errNullValue})
		return false
	case volume.Int < 0:
		r.fail(&DecodeError{Symbol: symbol.String, Timestamp: timestamp.Time, Field: "Volume", Err: fmt.Errorf("negative stored volume %d", volume.Int)})
		return false
	}

	r.current = model.Candle{
		Symbol:    symbol.String,
		Timestamp: timestamp.Time,
		Open:      o,
		High:      h,
		Low:       l,
		Close:     c,
		Volume:    volume.Int,
	}
	return true
}

func decodePrice(symbol pgtype.Text, timestamp pgtype.Timestamptz, field string, v pgtype.Int8) (decimal.Decimal, error) {
	switch {
	case v.Status != pgtype.Present:
		return decimal.Decimal{}, &DecodeError{Symbol: symbol.String, Timestamp: timestamp.Time, Field: field, Err: errNullValue}
	case v.Int < 0:
		return decimal.Decimal{}, &DecodeError{Symbol: symbol.String, Timestamp: timestamp.Time, Field: field, Err: fmt.Errorf("negative stored price %d", v.Int)}
	}
	return price.Decode(v.Int), nil
}

func (r *Results) fail(err error) {
	r.err = err
	r.done = true
	r.rows.Close()
}

// Candle returns the candle produced by the last successful Next.
func (r *Results) Candle() model.Candle {
	return r.current
}

// Err returns the failure that stopped iteration, if any.
func (r *Results) Err() error {
	return r.err
}

// Close releases the underlying rows. It is safe to call more than once.
func (r *Results) Close() {
	r.rows.Close()
}

// Collect drains the cursor and returns every candle ordered by symbol,
// then timestamp. On failure it returns no candles at all.
func (r *Results) Collect() ([]model.Candle, error) {
	defer r.Close()

	ret := make([]model.Candle, 0)
	for r.Next() {
		ret = append(ret, r.Candle())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(ret, func(i, j int) bool {
		if ret[i].Symbol != ret[j].Symbol {
			return ret[i].Symbol < ret[j].Symbol
		}
		return ret[i].Timestamp.Before(ret[j].Timestamp)
	})

	return ret, nil
}
