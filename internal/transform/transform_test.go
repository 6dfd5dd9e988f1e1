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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"

	"github.com/ajjensen13/candler/internal/extract"
	"github.com/ajjensen13/candler/internal/pgxtest"
)

func ts(day, hour int) time.Time {
	return time.Date(2020, time.March, day, hour, 0, 0, 0, time.UTC)
}

func candleRow(symbol interface{}, timestamp interface{}, open, high, low, cls, volume interface{}) []interface{} {
	return []interface{}{symbol, timestamp, open, high, low, cls, volume}
}

func TestCollectDecodesStoredPrices(t *testing.T) {
	rows := pgxtest.NewRows([][]interface{}{
		candleRow("AAPL", ts(2, 21), int64(1499000), int64(1501000), int64(1498500), int64(1500000), int64(1000)),
		candleRow("AAPL", ts(3, 21), int64(1500000), int64(1506000), int64(1499000), int64(1505000), int64(2000)),
		candleRow("AAPL", ts(4, 21), int64(1504000), int64(1504500), int64(1497000), int64(1498000), int64(1500)),
	})

	candles, err := Candles(rows).Collect()
	require.NoError(t, err)
	require.Len(t, candles, 3)

	wantCloses := []string{"150", "150.5", "149.8"}
	for i, want := range wantCloses {
		assert.True(t, decimal.RequireFromString(want).Equal(candles[i].Close), "close %d = %s", i, candles[i].Close)
	}

	assert.Equal(t, "AAPL", candles[0].Symbol)
	assert.True(t, candles[0].Timestamp.Equal(ts(2, 21)))
	assert.Equal(t, int64(1000), candles[0].Volume)
	assert.True(t, decimal.RequireFromString("149.9").Equal(candles[0].Open))
}

func TestCollectSortsBySymbolThenTimestamp(t *testing.T) {
	rows := pgxtest.NewRows([][]interface{}{
		candleRow("MSFT", ts(3, 21), int64(2), int64(2), int64(2), int64(2), int64(1)),
		candleRow("AAPL", ts(4, 21), int64(1), int64(1), int64(1), int64(1), int64(1)),
		candleRow("MSFT", ts(2, 21), int64(2), int64(2), int64(2), int64(2), int64(1)),
		candleRow("AAPL", ts(2, 21), int64(1), int64(1), int64(1), int64(1), int64(1)),
	})

	candles, err := Candles(rows).Collect()
	require.NoError(t, err)
	require.Len(t, candles, 4)

	got := make([]string, len(candles))
	for i, c := range candles {
		got[i] = c.Symbol + "@" + c.Timestamp.Format("2006-01-02")
	}
	assert.Equal(t, []string{
		"AAPL@2020-03-02",
		"AAPL@2020-03-04",
		"MSFT@2020-03-02",
		"MSFT@2020-03-03",
	}, got)
}

func TestNullCloseStopsIteration(t *testing.T) {
	badTs := ts(3, 21)
	rows := pgxtest.NewRows([][]interface{}{
		candleRow("AAPL", ts(2, 21), int64(1), int64(1), int64(1), int64(1500000), int64(1)),
		candleRow("AAPL", badTs, int64(1), int64(1), int64(1), nil, int64(1)),
		candleRow("AAPL", ts(4, 21), int64(1), int64(1), int64(1), int64(1498000), int64(1)),
	})

	r := Candles(rows)
	assert.True(t, r.Next())
	assert.False(t, r.Next())
	assert.False(t, r.Next())

	var decodeErr *DecodeError
	require.True(t, errors.As(r.Err(), &decodeErr))
	assert.Equal(t, "AAPL", decodeErr.Symbol)
	assert.True(t, badTs.Equal(decodeErr.Timestamp))
	assert.Equal(t, "Close", decodeErr.Field)
	assert.True(t, rows.Closed())
}

func TestCollectReturnsNothingAfterDecodeError(t *testing.T) {
	rows := pgxtest.NewRows([][]interface{}{
		candleRow("AAPL", ts(2, 21), int64(1), int64(1), int64(1), int64(1500000), int64(1)),
		candleRow("AAPL", ts(3, 21), int64(1), int64(1), int64(1), nil, int64(1)),
	})

	candles, err := Candles(rows).Collect()
	assert.Nil(t, candles)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestDecodeErrors(t *testing.T) {
	good := ts(2, 21)
	tests := []struct {
		name  string
		row   []interface{}
		field string
	}{
		{name: "null symbol", row: candleRow(nil, good, int64(1), int64(1), int64(1), int64(1), int64(1)), field: "Symbol"},
		{name: "null timestamp", row: candleRow("AAPL", nil, int64(1), int64(1), int64(1), int64(1), int64(1)), field: "Timestamp"},
		{name: "null open", row: candleRow("AAPL", good, nil, int64(1), int64(1), int64(1), int64(1)), field: "Open"},
		{name: "negative high", row: candleRow("AAPL", good, int64(1), int64(-2), int64(1), int64(1), int64(1)), field: "High"},
		{name: "null low", row: candleRow("AAPL", good, int64(1), int64(1), nil, int64(1), int64(1)), field: "Low"},
		{name: "null volume", row: candleRow("AAPL", good, int64(1), int64(1), int64(1), int64(1), nil), field: "Volume"},
		{name: "negative volume", row: candleRow("AAPL", good, int64(1), int64(1), int64(1), int64(1), int64(-5)), field: "Volume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Candles(pgxtest.NewRows([][]interface{}{tt.row}))
			assert.False(t, r.Next())

			var decodeErr *DecodeError
			require.True(t, errors.As(r.Err(), &decodeErr))
			assert.Equal(t, tt.field, decodeErr.Field)
		})
	}
}

func TestMidStreamFailureIsConnectionError(t *testing.T) {
	boom := errors.New("server closed the connection unexpectedly")
	rows := pgxtest.NewRows([][]interface{}{
		candleRow("AAPL", ts(2, 21), int64(1), int64(1), int64(1), int64(1), int64(1)),
	})
	rows.FailAt = 1
	rows.FailErr = boom

	candles, err := Candles(rows).Collect()
	assert.Nil(t, candles)

	var connErr *extract.ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.True(t, errors.Is(err, boom))
}

func TestCollectEmpty(t *testing.T) {
	candles, err := Candles(pgxtest.NewRows(nil)).Collect()
	require.NoError(t, err)
	assert.NotNil(t, candles)
	assert.Empty(t, candles)
}
