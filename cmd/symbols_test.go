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

package cmd

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"

	"github.com/ajjensen13/candler/internal/pgxtest"
)

func TestListSymbols(t *testing.T) {
	q := &pgxtest.Querier{Handler: func(sql string, args ...interface{}) (pgx.Rows, error) {
		switch {
		case strings.Contains(sql, "pg_tables"):
			return tablesRows("AAPL_2019", "AAPL_2020", "AAPL_2021", "MSFT_2021", "Main"), nil
		case strings.Contains(sql, "TickerSymbol"):
			return pgxtest.NewRows([][]interface{}{
				{"AAPL", "Common Stock", "Technology"},
				{"MSFT", "Common Stock", nil},
			}), nil
		default:
			return nil, fmt.Errorf("unexpected query: %s", sql)
		}
	}}

	infos, err := listSymbols(context.Background(), q, "public", false)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "AAPL", infos[0].Symbol)
	assert.Equal(t, "2019-2021", infos[0].Years)
	assert.Equal(t, "Common Stock", infos[0].SecurityType)
	assert.Equal(t, "Technology", infos[0].Sector)
	assert.Empty(t, infos[0].Latest)

	assert.Equal(t, "MSFT", infos[1].Symbol)
	assert.Equal(t, "2021", infos[1].Years)
	assert.Empty(t, infos[1].Sector)

	assert.Len(t, q.Calls, 2)
}

func TestListSymbolsWithoutMainTable(t *testing.T) {
	q := &pgxtest.Querier{Rows: tablesRows("AAPL_2020")}

	infos, err := listSymbols(context.Background(), q, "public", false)
	require.NoError(t, err)
	require.Len(t, infos, 1)

	assert.Equal(t, "AAPL", infos[0].Symbol)
	assert.Empty(t, infos[0].SecurityType)
	assert.Len(t, q.Calls, 1)
}

func TestListSymbolsWithLatest(t *testing.T) {
	newest := time.Date(2021, 6, 30, 21, 0, 0, 0, time.UTC)

	q := &pgxtest.Querier{Handler: func(sql string, args ...interface{}) (pgx.Rows, error) {
		switch {
		case strings.Contains(sql, "pg_tables"):
			return tablesRows("AAPL_2020", "AAPL_2021", "MSFT_2021"), nil
		case strings.Contains(sql, `"AAPL_2021"`):
			return pgxtest.NewRows([][]interface{}{{newest}}), nil
		case strings.Contains(sql, `"MSFT_2021"`):
			return pgxtest.NewRows([][]interface{}{{nil}}), nil
		default:
			return nil, fmt.Errorf("unexpected query: %s", sql)
		}
	}}

	infos, err := listSymbols(context.Background(), q, "public", true)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, newest.Format(time.RFC3339), infos[0].Latest)
	assert.Empty(t, infos[1].Latest)

	// tables, then one MAX per symbol. AAPL_2020 is never read.
	require.Len(t, q.Calls, 3)
	for _, call := range q.Calls {
		assert.NotContains(t, call.SQL, `"AAPL_2020"`)
	}
}

func TestYearRanges(t *testing.T) {
	tests := []struct {
		name  string
		years []int
		want  string
	}{
		{"empty", nil, ""},
		{"single", []int{2020}, "2020"},
		{"contiguous", []int{2019, 2020, 2021}, "2019-2021"},
		{"gap then run", []int{2018, 2020, 2021}, "2018, 2020-2021"},
		{"all gaps", []int{2018, 2020, 2022}, "2018, 2020, 2022"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, yearRanges(tt.years))
		})
	}
}
