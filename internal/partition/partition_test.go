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

package partition

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		symbols []string
		from    time.Time
		to      time.Time
		want    []Partition
	}{
		{
			name:    "single year single symbol",
			symbols: []string{"AAPL"},
			from:    date(2020, 3, 1),
			to:      date(2020, 6, 30),
			want:    []Partition{{Symbol: "AAPL", Year: 2020}},
		},
		{
			name:    "single day",
			symbols: []string{"AAPL"},
			from:    date(2020, 3, 2),
			to:      date(2020, 3, 2),
			want:    []Partition{{Symbol: "AAPL", Year: 2020}},
		},
		{
			name:    "year boundary",
			symbols: []string{"AAPL"},
			from:    date(2020, 12, 31),
			to:      date(2021, 1, 1),
			want: []Partition{
				{Symbol: "AAPL", Year: 2020},
				{Symbol: "AAPL", Year: 2021},
			},
		},
		{
			name:    "two symbols three years",
			symbols: []string{"AAPL", "MSFT"},
			from:    date(2020, 5, 1),
			to:      date(2022, 2, 1),
			want: []Partition{
				{Symbol: "AAPL", Year: 2020},
				{Symbol: "AAPL", Year: 2021},
				{Symbol: "AAPL", Year: 2022},
				{Symbol: "MSFT", Year: 2020},
				{Symbol: "MSFT", Year: 2021},
				{Symbol: "MSFT", Year: 2022},
			},
		},
		{
			name:    "supplied order is preserved",
			symbols: []string{"MSFT", "AAPL"},
			from:    date(2021, 1, 1),
			to:      date(2021, 12, 31),
			want: []Partition{
				{Symbol: "MSFT", Year: 2021},
				{Symbol: "AAPL", Year: 2021},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.symbols, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	t.Run("empty symbols", func(t *testing.T) {
		_, err := Resolve(nil, date(2020, 1, 1), date(2020, 12, 31))
		assert.True(t, errors.Is(err, ErrNoPartitions))
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := Resolve([]string{"AAPL"}, date(2021, 1, 1), date(2020, 1, 1))
		assert.True(t, errors.Is(err, ErrNoPartitions))
	})
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "AAPL_2020", Partition{Symbol: "AAPL", Year: 2020}.TableName())
	assert.Equal(t, "BRK_B_2021", Partition{Symbol: "BRK_B", Year: 2021}.TableName())
}
