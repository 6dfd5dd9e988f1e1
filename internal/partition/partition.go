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
	"fmt"
	"time"
)

var (
	// ErrNoPartitions indicates a request that cannot touch any partition,
	// such as an empty symbol list or an inverted year range.
	ErrNoPartitions = errors.New("no partitions resolved")

	// ErrUnknownSymbol indicates a symbol with no partition table at all.
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// Partition identifies one per-symbol, per-year table in the warehouse.
type Partition struct {
	Symbol string
	Year   int
}

// TableName returns the warehouse table that holds this partition's rows.
func (p Partition) TableName() string {
	return fmt.Sprintf("%s_%d", p.Symbol, p.Year)
}

func (p Partition) String() string {
	return p.TableName()
}

// Resolve expands symbols and a date range into the partitions the range
// touches: one partition per symbol per calendar year, symbols in the
// order supplied, years ascending.
func Resolve(symbols []string, from, to time.Time) ([]Partition, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("failed to resolve partitions for empty symbol list: %w", ErrNoPartitions)
	}

	first, last := from.Year(), to.Year()
	if last < first {
		return nil, fmt.Errorf("failed to resolve partitions for year range %d-%d: %w", first, last, ErrNoPartitions)
	}

	ret := make([]Partition, 0, len(symbols)*(last-first+1))
	for _, symbol := range symbols {
		for year := first; year <= last; year++ {
			ret = append(ret, Partition{Symbol: symbol, Year: year})
		}
	}

	return ret, nil
}
