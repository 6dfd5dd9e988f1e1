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
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Catalog is the set of partition tables that physically exist in the
// warehouse schema. Table names that do not look like <SYMBOL>_<YEAR>,
// the Main listing table for example, are ignored.
type Catalog struct {
	years  map[string][]int
	tables map[string]bool
}

// NewCatalog parses a schema's table listing. The year is the four digits
// after the last underscore, so symbols containing underscores keep working.
func NewCatalog(tables []string) Catalog {
	c := Catalog{
		years:  make(map[string][]int),
		tables: make(map[string]bool),
	}

	for _, table := range tables {
		i := strings.LastIndex(table, "_")
		if i <= 0 || i == len(table)-1 {
			continue
		}

		symbol, digits := table[:i], table[i+1:]
		if len(digits) != 4 {
			continue
		}
		year, err := strconv.Atoi(digits)
		if err != nil || year < 1000 {
			continue
		}

		c.tables[table] = true
		c.years[symbol] = append(c.years[symbol], year)
	}

	for _, years := range c.years {
		sort.Ints(years)
	}

	return c
}

// Years returns the ascending years that have a partition table for symbol.
func (c Catalog) Years(symbol string) []int {
	return c.years[symbol]
}

// Symbols returns the distinct symbols with at least one partition table,
// sorted for stable listings.
func (c Catalog) Symbols() []string {
	ret := make([]string, 0, len(c.years))
	for symbol := range c.years {
		ret = append(ret, symbol)
	}
	sort.Strings(ret)
	return ret
}

// HasTable reports whether the literal partition table name exists.
func (c Catalog) HasTable(name string) bool {
	return c.tables[name]
}

// Known filters partitions to those whose table exists, preserving order.
// Years with no table inside a requested range drop out.
func (c Catalog) Known(parts []Partition) []Partition {
	ret := make([]Partition, 0, len(parts))
	for _, p := range parts {
		if c.tables[p.TableName()] {
			ret = append(ret, p)
		}
	}
	return ret
}

// Verify returns ErrUnknownSymbol when a requested symbol has no partition
// table at all, which distinguishes a never-ingested symbol from a gap year.
func (c Catalog) Verify(symbols []string) error {
	for _, symbol := range symbols {
		if len(c.years[symbol]) == 0 {
			return fmt.Errorf("no partition tables exist for symbol %q: %w", symbol, ErrUnknownSymbol)
		}
	}
	return nil
}
