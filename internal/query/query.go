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

package query

import (
	"errors"
	"fmt"
	"github.com/jackc/pgx/v4"
	"strings"
	"time"

	"github.com/ajjensen13/candler/internal/partition"
)

// ErrComposition indicates a statement that cannot be composed, either
// because no partitions were supplied or because a partition has no table.
var ErrComposition = errors.New("query composition failed")

// Query is a composed SQL statement and its positional arguments.
type Query struct {
	SQL  string
	Args []interface{}
}

const candleColumns = `"Timestamp", "Open", "High", "Low", "Close", "Volume"`

type subquery struct {
	table     pgx.Identifier
	symbolArg int
}

// Compose merges one subquery per partition with UNION ALL and a trailing
// ORDER BY "Symbol", "Timestamp". The date bounds travel as $1 and $2 on
// every subquery, symbols as one argument each in first-appearance order.
// Table identifiers are sanitized and symbol values never appear in the
// SQL text, so hostile names cannot escape their quoting.
func Compose(parts []partition.Partition, from, to time.Time, schema string, cat partition.Catalog) (*Query, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("failed to compose statement for empty partition list: %w", ErrComposition)
	}

	args := make([]interface{}, 2, len(parts)+2)
	args[0], args[1] = from, to

	subs := make([]subquery, 0, len(parts))
	argBySymbol := make(map[string]int, len(parts))
	for _, p := range parts {
		table := p.TableName()
		if !cat.HasTable(table) {
			return nil, fmt.Errorf("failed to compose statement: no table for partition %s: %w", table, ErrComposition)
		}

		n, ok := argBySymbol[p.Symbol]
		if !ok {
			args = append(args, p.Symbol)
			n = len(args)
			argBySymbol[p.Symbol] = n
		}

		subs = append(subs, subquery{table: pgx.Identifier{schema, table}, symbolArg: n})
	}

	var b strings.Builder
	for i, sub := range subs {
		if i > 0 {
			b.WriteString(" UNION ALL ")
		}
		fmt.Fprintf(&b, `SELECT $%d::text AS "Symbol", %s FROM %s WHERE "Timestamp" BETWEEN $1 AND $2`, sub.symbolArg, candleColumns, sub.table.Sanitize())
	}
	b.WriteString(` ORDER BY "Symbol", "Timestamp"`)

	return &Query{SQL: b.String(), Args: args}, nil
}
