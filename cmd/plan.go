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
	"time"

	"github.com/spf13/cobra"

	"github.com/ajjensen13/candler/internal/api"
	"github.com/ajjensen13/candler/internal/extract"
	"github.com/ajjensen13/candler/internal/partition"
	"github.com/ajjensen13/candler/internal/query"
	"github.com/ajjensen13/candler/internal/util"
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the SQL a query would execute without running it",
	Run: func(cmd *cobra.Command, args []string) {
		lg, cleanup := logger()
		defer cleanup()

		tz, err := timezone()
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to load timezone: %w", err)))
		}

		req, err := candlesRequest(cmd, tz)
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to parse request: %w", err)))
		}

		schema, err := warehouseSchema()
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to load warehouse schema: %w", err)))
		}

		ctx, cancel := context.WithTimeout(runContext(lg), util.ShortReqTimeout)
		defer cancel()

		pool, cleanupPool, err := openPool(ctx, lg)
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to open database connection pool: %w", err)))
		}
		defer cleanupPool()

		var qry *query.Query
		err = util.RunTx(ctx, pool, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(ctx context.Context, tx pgx.Tx) error {
			var err error
			qry, err = planQuery(ctx, tx, req, string(schema))
			return err
		})
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to plan query: %w", err)))
		}

		out := cmd.OutOrStdout()
		if qry == nil {
			fmt.Fprintln(out, "-- no partition tables overlap the requested range")
			return
		}

		fmt.Fprintln(out, qry.SQL)
		for i, arg := range qry.Args {
			fmt.Fprintf(out, "-- $%d = %v\n", i+1, arg)
		}
	},
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringSliceP("symbols", "s", nil, "ticker symbols to query")
	planCmd.Flags().String("start", "", "start of the date range (2006-01-02 or RFC 3339)")
	planCmd.Flags().String("end", "", "end of the date range (2006-01-02 or RFC 3339)")
	_ = planCmd.MarkFlagRequired("symbols")
	_ = planCmd.MarkFlagRequired("start")
	_ = planCmd.MarkFlagRequired("end")
}

// planQuery resolves the request against the live catalog and composes the
// statement queryCandles would execute. It returns nil when no partition
// table overlaps the requested range.
func planQuery(ctx context.Context, q extract.Querier, req api.CandlesRequest, schema string) (*query.Query, error) {
	tables, err := extract.Tables(ctx, q, schema)
	if err != nil {
		return nil, err
	}
	cat := partition.NewCatalog(tables)

	if err := cat.Verify(req.SymbolStrings()); err != nil {
		return nil, err
	}

	parts, err := partition.Resolve(req.SymbolStrings(), time.Time(req.From), time.Time(req.To))
	if err != nil {
		return nil, err
	}

	live := cat.Known(parts)
	if len(live) == 0 {
		return nil, nil
	}

	return query.Compose(live, time.Time(req.From), time.Time(req.To), schema, cat)
}
