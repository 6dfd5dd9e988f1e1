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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajjensen13/candler/internal/extract"
	"github.com/ajjensen13/candler/internal/model"
	"github.com/ajjensen13/candler/internal/partition"
	"github.com/ajjensen13/candler/internal/util"
)

// symbolsCmd represents the symbols command
var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List the symbols available in the warehouse",
	Run: func(cmd *cobra.Command, args []string) {
		lg, cleanup := logger()
		defer cleanup()

		schema, err := warehouseSchema()
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to load warehouse schema: %w", err)))
		}

		format, err := cmd.Flags().GetString("format")
		if err != nil {
			panic(lg.ErrorErr(err))
		}
		withLatest, err := cmd.Flags().GetBool("latest")
		if err != nil {
			panic(lg.ErrorErr(err))
		}

		ctx, cancel := context.WithTimeout(runContext(lg), util.MedReqTimeout)
		defer cancel()

		pool, cleanupPool, err := openPool(ctx, lg)
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to open database connection pool: %w", err)))
		}
		defer cleanupPool()

		var infos []symbolInfo
		err = util.RunTx(ctx, pool, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(ctx context.Context, tx pgx.Tx) error {
			var err error
			infos, err = listSymbols(ctx, tx, string(schema), withLatest)
			return err
		})
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to list symbols: %w", err)))
		}

		if err := renderSymbols(cmd.OutOrStdout(), format, infos); err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to render symbols: %w", err)))
		}

		lg.Defaultf("listed %d symbols", len(infos))
	},
}

func init() {
	rootCmd.AddCommand(symbolsCmd)

	symbolsCmd.Flags().StringP("format", "f", formatTable, "output format: table, csv, or json")
	symbolsCmd.Flags().Bool("latest", false, "include the newest bar per symbol")
}

// listSymbols builds the catalog listing. Security metadata is joined in
// when the Main table exists; the newest bar per symbol only when asked,
// since it reads one partition per symbol.
func listSymbols(ctx context.Context, q extract.Querier, schema string, withLatest bool) ([]symbolInfo, error) {
	tables, err := extract.Tables(ctx, q, schema)
	if err != nil {
		return nil, err
	}
	cat := partition.NewCatalog(tables)

	securities := make(map[string]model.Security)
	for _, table := range tables {
		if table == extract.MainTable {
			list, err := extract.Securities(ctx, q, schema)
			if err != nil {
				return nil, err
			}
			for _, s := range list {
				securities[s.Symbol] = s
			}
			break
		}
	}

	var latest map[string]time.Time
	if withLatest {
		latest, err = extract.LatestTimestamps(ctx, q, schema, cat)
		if err != nil {
			return nil, err
		}
	}

	symbols := cat.Symbols()
	infos := make([]symbolInfo, 0, len(symbols))
	for _, symbol := range symbols {
		info := symbolInfo{Symbol: symbol, Years: yearRanges(cat.Years(symbol))}
		if s, ok := securities[symbol]; ok {
			info.SecurityType = s.SecurityType
			info.Sector = s.Sector
		}
		if ts, ok := latest[symbol]; ok {
			info.Latest = ts.Format(time.RFC3339)
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// yearRanges renders sorted years compactly, e.g. "2019-2021" or
// "2018, 2020-2021".
func yearRanges(years []int) string {
	if len(years) == 0 {
		return ""
	}

	var b strings.Builder
	start, prev := years[0], years[0]
	flush := func() {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		if start == prev {
			fmt.Fprintf(&b, "%d", start)
			return
		}
		fmt.Fprintf(&b, "%d-%d", start, prev)
	}

	for _, year := range years[1:] {
		if year == prev+1 {
			prev = year
			continue
		}
		flush()
		start, prev = year, year
	}
	flush()

	return b.String()
}
