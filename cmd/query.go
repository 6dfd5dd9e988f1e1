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
	"github.com/ajjensen13/candler/internal/model"
	"github.com/ajjensen13/candler/internal/transform"
	"github.com/ajjensen13/candler/internal/util"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query OHLCV candles across partition tables",
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

		format, err := cmd.Flags().GetString("format")
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

		var candles []model.Candle
		err = util.RunTx(ctx, pool, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(ctx context.Context, tx pgx.Tx) error {
			var err error
			candles, err = queryCandles(ctx, tx, req, string(schema))
			return err
		})
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to query candles: %w", err)))
		}

		if err := renderCandles(cmd.OutOrStdout(), format, candles); err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to render candles: %w", err)))
		}

		lg.Defaultf("returned %d candles for %d symbols", len(candles), len(req.Symbols))
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringSliceP("symbols", "s", nil, "ticker symbols to query")
	queryCmd.Flags().String("start", "", "start of the date range (2006-01-02 or RFC 3339)")
	queryCmd.Flags().String("end", "", "end of the date range (2006-01-02 or RFC 3339)")
	queryCmd.Flags().StringP("format", "f", formatTable, "output format: table, csv, or json")
	_ = queryCmd.MarkFlagRequired("symbols")
	_ = queryCmd.MarkFlagRequired("start")
	_ = queryCmd.MarkFlagRequired("end")
}

// queryCandles resolves, composes, executes, and decodes one candle query.
// It returns no candles when every partition in range is a gap year.
func queryCandles(ctx context.Context, q extract.Querier, req api.CandlesRequest, schema string) ([]model.Candle, error) {
	qry, err := planQuery(ctx, q, req, schema)
	if err != nil || qry == nil {
		return nil, err
	}

	rows, err := extract.Candles(ctx, q, qry)
	if err != nil {
		return nil, err
	}

	return transform.Candles(rows).Collect()
}

const dateLayout = "2006-01-02"

func candlesRequest(cmd *cobra.Command, tz *time.Location) (api.CandlesRequest, error) {
	symbols, err := cmd.Flags().GetStringSlice("symbols")
	if err != nil {
		return api.CandlesRequest{}, err
	}
	start, err := cmd.Flags().GetString("start")
	if err != nil {
		return api.CandlesRequest{}, err
	}
	end, err := cmd.Flags().GetString("end")
	if err != nil {
		return api.CandlesRequest{}, err
	}

	from, err := parseTime(start, tz)
	if err != nil {
		return api.CandlesRequest{}, err
	}
	to, err := parseTime(end, tz)
	if err != nil {
		return api.CandlesRequest{}, err
	}

	ss := make([]api.Symbol, len(symbols))
	for i, s := range symbols {
		ss[i] = api.Symbol(s)
	}

	req := api.CandlesRequest{Symbols: ss, From: api.From(from), To: api.To(to)}.Normalize()
	return req, req.Validate()
}

func parseTime(s string, tz *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, s, tz); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: expected %s or RFC 3339", s, dateLayout)
	}
	return t, nil
}
