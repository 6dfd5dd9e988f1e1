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
	"encoding/csv"
	"fmt"
	"github.com/goccy/go-json"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/ajjensen13/candler/internal/model"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

// symbolInfo is one row of the symbols listing.
type symbolInfo struct {
	Symbol       string `json:"symbol"`
	Years        string `json:"years"`
	SecurityType string `json:"security_type,omitempty"`
	Sector       string `json:"sector,omitempty"`
	Latest       string `json:"latest,omitempty"`
}

func renderCandles(w io.Writer, format string, candles []model.Candle) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(candles)
	case formatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"symbol", "timestamp", "open", "high", "low", "close", "volume"}); err != nil {
			return err
		}
		for _, c := range candles {
			record := []string{
				c.Symbol,
				c.Timestamp.Format(time.RFC3339),
				c.Open.StringFixed(4),
				c.High.StringFixed(4),
				c.Low.StringFixed(4),
				c.Close.StringFixed(4),
				strconv.FormatInt(c.Volume, 10),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case formatTable:
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "SYMBOL\tTIMESTAMP\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUME")
		for _, c := range candles {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				c.Symbol,
				c.Timestamp.Format(time.RFC3339),
				c.Open.StringFixed(4),
				c.High.StringFixed(4),
				c.Low.StringFixed(4),
				c.Close.StringFixed(4),
				c.Volume)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderSymbols(w io.Writer, format string, infos []symbolInfo) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case formatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"symbol", "years", "security_type", "sector", "latest"}); err != nil {
			return err
		}
		for _, info := range infos {
			if err := cw.Write([]string{info.Symbol, info.Years, info.SecurityType, info.Sector, info.Latest}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case formatTable:
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "SYMBOL\tYEARS\tTYPE\tSECTOR\tLATEST")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", info.Symbol, info.Years, info.SecurityType, info.Sector, info.Latest)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
