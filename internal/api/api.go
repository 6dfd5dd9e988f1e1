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

package api

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Symbol string
type From time.Time
type To time.Time

// CandlesRequest names the symbols and date range of one candle query.
type CandlesRequest struct {
	Symbols []Symbol
	From    // Earlier Date
	To      // Later Date
}

var (
	ErrNoSymbols     = errors.New("no symbols requested")
	ErrInvalidRange  = errors.New("request range is not chronological")
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Normalize upper-cases symbols, trims surrounding whitespace, and drops
// empty and duplicate entries while preserving first-appearance order.
func (r CandlesRequest) Normalize() CandlesRequest {
	seen := make(map[Symbol]bool, len(r.Symbols))
	symbols := make([]Symbol, 0, len(r.Symbols))
	for _, s := range r.Symbols {
		n := Symbol(strings.ToUpper(strings.TrimSpace(string(s))))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		symbols = append(symbols, n)
	}
	r.Symbols = symbols
	return r
}

func (r CandlesRequest) Validate() error {
	if len(r.Symbols) == 0 {
		return ErrNoSymbols
	}
	for _, s := range r.Symbols {
		if err := symbolIsValid(s); err != nil {
			return err
		}
	}
	if time.Time(r.To).Before(time.Time(r.From)) {
		return fmt.Errorf("from %v is after to %v: %w", time.Time(r.From), time.Time(r.To), ErrInvalidRange)
	}
	return nil
}

// SymbolStrings returns the requested symbols as plain strings.
func (r CandlesRequest) SymbolStrings() []string {
	ret := make([]string, len(r.Symbols))
	for i, s := range r.Symbols {
		ret[i] = string(s)
	}
	return ret
}

func symbolIsValid(s Symbol) error {
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-':
		default:
			return fmt.Errorf("symbol %q contains unsupported character %q: %w", s, c, ErrInvalidSymbol)
		}
	}
	return nil
}
