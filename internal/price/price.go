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

package price

import (
	"fmt"
	"github.com/shopspring/decimal"
	"math"
)

// Prices are stored as integers scaled by 10^4 so four decimal digits
// survive storage exactly.
const scale = 4

var maxStored = decimal.NewFromInt(math.MaxInt64)

// PrecisionError reports a price that has no stored integer representation.
type PrecisionError struct {
	Price  decimal.Decimal
	Reason string
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("cannot encode price %s: %s", e.Price, e.Reason)
}

// Encode converts a price to its stored integer representation, rounding
// digits beyond the fourth decimal place half away from zero.
func Encode(price decimal.Decimal) (int64, error) {
	if price.IsNegative() {
		return 0, &PrecisionError{Price: price, Reason: "price is negative"}
	}

	stored := price.Shift(scale).Round(0)
	if stored.Cmp(maxStored) > 0 {
		return 0, &PrecisionError{Price: price, Reason: "scaled price overflows int64"}
	}

	return stored.IntPart(), nil
}

// Decode converts a stored integer back to the exact decimal price.
// It never passes through binary floating point.
func Decode(stored int64) decimal.Decimal {
	return decimal.New(stored, -scale)
}
