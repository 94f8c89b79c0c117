// Copyright 2017 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ProbeChain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ProbeChain. If not, see <http://www.gnu.org/licenses/>.

package params

// These are the multipliers for the native token's denominations.
// Example: to get the nanomina value of an amount in whole units, use
//
//    new(big.Int).Mul(value, big.NewInt(params.Mina))
//
const (
	Nanomina = 1
	Mina     = 1_000_000_000 // 1e9 = 1 native token unit, matching the 9-decimal account balance field
)

// Native token metadata.
const (
	TokenName     = "MINA"
	TokenSymbol   = "MINA"
	TokenDecimals = 9
)
