// Pomodesk
// Copyright (c) 2026 The Pomodesk Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Pomodesk.
//
// Pomodesk is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Pomodesk is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Pomodesk.  If not, see <http://www.gnu.org/licenses/>.

package display

// GlyphSize is the number of column bytes in one source glyph.
const GlyphSize = 8

// Glyph is one 8x8 character bitmap, one byte per column, LSB at the top.
type Glyph [GlyphSize]byte

const (
	colonIndex = 10
	slashIndex = 11
)

// font is indexed 0-9 for digits, 10 for ':' and 11 for '/' and '-'.
var font = [...]Glyph{
	{0x3E, 0x51, 0x49, 0x45, 0x3E, 0x00, 0x00, 0x00}, // 0
	{0x00, 0x42, 0x7F, 0x40, 0x00, 0x00, 0x00, 0x00}, // 1
	{0x42, 0x61, 0x51, 0x49, 0x46, 0x00, 0x00, 0x00}, // 2
	{0x21, 0x41, 0x45, 0x4B, 0x31, 0x00, 0x00, 0x00}, // 3
	{0x18, 0x14, 0x12, 0x7F, 0x10, 0x00, 0x00, 0x00}, // 4
	{0x27, 0x45, 0x45, 0x45, 0x39, 0x00, 0x00, 0x00}, // 5
	{0x3C, 0x4A, 0x49, 0x49, 0x30, 0x00, 0x00, 0x00}, // 6
	{0x01, 0x71, 0x09, 0x05, 0x03, 0x00, 0x00, 0x00}, // 7
	{0x36, 0x49, 0x49, 0x49, 0x36, 0x00, 0x00, 0x00}, // 8
	{0x06, 0x49, 0x49, 0x29, 0x1E, 0x00, 0x00, 0x00}, // 9
	{0x00, 0x00, 0x14, 0x00, 0x00, 0x00, 0x00, 0x00}, // :
	{0x00, 0x00, 0x00, 0x3C, 0x3C, 0x00, 0x00, 0x00}, // / and -
}

// Lookup returns the glyph for c and whether the font has one.
func Lookup(c rune) (Glyph, bool) {
	switch {
	case c >= '0' && c <= '9':
		return font[c-'0'], true
	case c == ':':
		return font[colonIndex], true
	case c == '/', c == '-':
		return font[slashIndex], true
	default:
		return Glyph{}, false
	}
}

// smallGlyph maps the characters the one-page renderer supports.
func smallGlyph(c rune) (Glyph, bool) {
	if (c >= '0' && c <= '9') || c == ':' {
		return Lookup(c)
	}
	return Glyph{}, false
}

// largeGlyph maps the characters the two-page renderer supports.
func largeGlyph(c rune) (Glyph, bool) {
	if (c >= '0' && c <= '9') || c == ':' || c == '/' {
		return Lookup(c)
	}
	return Glyph{}, false
}

// Letter bitmaps for the state labels. Five columns plus a spacer.
var (
	letterA = []byte{0x7E, 0x11, 0x11, 0x11, 0x7E, 0x00}
	letterB = []byte{0x7F, 0x49, 0x49, 0x49, 0x36, 0x00}
	letterE = []byte{0x7F, 0x49, 0x49, 0x49, 0x41, 0x00}
	letterG = []byte{0x3E, 0x41, 0x49, 0x49, 0x7A, 0x00}
	letterK = []byte{0x7F, 0x08, 0x14, 0x22, 0x41, 0x00}
	letterL = []byte{0x7F, 0x40, 0x40, 0x40, 0x40, 0x00}
	letterN = []byte{0x7F, 0x04, 0x08, 0x10, 0x7F, 0x00}
	letterO = []byte{0x3E, 0x41, 0x41, 0x41, 0x3E, 0x00}
	letterR = []byte{0x7F, 0x09, 0x19, 0x29, 0x46, 0x00}
	letterW = []byte{0x7F, 0x20, 0x18, 0x20, 0x7F, 0x00}
)

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var (
	labelWork  = concat(letterW, letterO, letterR, letterK)
	labelBreak = concat(letterB, letterR, letterE, letterA, letterK)
	labelLong  = concat(letterL, letterO, letterN, letterG)
)
