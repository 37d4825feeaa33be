package docx

// Symbol fonts address glyphs by legacy byte codes, and documents often
// store those codes shifted into the Unicode private use area
// (U+F000-U+F0FF). Substitution lowers a private-use code back to its
// byte value and replaces it with the real Unicode character when the
// font's mapping is known; anything unmapped passes through unchanged.

type symbolFont int

const (
	fontSymbol symbolFont = iota
	fontWingdings
)

func fontByName(name string) (symbolFont, bool) {
	switch name {
	case "Symbol":
		return fontSymbol, true
	case "Wingdings":
		return fontWingdings, true
	}
	return 0, false
}

// lowerPrivateUse maps U+F000-U+F0FF down to the font's byte range.
func lowerPrivateUse(r rune) rune {
	if r >= 0xF000 && r <= 0xF0FF {
		return r - 0xF000
	}
	return r
}

func (f symbolFont) glyph(r rune) (rune, bool) {
	var table map[rune]rune
	switch f {
	case fontSymbol:
		table = symbolGlyphs
	case fontWingdings:
		table = wingdingsGlyphs
	default:
		return 0, false
	}
	out, ok := table[r]
	return out, ok
}

// substitute rewrites the characters of a run's text through the font
// mapping. Unmapped characters keep their original value, private-use
// shift included.
func (f symbolFont) substitute(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if sub, ok := f.glyph(lowerPrivateUse(r)); ok {
			out = append(out, sub)
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// symbolGlyphs maps the Symbol font's encoding to Unicode. The table
// covers the printable core plus the operators and arrows seen in
// practice.
var symbolGlyphs = map[rune]rune{
	0x20: ' ',
	0x21: '!',
	0x22: '∀', // for all
	0x23: '#',
	0x24: '∃', // there exists
	0x25: '%',
	0x26: '&',
	0x27: '∋', // contains as member
	0x28: '(',
	0x29: ')',
	0x2a: '∗', // asterisk operator
	0x2b: '+',
	0x2c: ',',
	0x2d: '−', // minus sign
	0x2e: '.',
	0x2f: '/',
	0x30: '0',
	0x31: '1',
	0x32: '2',
	0x33: '3',
	0x34: '4',
	0x35: '5',
	0x36: '6',
	0x37: '7',
	0x38: '8',
	0x39: '9',
	0x3a: ':',
	0x3b: ';',
	0x3c: '<',
	0x3d: '=',
	0x3e: '>',
	0x3f: '?',
	0x40: '≅', // approximately equal
	0x41: 'Α', // Alpha
	0x42: 'Β', // Beta
	0x43: 'Χ', // Chi
	0x44: 'Δ', // Delta
	0x45: 'Ε', // Epsilon
	0x46: 'Φ', // Phi
	0x47: 'Γ', // Gamma
	0x48: 'Η', // Eta
	0x49: 'Ι', // Iota
	0x4a: 'ϑ', // theta symbol
	0x4b: 'Κ', // Kappa
	0x4c: 'Λ', // Lambda
	0x4d: 'Μ', // Mu
	0x4e: 'Ν', // Nu
	0x4f: 'Ο', // Omicron
	0x50: 'Π', // Pi
	0x51: 'Θ', // Theta
	0x52: 'Ρ', // Rho
	0x53: 'Σ', // Sigma
	0x54: 'Τ', // Tau
	0x55: 'Υ', // Upsilon
	0x56: 'ς', // final sigma
	0x57: 'Ω', // Omega
	0x58: 'Ξ', // Xi
	0x59: 'Ψ', // Psi
	0x5a: 'Ζ', // Zeta
	0x5b: '[',
	0x5c: '∴', // therefore
	0x5d: ']',
	0x5e: '⊥', // up tack
	0x5f: '_',
	0x61: 'α', // alpha
	0x62: 'β', // beta
	0x63: 'χ', // chi
	0x64: 'δ', // delta
	0x65: 'ε', // epsilon
	0x66: 'φ', // phi
	0x67: 'γ', // gamma
	0x68: 'η', // eta
	0x69: 'ι', // iota
	0x6a: 'ϕ', // phi symbol
	0x6b: 'κ', // kappa
	0x6c: 'λ', // lambda
	0x6d: 'μ', // mu
	0x6e: 'ν', // nu
	0x6f: 'ο', // omicron
	0x70: 'π', // pi
	0x71: 'θ', // theta
	0x72: 'ρ', // rho
	0x73: 'σ', // sigma
	0x74: 'τ', // tau
	0x75: 'υ', // upsilon
	0x76: 'ϖ', // pi symbol
	0x77: 'ω', // omega
	0x78: 'ξ', // xi
	0x79: 'ψ', // psi
	0x7a: 'ζ', // zeta
	0x7b: '{',
	0x7c: '|',
	0x7d: '}',
	0x7e: '∼', // tilde operator
	0xa2: '′', // prime
	0xa3: '≤', // less than or equal
	0xa5: '∞', // infinity
	0xab: '↔', // left right arrow
	0xac: '←', // left arrow
	0xad: '↑', // up arrow
	0xae: '→', // right arrow
	0xaf: '↓', // down arrow
	0xb2: '″', // double prime
	0xb3: '≥', // greater than or equal
	0xb4: '×', // multiplication
	0xb6: '∂', // partial differential
	0xb7: '•', // bullet
	0xb8: '÷', // division
	0xb9: '≠', // not equal
	0xba: '≡', // identical
	0xc4: '⊗', // circled times
	0xc5: '⊕', // circled plus
	0xc7: '∩', // intersection
	0xc8: '∪', // union
	0xc9: '⊃', // superset
	0xca: '⊇', // superset or equal
	0xcc: '⊂', // subset
	0xcd: '⊆', // subset or equal
	0xce: '∈', // element of
	0xcf: '∉', // not element of
	0xd1: '∇', // nabla
	0xd5: '∏', // n-ary product
	0xd6: '√', // square root
	0xd9: '∧', // logical and
	0xda: '∨', // logical or
	0xe5: '∑', // n-ary sum
	0xf2: '∫', // integral
}

// wingdingsGlyphs maps the handful of Wingdings codes that show up as
// list bullets and inline marks.
var wingdingsGlyphs = map[rune]rune{
	0x4a: '☺', // smiling face
	0x4c: '☹', // frowning face
	0x6c: '●', // black circle
	0x6d: '❍', // shadowed circle
	0x6e: '■', // black square
	0x6f: '□', // white square
	0x70: '❑', // lower right shadowed square
	0x75: '◆', // black diamond
	0x76: '❖', // diamond minus x
	0xd8: '⬩', // small diamond
	0xdc: '➢', // arrowhead
	0xfb: '✗', // ballot x
	0xfc: '✓', // check mark
	0xfd: '☒', // ballot box with x
	0xfe: '☑', // ballot box with check
}
