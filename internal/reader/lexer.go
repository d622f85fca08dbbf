package reader

import "strings"

// symbolSpecial lists the punctuation characters a symbol may contain,
// carried over verbatim from read.c's symbol_special.
const symbolSpecial = "+-/*:.!?<>"

func isWhitespace(r rune) bool { return r <= ' ' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isSymbolStart(r rune) bool {
	return isAlpha(r) || strings.ContainsRune(symbolSpecial, r)
}

func isSymbolChar(r rune) bool {
	return isAlpha(r) || isDigit(r) || strings.ContainsRune(symbolSpecial, r)
}
