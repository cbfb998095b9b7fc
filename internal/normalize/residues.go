package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sourceplane/foldplan/internal/model"
)

// Residues canonicalizes a residue string: whitespace removed, letters uppercased
func Residues(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ComplexType classifies a set of chains the way the prediction scripts report it:
// monomer, homodimer, heterodimer, homo-<n>mer or multimer
func ComplexType(chains []model.Chain) string {
	switch len(chains) {
	case 0:
		return "empty"
	case 1:
		return "monomer"
	}

	first := Residues(chains[0].Residues)
	identical := true
	for _, c := range chains[1:] {
		if Residues(c.Residues) != first {
			identical = false
			break
		}
	}

	if len(chains) == 2 {
		if identical {
			return "homodimer"
		}
		return "heterodimer"
	}
	if identical {
		return fmt.Sprintf("homo-%dmer", len(chains))
	}
	return "multimer"
}

// SafeName converts an identifier to a filesystem-safe name
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '.':
			b.WriteRune('_')
		}
	}

	result := strings.Trim(b.String(), "_")
	if result == "" {
		return "protein"
	}
	return result
}
