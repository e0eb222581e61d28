package project

import (
	"strings"
	"unicode"

	"github.com/slaakko/cmajor-sub007/internal/source"
)

// ImportMeta is one imported unit name with the span that named it.
type ImportMeta struct {
	Name string
	Span source.Span
}

// UnitMeta describes a compilation unit for dependency ordering.
type UnitMeta struct {
	Name        string
	Path        string
	Span        source.Span  // span of the unit declaration, or of the whole file
	Imports     []ImportMeta // in declaration order
	ContentHash Digest       // hash of the file content
	UnitHash    Digest       // content hash combined with the hashes of imported units
}

// IsValidUnitName accepts dotted ASCII identifiers such as "core" or
// "coll.seq".
func IsValidUnitName(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(name, ".") {
		if !isIdent(seg) {
			return false
		}
	}
	return true
}

func isIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ImportNames lists the imported unit names.
func (m *UnitMeta) ImportNames() []string {
	out := make([]string, len(m.Imports))
	for i, imp := range m.Imports {
		out[i] = imp.Name
	}
	return out
}
