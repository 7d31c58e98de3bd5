package common

import (
	"path"
	"strings"
)

// UnknownStr is the String() value of out-of-range enums.
const UnknownStr = "unknown"

// Qualify joins a package path and a type name into a qualified identifier.
// An empty package path yields the bare name.
func Qualify(pkgPath, name string) string {
	if pkgPath == "" {
		return name
	}

	return pkgPath + "." + name
}

// ShortID reduces every package path inside a qualified identifier to its
// last element, e.g. "typeshape/fixtures/content.Page[typeshape/fixtures/content.Node]"
// becomes "content.Page[content.Node]".
func ShortID(id string) string {
	var b strings.Builder

	start := 0
	flush := func(end int) {
		tok := id[start:end]
		if i := strings.LastIndex(tok, "/"); i >= 0 {
			tok = tok[i+1:]
		}
		b.WriteString(tok)
	}

	for i := 0; i < len(id); i++ {
		switch id[i] {
		case '[', ']', ',', ' ', '*':
			flush(i)
			b.WriteByte(id[i])
			start = i + 1
		}
	}
	flush(len(id))

	return b.String()
}

// PkgAlias returns the default import alias of a package path.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}
