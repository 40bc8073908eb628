package launcher

import "strings"

// shellQuote returns a shell-safe quoted version of a string. If the string
// contains no shell metacharacters, it's returned as-is. Otherwise, it's
// wrapped in single quotes with internal single quotes escaped.
func shellQuote(s string) string {
	safe := true
	for _, char := range s {
		if !isShellSafe(char) {
			safe = false
			break
		}
	}
	if safe && s != "" {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// isShellSafe returns true if the character doesn't need shell quoting.
func isShellSafe(char rune) bool {
	if char >= 'a' && char <= 'z' {
		return true
	}
	if char >= 'A' && char <= 'Z' {
		return true
	}
	if char >= '0' && char <= '9' {
		return true
	}
	switch char {
	case '-', '_', '.', '/', ':', '=', '+', ',', '@':
		return true
	}
	return false
}

// doubleQuoted escapes s for interpolation inside a double-quoted shell
// word: double quote, backslash, dollar and backquote lose their special
// meaning, everything else passes through unchanged.
func doubleQuoted(s string) string {
	var b strings.Builder
	for _, char := range s {
		switch char {
		case '"', '\\', '$', '`':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}

// cQuoted escapes s for use inside a C string literal.
func cQuoted(s string) string {
	var b strings.Builder
	for _, char := range s {
		switch char {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(char)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(char)
		}
	}
	return b.String()
}

// commentSafe strips line breaks so a filename cannot terminate the comment
// it is mentioned in.
func commentSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
}
