package handlers

import "strings"

const upperhex = "0123456789ABCDEF"

// EncodeFilename percent-encodes every byte of name outside the RFC 3986
// unreserved set (A-Z a-z 0-9 - _ . ~) as uppercase %XX.
func EncodeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

// ContentDisposition builds the attachment header value for title
func ContentDisposition(title string) string {
	return "attachment; filename=" + EncodeFilename(title)
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
