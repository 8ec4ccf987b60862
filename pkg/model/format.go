package model

import "fmt"

// DisplaySize is the render buffer capacity for full page assembly.
const DisplaySize = 1280

// Every content-producing operation follows the render buffer protocol:
// (buf, pos) -> newPos. Writes start at pos and never pass len(buf);
// output that does not fit is truncated silently.

// AppendString copies s into buf starting at pos and returns the
// advanced write position.
func AppendString(buf []byte, pos int, s string) int {
	if pos < 0 || pos >= len(buf) {
		return pos
	}
	return pos + copy(buf[pos:], s)
}

// Appendf formats into buf starting at pos and returns the advanced
// write position.
func Appendf(buf []byte, pos int, format string, args ...any) int {
	return AppendString(buf, pos, fmt.Sprintf(format, args...))
}

const (
	pageHeader = `<!DOCTYPE html><html><head><title>%s</title>` +
		`<meta name="viewport" content="width=device-width, initial-scale=1.0">` +
		`<link rel="stylesheet" href="/styles.css"></head><body>` +
		`<div class="title">%s</div>`
	pageTail  = `</body></html>`
	appButton = `<div class="app-button"><a href="%s">%s</a></div>`
)

// FormatHeader writes the page header with title into buf, starting at
// position 0, and returns the write position.
func FormatHeader(buf []byte, title string) int {
	return Appendf(buf, 0, pageHeader, title, title)
}

// FormatTail appends the page footer and returns the write position.
func FormatTail(buf []byte, pos int) int {
	return AppendString(buf, pos, pageTail)
}

// AppendButton appends a navigation button linking to path.
func AppendButton(buf []byte, pos int, path, label string) int {
	return Appendf(buf, pos, appButton, path, label)
}

// StylesCSS is the stylesheet registered by the root at /styles.css.
const StylesCSS = `body{font-family:sans-serif;background:#f4f4f4;margin:0}` +
	`.title{background:#356;color:#fff;padding:14px 18px;font-size:1.3em}` +
	`.app-button{margin:10px 18px}` +
	`.app-button a{display:block;padding:12px;background:#fff;` +
	`border:1px solid #ccd;border-radius:6px;color:#235;text-decoration:none}` +
	`.app-button a:hover{background:#eef}`

// EncodePath percent-escapes the reserved characters / ? = & + of path
// into buf in a single left-to-right pass, truncating at capacity.
// Returns the number of bytes written.
func EncodePath(buf []byte, path string) int {
	j := 0
	for i := 0; i < len(path) && j < len(buf); i++ {
		var esc string
		switch path[i] {
		case '/':
			esc = "%2F"
		case '?':
			esc = "%3F"
		case '=':
			esc = "%3D"
		case '&':
			esc = "%26"
		case '+':
			esc = "%20"
		default:
			buf[j] = path[i]
			j++
			continue
		}
		for k := 0; k < len(esc) && j < len(buf); k++ {
			buf[j] = esc[k]
			j++
		}
	}
	return j
}
