package tool

import (
	"strings"
)

// Metadata travels with a script as a block comment at its head:
//
//	--[[
//	id: pencil
//	label: Pencil
//	]]
//	function press() ... end
const (
	metaOpen  = "--[["
	metaClose = "]]"
)

// SplitMeta separates a leading metadata comment from the script. Leading
// blank lines before the block are allowed. ok is false when the script
// does not start with a metadata block; code is then src unchanged.
func SplitMeta(src string) (meta, code string, ok bool) {
	rest := strings.TrimLeft(src, " \t\r\n")
	if !strings.HasPrefix(rest, metaOpen) {
		return "", src, false
	}
	body := rest[len(metaOpen):]
	nl := strings.IndexByte(body, '\n')
	if nl < 0 || strings.TrimSpace(body[:nl]) != "" {
		return "", src, false
	}
	body = body[nl+1:]

	end := -1
	for off := 0; off < len(body); {
		line := body[off:]
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		if strings.TrimSpace(line) == metaClose {
			end = off
			break
		}
		off += len(line) + 1
	}
	if end < 0 {
		return "", src, false
	}

	meta = body[:end]
	code = body[end:]
	if i := strings.IndexByte(code, '\n'); i >= 0 {
		code = code[i+1:]
	} else {
		code = ""
	}
	return meta, code, true
}

// JoinMeta puts meta in front of code as a metadata block.
func JoinMeta(meta, code string) string {
	if strings.TrimSpace(meta) == "" {
		return code
	}
	var sb strings.Builder
	sb.WriteString(metaOpen)
	sb.WriteByte('\n')
	sb.WriteString(meta)
	if !strings.HasSuffix(meta, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString(metaClose)
	sb.WriteByte('\n')
	sb.WriteString(code)
	return sb.String()
}
