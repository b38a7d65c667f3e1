package parser

import "strings"

// ParseParams parses a pipe-separated parameter list such as
// "int:x | char:*name". An empty list yields nil.
func ParseParams(text string) []Param {
	var params []Param

	parts := strings.Split(text, "|")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var p Param
		if idx := strings.LastIndex(part, ":"); idx != -1 {
			p.Type = strings.TrimSpace(part[:idx])
			p.Name = strings.TrimSpace(part[idx+1:])
		} else {
			p.Name = part
		}

		if strings.HasPrefix(p.Name, "*") {
			p.Name = strings.TrimSpace(p.Name[1:])
			p.Type = strings.TrimSpace(p.Type + " *")
			p.IsPointer = true
		}

		params = append(params, p)
	}

	return params
}

// FormatParams renders params in the notation accepted by ParseParams.
func FormatParams(params []Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		typ, name := p.Type, p.Name
		if p.IsPointer {
			typ = strings.TrimSpace(strings.TrimSuffix(typ, "*"))
			name = "*" + name
		}
		if typ == "" && !p.IsPointer {
			parts = append(parts, name)
			continue
		}
		parts = append(parts, typ+":"+name)
	}
	return strings.Join(parts, " | ")
}
