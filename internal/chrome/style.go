package chrome

import "strings"

type Declaration struct {
	Property string
	Value    string
}

// Declarations is an inline style in source order.
type Declarations []Declaration

// ParseStyle splits an inline style attribute into declarations. Entries
// without a colon are dropped; property names are lower-cased.
func ParseStyle(s string) Declarations {
	var out Declarations
	for _, part := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: strings.TrimSpace(val)})
	}
	return out
}

// Get returns the value of prop.
func (d Declarations) Get(prop string) (string, bool) {
	for _, decl := range d {
		if decl.Property == prop {
			return decl.Value, true
		}
	}
	return "", false
}

// Set returns d with prop set to value, replacing an existing entry in place
// or appending a new one.
func (d Declarations) Set(prop, value string) Declarations {
	out := make(Declarations, len(d), len(d)+1)
	copy(out, d)
	for i := range out {
		if out[i].Property == prop {
			out[i].Value = value
			return out
		}
	}
	return append(out, Declaration{Property: prop, Value: value})
}

func (d Declarations) String() string {
	parts := make([]string, len(d))
	for i, decl := range d {
		parts[i] = decl.Property + ": " + decl.Value + ";"
	}
	return strings.Join(parts, " ")
}
