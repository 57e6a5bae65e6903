// Package examconfig turns the exam page's URL query into an immutable Config.
package examconfig

import (
	"net/url"
	"strings"
)

type UIMode string

const (
	UIPractice UIMode = "practice"
	UIExam     UIMode = "exam"
)

type SelectionMode string

const (
	SelectionPast   SelectionMode = "past"
	SelectionRandom SelectionMode = "random"
)

// Config is the exam page configuration. Values are taken as given: an
// unknown ui or mode is kept verbatim rather than rejected.
type Config struct {
	UI            UIMode
	Mode          SelectionMode // empty when absent
	Date          string
	Start         string
	End           string
	CertName      string
	CertificateID string
}

// Parse reads raw as a query string. A leading '?', a path or a full URL is
// accepted; a bare query may itself contain '?'. Parse never fails:
// malformed pairs are skipped and missing keys default to "" (ui defaults
// to practice).
func Parse(raw string) Config {
	// ParseQuery keeps every well-formed pair even when it reports an error.
	q, _ := url.ParseQuery(rawQuery(raw))

	cfg := Config{
		UI:            UIMode(q.Get("ui")),
		Mode:          SelectionMode(q.Get("mode")),
		Date:          q.Get("date"),
		Start:         q.Get("start"),
		End:           q.Get("end"),
		CertName:      q.Get("certName"),
		CertificateID: q.Get("certificateId"),
	}
	if cfg.UI == "" {
		cfg.UI = UIPractice
	}
	return cfg
}

// rawQuery strips a URL or path prefix and any fragment from raw.
func rawQuery(raw string) string {
	switch {
	case strings.HasPrefix(raw, "?"):
		raw = raw[1:]
	case strings.Contains(raw, "://"):
		if u, err := url.Parse(raw); err == nil {
			return u.RawQuery
		}
		fallthrough
	case strings.HasPrefix(raw, "/"):
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			raw = raw[i+1:]
		} else {
			return ""
		}
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

// Encode renders c back into a query string, omitting empty values.
func (c Config) Encode() string {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("ui", string(c.UI))
	set("mode", string(c.Mode))
	set("date", c.Date)
	set("start", c.Start)
	set("end", c.End)
	set("certName", c.CertName)
	set("certificateId", c.CertificateID)
	return q.Encode()
}

func (c Config) IsExam() bool   { return c.UI == UIExam }
func (c Config) IsRandom() bool { return c.Mode == SelectionRandom }
