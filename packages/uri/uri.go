// Package uri parses URIs into the parts that decide whether two URIs
// address the same resource.
package uri

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Parts is a URI reduced to its comparable components.
type Parts struct {
	Scheme string
	Host   string
	Port   int
	Path   string
	Query  map[string]string
}

// Parser turns a raw URI into Parts.
type Parser interface {
	Parse(raw string) (Parts, error)
}

// DefaultPorts maps schemes to the port implied when a URI names none.
var DefaultPorts = map[string]int{
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
	"ftp":   21,
}

// URLParser is the Parser built on net/url. Scheme and host are lower-cased,
// the path is cleaned with an empty path meaning "/", and a query key that
// repeats keeps its last value.
type URLParser struct{}

func (URLParser) Parse(raw string) (Parts, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Parts{}, fmt.Errorf("invalid uri %q: %w", raw, err)
	}

	p := Parts{
		Scheme: strings.ToLower(u.Scheme),
		Host:   strings.ToLower(u.Hostname()),
		Query:  make(map[string]string),
	}

	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return Parts{}, fmt.Errorf("invalid port in %q: %w", raw, err)
		}
		p.Port = n
	} else {
		p.Port = DefaultPorts[p.Scheme]
	}

	p.Path = u.Path
	if p.Path == "" {
		p.Path = "/"
	} else {
		trailing := strings.HasSuffix(p.Path, "/") && p.Path != "/"
		p.Path = path.Clean(p.Path)
		if trailing {
			p.Path += "/"
		}
	}

	for key, values := range u.Query() {
		if len(values) > 0 {
			p.Query[key] = values[len(values)-1]
		}
	}
	return p, nil
}

// Equal reports whether a and b name the same resource.
func (p Parts) Equal(o Parts) bool {
	if p.Scheme != o.Scheme || p.Host != o.Host || p.Port != o.Port || p.Path != o.Path {
		return false
	}
	if len(p.Query) != len(o.Query) {
		return false
	}
	for k, v := range p.Query {
		if ov, ok := o.Query[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (p Parts) String() string {
	q := url.Values{}
	for k, v := range p.Query {
		q.Set(k, v)
	}
	s := fmt.Sprintf("%s://%s:%d%s", p.Scheme, p.Host, p.Port, p.Path)
	if len(q) > 0 {
		s += "?" + q.Encode()
	}
	return s
}
