package versioning

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Reader extracts the raw API versions a request asks for. A request may
// carry none, one, or several (which negotiation treats as ambiguous unless
// they are all equal).
type Reader interface {
	Read(r *http.Request) []string
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(r *http.Request) []string

// Read calls f(r).
func (f ReaderFunc) Read(r *http.Request) []string { return f(r) }

// URLSegment reads the version from a chi route parameter such as
// "version" in "/v{version}/...".
func URLSegment(param string) Reader {
	return ReaderFunc(func(r *http.Request) []string {
		if v := chi.URLParam(r, param); v != "" {
			return []string{v}
		}
		return nil
	})
}

// QueryString reads versions from the named query parameters.
func QueryString(names ...string) Reader {
	return ReaderFunc(func(r *http.Request) []string {
		q := r.URL.Query()
		var out []string
		for _, name := range names {
			out = append(out, q[name]...)
		}
		return out
	})
}

// Header reads versions from the named request headers. Comma separated
// values are split.
func Header(names ...string) Reader {
	return ReaderFunc(func(r *http.Request) []string {
		var out []string
		for _, name := range names {
			for _, v := range r.Header.Values(name) {
				out = append(out, strings.Split(v, ",")...)
			}
		}
		return out
	})
}

// Combine reads from every reader in order.
func Combine(readers ...Reader) Reader {
	return ReaderFunc(func(r *http.Request) []string {
		var out []string
		for _, rd := range readers {
			out = append(out, rd.Read(r)...)
		}
		return out
	})
}
