// Package versioning negotiates the API version of each request and
// reports the versions the service supports.
//
// Versions are read from the "/v{version}/" route segment by default and
// may also be read from a query parameter or header. A request without a
// version is served by the default version when AssumeDefault is set.
// Failures are returned as *Error and rendered by the error classifier.
package versioning

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/jsamuelsen11/core-api/internal/adapters/http/dto"
)

// Response headers advertising the service's versions.
const (
	HeaderSupportedVersions  = "api-supported-versions"
	HeaderDeprecatedVersions = "api-deprecated-versions"
)

var errEmptyVersion = errors.New("empty api version")

// Options configures a Negotiator.
type Options struct {
	// Default is the version assumed when a request specifies none.
	Default string
	// Supported lists the versions served. Default must be one of them.
	Supported []string
	// Deprecated lists versions that are still served but advertised as
	// deprecated.
	Deprecated []string
	// AssumeDefault serves requests without a version with Default instead
	// of rejecting them.
	AssumeDefault bool
	// Report adds the supported and deprecated version headers to every
	// response that passes through the negotiator.
	Report bool
	// Reader extracts requested versions. Defaults to URLSegment("version").
	Reader Reader
}

// Negotiator selects the API version for each request. It is immutable
// after construction and safe for concurrent use.
type Negotiator struct {
	def           *version.Version
	supported     version.Collection
	deprecated    version.Collection
	assumeDefault bool
	report        bool
	reader        Reader
}

// New validates opts and creates a Negotiator.
func New(opts Options) (*Negotiator, error) {
	def, err := Parse(opts.Default)
	if err != nil {
		return nil, fmt.Errorf("parsing default version %q: %w", opts.Default, err)
	}

	supported, err := parseAll(opts.Supported)
	if err != nil {
		return nil, fmt.Errorf("parsing supported versions: %w", err)
	}
	deprecated, err := parseAll(opts.Deprecated)
	if err != nil {
		return nil, fmt.Errorf("parsing deprecated versions: %w", err)
	}

	n := &Negotiator{
		def:           def,
		supported:     supported,
		deprecated:    deprecated,
		assumeDefault: opts.AssumeDefault,
		report:        opts.Report,
		reader:        opts.Reader,
	}
	if n.reader == nil {
		n.reader = URLSegment("version")
	}
	if !n.isServed(def) {
		return nil, fmt.Errorf("default version %s is not a supported version", Format(def))
	}

	return n, nil
}

// Parse parses a version such as "1", "1.0", "v2" or "2.0-beta".
func Parse(raw string) (*version.Version, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
	if s == "" {
		return nil, errEmptyVersion
	}
	return version.NewVersion(s)
}

// Format renders v as "major.minor", with "-prerelease" when present.
func Format(v *version.Version) string {
	segs := v.Segments()
	out := fmt.Sprintf("%d.%d", segs[0], segs[1])
	if pre := v.Prerelease(); pre != "" {
		out += "-" + pre
	}
	return out
}

// Negotiate returns the version r targets.
func (n *Negotiator) Negotiate(r *http.Request) (*version.Version, error) {
	var (
		requested []*version.Version
		raws      []string
	)
	for _, raw := range n.reader.Read(r) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		v, err := Parse(raw)
		if err != nil {
			return nil, newError(CodeInvalid,
				"The HTTP resource that matches the request URI '%s' does not support the API version '%s'.",
				r.URL.RequestURI(), raw)
		}
		if !containsEqual(requested, v) {
			requested = append(requested, v)
			raws = append(raws, raw)
		}
	}

	switch len(requested) {
	case 0:
		if n.assumeDefault {
			return n.def, nil
		}
		return nil, newError(CodeUnspecified, "An API version is required, but was not specified.")
	case 1:
	default:
		return nil, newError(CodeAmbiguous,
			"The following API versions were requested: %s. At most, only a single API version may be specified. "+
				"Please update the intended API version and try again.",
			strings.Join(raws, ", "))
	}

	v := requested[0]
	if !n.isServed(v) {
		return nil, newError(CodeUnsupported,
			"The HTTP resource that matches the request URI '%s' does not support the API version '%s'.",
			r.URL.RequestURI(), raws[0])
	}
	return v, nil
}

// Middleware negotiates the version of each request. On success the
// version is stored in the request context; on failure the *Error is
// handed to errs and the handler never runs.
//
// The middleware must be mounted inside the chi route that declares the
// version parameter so that URLSegment can see it.
func (n *Negotiator) Middleware(errs dto.ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n.report {
				n.ReportVersions(w.Header())
			}

			v, err := n.Negotiate(r)
			if err != nil {
				errs.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithVersion(r.Context(), v)))
		})
	}
}

// ReportVersions sets the supported and deprecated version headers.
func (n *Negotiator) ReportVersions(h http.Header) {
	var supported []string
	for _, v := range n.supported {
		if !containsEqual(n.deprecated, v) {
			supported = append(supported, Format(v))
		}
	}
	if len(supported) > 0 {
		h.Set(HeaderSupportedVersions, strings.Join(supported, ", "))
	}

	if len(n.deprecated) > 0 {
		deprecated := make([]string, 0, len(n.deprecated))
		for _, v := range n.deprecated {
			deprecated = append(deprecated, Format(v))
		}
		h.Set(HeaderDeprecatedVersions, strings.Join(deprecated, ", "))
	}
}

// Default returns the version assumed for requests that specify none.
func (n *Negotiator) Default() *version.Version { return n.def }

func (n *Negotiator) isServed(v *version.Version) bool {
	return containsEqual(n.supported, v) || containsEqual(n.deprecated, v)
}

type versionKey struct{}

// WithVersion returns a context carrying the negotiated version.
func WithVersion(ctx context.Context, v *version.Version) context.Context {
	return context.WithValue(ctx, versionKey{}, v)
}

// FromContext returns the negotiated version, if any.
func FromContext(ctx context.Context) (*version.Version, bool) {
	v, ok := ctx.Value(versionKey{}).(*version.Version)
	return v, ok
}

func parseAll(raws []string) (version.Collection, error) {
	out := make(version.Collection, 0, len(raws))
	for _, raw := range raws {
		v, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", raw, err)
		}
		if !containsEqual(out, v) {
			out = append(out, v)
		}
	}
	sort.Sort(out)
	return out, nil
}

func containsEqual(vs []*version.Version, v *version.Version) bool {
	return slices.ContainsFunc(vs, v.Equal)
}
