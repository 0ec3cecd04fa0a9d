// Package utils holds target URL normalization shared by the CLI, the HTTP
// API, and the collector.
package utils

import (
	"net"
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeOptions controls optional normalization policies.
type NormalizeOptions struct {
	DropTrackingParams bool   // remove common tracking params (utm_*, gclid, fbclid, ...)
	StripTrailingSlash bool   // treat /a and /a/ the same by removing the trailing slash (except root "/")
	DefaultScheme      string // if empty, require a scheme in the input; otherwise assume this scheme
}

// Common tracking params to strip when DropTrackingParams is true.
var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {}, "utm_content": {},
	"gclid": {}, "fbclid": {}, "mc_cid": {}, "mc_eid": {},
}

// NormalizeTarget canonicalizes a user-supplied analysis target with the
// defaults the rest of the program expects: schemeless input is assumed
// https, tracking params are dropped, trailing slashes are stripped.
func NormalizeTarget(raw string) (string, error) {
	return Normalize(raw, NormalizeOptions{
		DropTrackingParams: true,
		StripTrailingSlash: true,
		DefaultScheme:      "https",
	})
}

// Normalize returns a deterministic canonical URL string or an error. Hosts
// are lowercased and converted from IDN to punycode, default ports dropped,
// credentials removed, paths cleaned, and query params sorted.
func Normalize(raw string, opts NormalizeOptions) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &url.Error{Op: "normalize", URL: raw, Err: ErrEmptyURL}
	}

	if opts.DefaultScheme != "" && !strings.Contains(raw, "://") {
		raw = opts.DefaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &url.Error{Op: "normalize", URL: raw, Err: ErrBadScheme}
	}
	if u.Host == "" {
		return "", &url.Error{Op: "normalize", URL: raw, Err: ErrMissingHost}
	}

	u.Scheme = strings.ToLower(u.Scheme)

	// Lowercase host and convert IDN -> punycode
	host := strings.ToLower(u.Hostname())
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}

	// Preserve non-default port only
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		u.Host = host
	} else if port != "" {
		u.Host = net.JoinHostPort(host, port)
	} else {
		u.Host = host
	}

	u.User = nil
	u.Fragment = ""

	cleanPath := path.Clean(u.Path)
	if cleanPath == "." {
		cleanPath = "/"
	}
	// path.Clean drops trailing slashes; restore one when stripping is off.
	if !opts.StripTrailingSlash && strings.HasSuffix(u.Path, "/") && cleanPath != "/" {
		cleanPath += "/"
	}
	u.Path = cleanPath

	q := u.Query()
	if opts.DropTrackingParams {
		for k := range q {
			if _, ok := trackingParams[strings.ToLower(k)]; ok {
				q.Del(k)
			}
		}
	}

	// Sort keys and values for deterministic encoding
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := url.Values{}
	for _, k := range keys {
		values := q[k]
		sort.Strings(values)
		for _, v := range values {
			ordered.Add(k, v)
		}
	}
	u.RawQuery = ordered.Encode()

	return u.String(), nil
}

// SameHost reports whether two URLs point at the same hostname.
func SameHost(a, b string) bool {
	ua, errA := url.Parse(a)
	ub, errB := url.Parse(b)
	if errA != nil || errB != nil {
		return false
	}
	return strings.EqualFold(ua.Hostname(), ub.Hostname())
}

// Errors
var (
	ErrEmptyURL    = &errStr{"empty url"}
	ErrMissingHost = &errStr{"missing host"}
	ErrBadScheme   = &errStr{"scheme must be http or https"}
)

type errStr struct{ s string }

func (e *errStr) Error() string { return e.s }
