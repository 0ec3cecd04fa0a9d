package engine

import (
	"testing"

	"github.com/pentrail/pentrail/internal/model"
)

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"no headers", map[string]string{}, 0},
		{"nil map", nil, 0},
		{
			"csp only",
			map[string]string{"content-security-policy": "default-src 'self'"},
			20,
		},
		{
			"csp and hsts",
			map[string]string{
				"content-security-policy":   "default-src 'self'",
				"strict-transport-security": "max-age=31536000",
			},
			40,
		},
		{
			"csp hsts and frame options",
			map[string]string{
				"content-security-policy":   "default-src 'self'",
				"strict-transport-security": "max-age=31536000",
				"x-frame-options":           "DENY",
			},
			53,
		},
		{
			"feature-policy counts as permissions-policy",
			map[string]string{"feature-policy": "camera 'none'"},
			7,
		},
		{
			"empty header value does not score",
			map[string]string{"content-security-policy": ""},
			0,
		},
		{
			"everything",
			map[string]string{
				"content-security-policy":           "default-src 'self'",
				"strict-transport-security":         "max-age=63072000",
				"x-frame-options":                   "DENY",
				"x-content-type-options":            "nosniff",
				"x-xss-protection":                  "1; mode=block",
				"referrer-policy":                   "no-referrer",
				"permissions-policy":                "camera=()",
				"cross-origin-embedder-policy":      "require-corp",
				"cross-origin-opener-policy":        "same-origin",
				"cross-origin-resource-policy":      "same-origin",
				"expect-ct":                         "max-age=86400",
				"public-key-pins":                   "pin-sha256=\"x\"",
				"x-permitted-cross-domain-policies": "none",
				"x-download-options":                "noopen",
			},
			100,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tt.headers); got != tt.want {
				t.Fatalf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreStaysWithinBounds(t *testing.T) {
	t.Parallel()

	headers := map[string]string{}
	for _, name := range []string{
		"content-security-policy",
		"strict-transport-security",
		"x-frame-options",
		"x-content-type-options",
		"x-xss-protection",
		"referrer-policy",
		"permissions-policy",
		"feature-policy",
		"cross-origin-embedder-policy",
		"cross-origin-opener-policy",
		"cross-origin-resource-policy",
		"expect-ct",
		"public-key-pins",
		"x-permitted-cross-domain-policies",
		"x-download-options",
	} {
		headers[name] = "set"
		if got := Score(headers); got < 0 || got > 100 {
			t.Fatalf("Score() = %d after adding %q, outside [0,100]", got, name)
		}
	}
	if got := Score(headers); got != 100 {
		t.Fatalf("fully hardened Score() = %d, want 100", got)
	}
}

func TestScoreMonotonic(t *testing.T) {
	t.Parallel()

	headers := map[string]string{}
	prev := Score(headers)
	for _, name := range []string{
		"content-security-policy",
		"strict-transport-security",
		"x-frame-options",
		"x-content-type-options",
		"referrer-policy",
		"cross-origin-opener-policy",
	} {
		headers[name] = "set"
		got := Score(headers)
		if got < prev {
			t.Fatalf("adding %q lowered the score from %d to %d", name, prev, got)
		}
		prev = got
	}
}

func TestParseHSTS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  model.HSTS
	}{
		{"empty value is disabled", "", model.HSTS{}},
		{
			"full policy",
			"max-age=31536000; includeSubDomains; preload",
			model.HSTS{
				Enabled:           true,
				Header:            "max-age=31536000; includeSubDomains; preload",
				MaxAgeSeconds:     31536000,
				MaxAgeDays:        365,
				IncludeSubDomains: true,
				Preload:           true,
			},
		},
		{
			"short max-age",
			"max-age=86400",
			model.HSTS{
				Enabled:       true,
				Header:        "max-age=86400",
				MaxAgeSeconds: 86400,
				MaxAgeDays:    1,
			},
		},
		{
			"directives are case-insensitive",
			"max-age=63072000; INCLUDESUBDOMAINS; PRELOAD",
			model.HSTS{
				Enabled:           true,
				Header:            "max-age=63072000; INCLUDESUBDOMAINS; PRELOAD",
				MaxAgeSeconds:     63072000,
				MaxAgeDays:        730,
				IncludeSubDomains: true,
				Preload:           true,
			},
		},
		{
			"no max-age directive",
			"includeSubDomains",
			model.HSTS{
				Enabled:           true,
				Header:            "includeSubDomains",
				IncludeSubDomains: true,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseHSTS(tt.value)
			if got != tt.want {
				t.Fatalf("ParseHSTS(%q) = %+v, want %+v", tt.value, got, tt.want)
			}
		})
	}
}
