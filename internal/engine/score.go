package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pentrail/pentrail/internal/model"
)

// maxScore normalizes the weighted sum to a percentage. The weights add up
// to slightly more, so the result is clamped at 100.
const maxScore = 15.0

// Score grades the security-header posture of a response on a 0..100 scale.
// Critical headers weigh most; modern cross-origin headers contribute
// fractionally. The same header map always produces the same score, and
// adding a header never lowers it.
func Score(headers map[string]string) int {
	has := func(name string) bool { return headers[name] != "" }

	score := 0.0
	if has("content-security-policy") {
		score += 3
	}
	if has("strict-transport-security") {
		score += 3
	}
	if has("x-frame-options") {
		score += 2
	}
	if has("x-content-type-options") {
		score += 1
	}
	if has("x-xss-protection") {
		score += 1
	}
	if has("referrer-policy") {
		score += 1
	}
	if has("permissions-policy") || has("feature-policy") {
		score += 1
	}
	if has("cross-origin-embedder-policy") {
		score += 0.5
	}
	if has("cross-origin-opener-policy") {
		score += 0.5
	}
	if has("cross-origin-resource-policy") {
		score += 0.5
	}
	if has("expect-ct") {
		score += 0.5
	}
	if has("public-key-pins") {
		score += 0.5
	}
	if has("x-permitted-cross-domain-policies") {
		score += 0.5
	}
	if has("x-download-options") {
		score += 0.5
	}

	pct := int(math.Round(score / maxScore * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}

var maxAgeRe = regexp.MustCompile(`max-age=(\d+)`)

// ParseHSTS parses a Strict-Transport-Security header value. An empty value
// yields a disabled policy.
func ParseHSTS(value string) model.HSTS {
	if value == "" {
		return model.HSTS{}
	}
	hsts := model.HSTS{
		Enabled:           true,
		Header:            value,
		IncludeSubDomains: strings.Contains(strings.ToLower(value), "includesubdomains"),
		Preload:           strings.Contains(strings.ToLower(value), "preload"),
	}
	if m := maxAgeRe.FindStringSubmatch(value); m != nil {
		if secs, err := strconv.Atoi(m[1]); err == nil {
			hsts.MaxAgeSeconds = secs
			hsts.MaxAgeDays = secs / (60 * 60 * 24)
		}
	}
	return hsts
}
