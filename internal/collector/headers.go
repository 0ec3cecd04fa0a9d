package collector

import (
	"strings"

	"github.com/pentrail/pentrail/internal/model"
)

// deriveServerInfo extracts the server fingerprint from response headers.
func deriveServerInfo(headers map[string]string) *model.ServerInfo {
	info := &model.ServerInfo{
		Server:     headers["server"],
		PoweredBy:  headers["x-powered-by"],
		Technology: headers["x-technology"],
		Generator:  headers["x-generator"],
		Framework:  headers["x-framework"],
		ASPNet:     headers["x-aspnet-version"],
		ASPNetMvc:  headers["x-aspnetmvc-version"],
		Runtime:    headers["x-runtime"],
	}
	if info.Server == "" {
		info.Server = "Unknown"
	}
	if sm := headers["sourcemap"]; sm != "" {
		info.SourceMap = sm
	} else {
		info.SourceMap = headers["x-sourcemap"]
	}
	for _, h := range []string{"x-served-by", "x-cache", "x-varnish"} {
		if headers[h] != "" {
			info.LoadBalancer = headers[h]
			break
		}
	}
	info.CDN = cdnFromHeaders(headers)
	info.WebServer = webServerFromHeader(headers["server"])
	info.AppServer = appServerFromHeader(headers["x-powered-by"])
	return info
}

func cdnFromHeaders(headers map[string]string) string {
	var cdns []string
	if headers["cf-ray"] != "" {
		cdns = append(cdns, "Cloudflare")
	}
	if headers["x-amz-cf-id"] != "" {
		cdns = append(cdns, "Amazon CloudFront")
	}
	if headers["x-azure-ref"] != "" {
		cdns = append(cdns, "Azure CDN")
	}
	if headers["x-fastly-request-id"] != "" {
		cdns = append(cdns, "Fastly")
	}
	if strings.Contains(strings.ToLower(headers["x-cache"]), "maxcdn") {
		cdns = append(cdns, "MaxCDN")
	}
	if strings.Contains(strings.ToLower(headers["x-served-by"]), "cache") {
		cdns = append(cdns, "Varnish Cache")
	}
	return strings.Join(cdns, ", ")
}

func webServerFromHeader(server string) string {
	if server == "" {
		return ""
	}
	var names []string
	lower := strings.ToLower(server)
	for _, probe := range []struct{ needle, name string }{
		{"nginx", "Nginx"},
		{"apache", "Apache"},
		{"iis", "Microsoft IIS"},
		{"litespeed", "LiteSpeed"},
		{"caddy", "Caddy"},
		{"traefik", "Traefik"},
	} {
		if strings.Contains(lower, probe.needle) {
			names = append(names, probe.name)
		}
	}
	if len(names) == 0 {
		return server
	}
	return strings.Join(names, ", ")
}

func appServerFromHeader(poweredBy string) string {
	if poweredBy == "" {
		return ""
	}
	var names []string
	lower := strings.ToLower(poweredBy)
	for _, probe := range []struct{ needle, name string }{
		{"php", "PHP"},
		{"asp.net", "ASP.NET"},
		{"express", "Express.js"},
		{"django", "Django"},
		{"rails", "Ruby on Rails"},
	} {
		if strings.Contains(lower, probe.needle) {
			names = append(names, probe.name)
		}
	}
	return strings.Join(names, ", ")
}

// deriveCookieReport inspects every Set-Cookie value for missing security
// attributes. Issues are deduplicated: five cookies without Secure still
// report the finding once.
func deriveCookieReport(headers map[string]string) *model.CookieReport {
	raw := headers["set-cookie"]
	if raw == "" {
		return &model.CookieReport{}
	}
	cookies := strings.Split(raw, "\n")

	seen := map[string]struct{}{}
	var issues []string
	addIssue := func(issue string) {
		if _, ok := seen[issue]; ok {
			return
		}
		seen[issue] = struct{}{}
		issues = append(issues, issue)
	}

	for _, cookie := range cookies {
		lower := strings.ToLower(cookie)
		if !strings.Contains(lower, "secure") {
			addIssue("Cookie without Secure flag detected")
		}
		if !strings.Contains(lower, "httponly") {
			addIssue("Cookie without HttpOnly flag detected")
		}
		if !strings.Contains(lower, "samesite") {
			addIssue("Cookie without SameSite attribute detected")
		}
		if strings.Contains(lower, "samesite=none") {
			addIssue("Cookie with SameSite=None detected (potential CSRF risk)")
		}
	}

	return &model.CookieReport{
		Count:   len(cookies),
		Cookies: cookies,
		Issues:  issues,
	}
}

var sensitiveHeaders = []string{
	"server", "x-powered-by", "x-aspnet-version", "x-aspnetmvc-version",
	"x-generator", "x-runtime", "x-version", "x-framework",
}

var debugHeaders = []string{
	"x-debug", "x-debug-token", "x-drupal-cache", "x-drupal-dynamic-cache",
	"x-cache-debug", "x-varnish-debug", "x-debug-mode",
}

// deriveDisclosures lists headers that leak implementation details.
func deriveDisclosures(headers map[string]string) []model.Disclosure {
	var out []model.Disclosure
	for _, name := range sensitiveHeaders {
		if v := headers[name]; v != "" {
			subject := strings.ReplaceAll(strings.TrimPrefix(name, "x-"), "-", " ")
			out = append(out, model.Disclosure{
				Header:      name,
				Value:       v,
				Risk:        "Information disclosure",
				Description: "Reveals " + subject + " information",
			})
		}
	}
	for _, name := range debugHeaders {
		if v := headers[name]; v != "" {
			out = append(out, model.Disclosure{
				Header:      name,
				Value:       v,
				Risk:        "Debug information exposure",
				Description: "Debug headers should not be present in production",
			})
		}
	}
	if v := headers["sourcemap"]; v == "" {
		v = headers["x-sourcemap"]
		if v != "" {
			out = append(out, sourceMapDisclosure(v))
		}
	} else {
		out = append(out, sourceMapDisclosure(v))
	}
	return out
}

func sourceMapDisclosure(value string) model.Disclosure {
	return model.Disclosure{
		Header:      "sourcemap",
		Value:       value,
		Risk:        "Source code exposure",
		Description: "Source maps can reveal application structure and code",
	}
}

// deriveCacheReport summarizes caching behavior and flags risky configs.
func deriveCacheReport(headers map[string]string) *model.CacheReport {
	report := &model.CacheReport{
		CacheControl: headers["cache-control"],
		Expires:      headers["expires"],
		ETag:         headers["etag"],
		LastModified: headers["last-modified"],
		Pragma:       headers["pragma"],
		Vary:         headers["vary"],
	}

	if report.CacheControl == "" {
		report.Issues = append(report.Issues, "No Cache-Control header found")
	} else {
		cc := strings.ToLower(report.CacheControl)
		if strings.Contains(cc, "public") && !strings.Contains(cc, "max-age") {
			report.Issues = append(report.Issues, "Public cache without max-age may cause indefinite caching")
		}
		if strings.Contains(cc, "no-cache") && strings.Contains(cc, "no-store") {
			report.Issues = append(report.Issues, "Both no-cache and no-store present (redundant)")
		}
	}
	if strings.Contains(strings.ToLower(report.Vary), "user-agent") {
		report.Issues = append(report.Issues, "Caching based on User-Agent header (potential cache poisoning)")
	}
	return report
}
