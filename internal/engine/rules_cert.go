package engine

import "github.com/pentrail/pentrail/internal/model"

// InsecureTransportSignal is recorded by the collector when a certificate
// analysis targets a plain-HTTP URL.
const InsecureTransportSignal = "Insecure Transport (HTTP)"

func certOnly() []model.AnalysisKind {
	return []model.AnalysisKind{model.KindCertificate}
}

func overTLS(bag *model.IndicatorBag) bool {
	return !signalContains(bag, model.CategorySecurity, InsecureTransportSignal)
}

// certificateRules covers the TLS posture battery: transport, HSTS quality,
// pinning and certificate transparency.
func certificateRules() []Rule {
	return []Rule{
		{
			Name:     "insecure-transport",
			Priority: model.PriorityHigh,
			Kinds:    certOnly(),
			When:     when(model.CategorySecurity, InsecureTransportSignal),
			Build: static(model.Recommendation{
				Category:      "Transport Security",
				Risk:          "Insecure Communication",
				Description:   "Site does not use HTTPS - all traffic unencrypted",
				Technique:     "Test HTTP endpoints, check for sensitive data transmission",
				Extensions:    []string{"SSL Kill Switch 2", "HTTP History Analyzer"},
				ManualTesting: "Check if sensitive operations are performed over HTTP",
			}),
		},
		{
			Name:     "cert-hsts-missing",
			Priority: model.PriorityMedium,
			Kinds:    certOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return overTLS(bag) && !hasHeader(bag, "strict-transport-security")
			},
			Build: static(model.Recommendation{
				Category:      "HSTS Configuration",
				Risk:          "SSL Stripping",
				Description:   "No HSTS header detected - SSL stripping attacks possible",
				Technique:     "Test mixed content, HTTP to HTTPS redirects, SSL stripping",
				Extensions:    []string{"SSL Kill Switch 2", "Mixed Content Scanner"},
				ManualTesting: "Try accessing HTTP version of pages, check redirects",
			}),
		},
		{
			Name:     "hsts-short-max-age",
			Priority: model.PriorityLow,
			Kinds:    certOnly(),
			When: func(bag *model.IndicatorBag) bool {
				if !overTLS(bag) {
					return false
				}
				hsts := ParseHSTS(header(bag, "strict-transport-security"))
				return hsts.Enabled && hsts.MaxAgeSeconds > 0 && hsts.MaxAgeDays < 365
			},
			Build: static(model.Recommendation{
				Category:      "HSTS Configuration",
				Risk:          "Weak HSTS Policy",
				Description:   "HSTS max-age is less than recommended 1 year",
				Technique:     "Test HSTS policy enforcement over time",
				ManualTesting: "Check HSTS header persistence and enforcement",
			}),
		},
		{
			Name:     "hsts-no-subdomains",
			Priority: model.PriorityLow,
			Kinds:    certOnly(),
			When: func(bag *model.IndicatorBag) bool {
				if !overTLS(bag) {
					return false
				}
				hsts := ParseHSTS(header(bag, "strict-transport-security"))
				return hsts.Enabled && !hsts.IncludeSubDomains
			},
			Build: static(model.Recommendation{
				Category:      "HSTS Configuration",
				Risk:          "Subdomain SSL Stripping",
				Description:   "HSTS does not include subdomains",
				Technique:     "Test subdomain enumeration and SSL stripping on subdomains",
				Extensions:    []string{"Subdomain Finder", "SSL Scanner"},
				ManualTesting: "Enumerate subdomains and test their SSL configuration",
			}),
		},
		{
			Name:     "no-certificate-pinning",
			Priority: model.PriorityLow,
			Kinds:    certOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return overTLS(bag) && !hasHeader(bag, "public-key-pins", "public-key-pins-report-only")
			},
			Build: static(model.Recommendation{
				Category:      "Certificate Pinning",
				Risk:          "Certificate Substitution",
				Description:   "No certificate pinning detected",
				Technique:     "Test with custom certificates, certificate substitution attacks",
				Extensions:    []string{"Certificate Pinning Bypass", "Custom Certificate Manager"},
				ManualTesting: "Test with self-signed certificates",
			}),
		},
		{
			Name:     "no-expect-ct",
			Priority: model.PriorityLow,
			Kinds:    certOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return overTLS(bag) && !hasHeader(bag, "expect-ct")
			},
			Build: static(model.Recommendation{
				Category:      "Certificate Transparency",
				Risk:          "Certificate Monitoring",
				Description:   "No Certificate Transparency monitoring",
				Technique:     "Check certificate logs, test certificate substitution",
				ManualTesting: "Verify certificate in CT logs",
			}),
		},
	}
}
