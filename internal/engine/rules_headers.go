package engine

import (
	"fmt"
	"strings"

	"github.com/pentrail/pentrail/internal/model"
)

func headersOnly() []model.AnalysisKind {
	return []model.AnalysisKind{model.KindHeaders}
}

// cookieValues splits the joined set-cookie header back into individual
// cookies.
func cookieValues(bag *model.IndicatorBag) []string {
	raw := header(bag, "set-cookie")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

func anyCookieMissing(bag *model.IndicatorBag, attr string) bool {
	for _, c := range cookieValues(bag) {
		if !strings.Contains(strings.ToLower(c), attr) {
			return true
		}
	}
	return false
}

// headerRules is the response-header battery. Risk assessments run first,
// then the individual security headers, server fingerprinting, cookies,
// disclosure and caching checks.
func headerRules() []Rule {
	return []Rule{
		{
			Name:     "sql-injection-risk",
			Priority: model.PriorityHigh,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return headerContains(bag, "x-powered-by", "php") ||
					headerContains(bag, "server", "apache") ||
					headerContains(bag, "server", "nginx") ||
					hasHeader(bag, "x-debug", "x-error", "x-sql-error")
			},
			Build: static(model.Recommendation{
				Category:      "SQL Injection",
				Risk:          "Data Breach / Remote Code Execution",
				Description:   "Application shows indicators of SQL injection vulnerability",
				Technique:     "Test with SQL injection payloads: ' OR 1=1--, UNION SELECT, time-based blind SQLi",
				Extensions:    []string{"SQLiPy", "SQL Injection Check", "Hackvertor", "CO2"},
				ScannerConfig: "Enable all SQL injection checks, configure custom insertion points for all parameters",
				ManualTesting: "Test: ?id=1' OR 1=1--, ?search=admin' UNION SELECT user,password FROM users--",
			}),
		},
		{
			Name:     "advanced-xss-risk",
			Priority: model.PriorityHigh,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return header(bag, "x-xss-protection") == "0" ||
					!hasHeader(bag, "x-content-type-options") ||
					headerContains(bag, "content-type", "text/html") ||
					headerContains(bag, "x-powered-by", "express") ||
					headerContains(bag, "server", "node")
			},
			Build: static(model.Recommendation{
				Category:      "Advanced XSS",
				Risk:          "Account Takeover / Data Theft",
				Description:   "Multiple XSS attack vectors detected",
				Technique:     "Test: DOM XSS, reflected XSS, stored XSS, mutation XSS, client-side template injection",
				Extensions:    []string{"DOM Invader", "XSS Validator", "Reflected Parameters", "XSStrike"},
				ScannerConfig: "Enable DOM-based XSS, stored XSS checks, JavaScript analysis",
				ManualTesting: "Payloads: <img src=x onerror=alert(1)>, javascript:alert(document.domain), ${7*7}",
			}),
		},
		{
			Name:     "authentication-risk",
			Priority: model.PriorityMedium,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				if hasHeader(bag, "www-authenticate", "authorization", "x-auth-token", "x-jwt-token") {
					return true
				}
				sc := strings.ToLower(header(bag, "set-cookie"))
				return sc == "" || !strings.Contains(sc, "secure") || !strings.Contains(sc, "httponly")
			},
			Build: static(model.Recommendation{
				Category:      "Authentication Bypass",
				Risk:          "Privilege Escalation / Account Takeover",
				Description:   "Authentication mechanisms may be vulnerable to bypass",
				Technique:     "Test: JWT attacks, session fixation, password reset poisoning, OAuth flaws",
				Extensions:    []string{"JWT Editor", "AuthMatrix", "Autorize", "Session Timeout Test"},
				ScannerConfig: "Enable authentication tests, session management checks",
				ManualTesting: "Test: /admin, /api/users, password reset tampering, JWT manipulation",
			}),
		},
		{
			Name:     "api-security-risk",
			Priority: model.PriorityHigh,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return headerContains(bag, "content-type", "application/json") ||
					headerContains(bag, "content-type", "application/graphql") ||
					hasHeader(bag, "x-api-version", "x-ratelimit-limit", "x-graphql-query")
			},
			Build: static(model.Recommendation{
				Category:      "API Security",
				Risk:          "Data Breach / Business Logic Bypass",
				Description:   "API endpoints detected with potential security issues",
				Technique:     "Test: GraphQL introspection, REST API enumeration, mass assignment, NoSQL injection",
				Extensions:    []string{"GraphQL Raider", "API Security Audit", "JSON Web Tokens", "Param Miner"},
				ScannerConfig: "Enable API-specific scanning, GraphQL introspection, JSON parameter mining",
				ManualTesting: "Test: /api/v1/users, GraphQL {__schema}, HTTP method override, mass assignment",
			}),
		},
		{
			Name:     "access-control-risk",
			Priority: model.PriorityMedium,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return hasHeader(bag, "x-admin-panel", "x-management-interface", "x-upload-limit") ||
					headerContains(bag, "server", "tomcat") ||
					headerContains(bag, "server", "jetty") ||
					header(bag, "access-control-allow-origin") == "*" ||
					header(bag, "access-control-allow-credentials") == "true" ||
					headerContains(bag, "content-type", "multipart/form-data")
			},
			Build: static(model.Recommendation{
				Category:      "Access Control",
				Risk:          "Privilege Escalation / Data Access",
				Description:   "Broken access control vulnerabilities possible",
				Technique:     "Test: horizontal/vertical privilege escalation, directory traversal, file upload bypass",
				Extensions:    []string{"Autorize", "Upload Scanner", "Directory Traversal Check", "Bypass WAF"},
				ScannerConfig: "Enable access control tests, file upload checks, traversal detection",
				ManualTesting: "Test: ../../../etc/passwd, user ID manipulation, role-based access bypass",
			}),
		},
		{
			Name:     "csp-missing",
			Priority: model.PriorityHigh,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return !hasHeader(bag, "content-security-policy")
			},
			Build: static(model.Recommendation{
				Category:      "Content Security Policy",
				Risk:          "XSS/Code Injection",
				Description:   "No CSP header detected - high risk of XSS attacks",
				Technique:     "Use Burp Scanner with XSS payloads, test script injection in all parameters",
				Extensions:    []string{"Reflected Parameters", "XSS Validator", "CSP Bypass"},
				ScannerConfig: "Enable all XSS checks, increase payload variations",
			}),
		},
		{
			Name:     "csp-unsafe-inline",
			Priority: model.PriorityMedium,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return headerContains(bag, "content-security-policy", "'unsafe-inline'")
			},
			Build: static(model.Recommendation{
				Category:      "Content Security Policy",
				Risk:          "XSS/Script Injection",
				Description:   "CSP allows 'unsafe-inline' - XSS bypass possible",
				Technique:     "Test inline script injection, use CSP Evaluator extension",
				Extensions:    []string{"CSP Bypass", "XSS Validator"},
				ScannerConfig: "Focus on DOM-based XSS payloads",
			}),
		},
		{
			Name:     "csp-unsafe-eval",
			Priority: model.PriorityMedium,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return headerContains(bag, "content-security-policy", "'unsafe-eval'")
			},
			Build: static(model.Recommendation{
				Category:      "Content Security Policy",
				Risk:          "Code Injection",
				Description:   "CSP allows 'unsafe-eval' - code execution possible",
				Technique:     "Test eval() injection, JSON injection, template injection",
				Extensions:    []string{"JSON Beautifier", "Template Injector"},
				ScannerConfig: "Enable template injection checks",
			}),
		},
		{
			Name:     "hsts-missing",
			Priority: model.PriorityMedium,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return !hasHeader(bag, "strict-transport-security")
			},
			Build: static(model.Recommendation{
				Category:      "Transport Security",
				Risk:          "Man-in-the-Middle",
				Description:   "No HSTS header - SSL stripping attacks possible",
				Technique:     "Test HTTP endpoints, check for mixed content, use SSL Kill Switch",
				Extensions:    []string{"SSL Kill Switch 2", "Certificate Pinning Bypass"},
				ScannerConfig: "Test both HTTP and HTTPS endpoints",
			}),
		},
		{
			Name:     "clickjacking-unprotected",
			Priority: model.PriorityMedium,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return !hasHeader(bag, "x-frame-options") &&
					!headerContains(bag, "content-security-policy", "frame-ancestors")
			},
			Build: static(model.Recommendation{
				Category:      "Clickjacking",
				Risk:          "UI Redressing",
				Description:   "No clickjacking protection detected",
				Technique:     "Create iframe PoC, test X-Frame-Options bypass techniques",
				Extensions:    []string{"Clickjacking PoC Generator"},
				ManualTesting: "Create HTML page with iframe pointing to target",
			}),
		},
		{
			Name:     "mime-sniffing",
			Priority: model.PriorityLow,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return !hasHeader(bag, "x-content-type-options")
			},
			Build: static(model.Recommendation{
				Category:      "MIME Security",
				Risk:          "MIME Confusion",
				Description:   "No X-Content-Type-Options header - MIME sniffing possible",
				Technique:     "Upload files with mismatched MIME types, test polyglot files",
				Extensions:    []string{"Upload Scanner", "File Upload Vulnerabilities"},
				ScannerConfig: "Enable file upload vulnerability checks",
			}),
		},
		{
			Name:     "server-version-disclosed",
			Priority: model.PriorityLow,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return hasHeader(bag, "server")
			},
			Build: func(bag *model.IndicatorBag) model.Recommendation {
				return model.Recommendation{
					Category:      "Information Disclosure",
					Risk:          "Reconnaissance",
					Description:   fmt.Sprintf("Server version disclosed: %s", header(bag, "server")),
					Technique:     "Search for known vulnerabilities in this server version",
					Extensions:    []string{"Vulners Scanner", "Software Version Reporter"},
					ManualTesting: "Check CVE databases for server version vulnerabilities",
				}
			},
		},
		{
			Name:     "php-detected",
			Priority: model.PriorityMedium,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return headerContains(bag, "x-powered-by", "php")
			},
			Build: static(model.Recommendation{
				Category:      "PHP Security",
				Risk:          "Code Injection",
				Description:   "PHP detected - test for PHP-specific vulnerabilities",
				Technique:     "Test PHP injection, file inclusion (LFI/RFI), PHP deserialization",
				Extensions:    []string{"PHP Object Injection Check", "LFI/RFI Scanner"},
				ScannerConfig: "Enable PHP injection checks, file inclusion tests",
			}),
		},
		{
			Name:     "aspnet-version-disclosed",
			Priority: model.PriorityMedium,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return hasHeader(bag, "x-aspnet-version")
			},
			Build: func(bag *model.IndicatorBag) model.Recommendation {
				return model.Recommendation{
					Category:      "ASP.NET Security",
					Risk:          "Framework Vulnerabilities",
					Description:   fmt.Sprintf("ASP.NET version disclosed: %s", header(bag, "x-aspnet-version")),
					Technique:     "Test ViewState tampering, .NET deserialization, debug traces",
					Extensions:    []string{"ViewState Editor", ".NET Beautifier"},
					ScannerConfig: "Enable .NET specific checks",
				}
			},
		},
		{
			Name:     "cdn-detected",
			Priority: model.PriorityLow,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return hasHeader(bag, "cf-ray", "x-amz-cf-id", "x-azure-ref", "x-fastly-request-id", "x-served-by", "x-cache", "x-varnish")
			},
			Build: static(model.Recommendation{
				Category:      "CDN Security",
				Risk:          "Cache Poisoning",
				Description:   "CDN or caching layer detected in front of the origin",
				Technique:     "Test cache poisoning, host header injection, CDN bypass",
				Extensions:    []string{"Cache Poisoning Scanner", "Host Header Injection"},
				ManualTesting: "Test X-Forwarded-Host, X-Original-IP headers",
			}),
		},
		{
			Name:     "cookie-secure-missing",
			Priority: model.PriorityMedium,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return anyCookieMissing(bag, "secure")
			},
			Build: static(model.Recommendation{
				Category:      "Cookie Security",
				Risk:          "Session Hijacking",
				Description:   "Cookies without Secure flag detected",
				Technique:     "Intercept cookies over HTTP, test session fixation",
				Extensions:    []string{"Cookie Jar", "Session Timeout Test"},
				ScannerConfig: "Enable session management tests",
			}),
		},
		{
			Name:     "cookie-httponly-missing",
			Priority: model.PriorityMedium,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return anyCookieMissing(bag, "httponly")
			},
			Build: static(model.Recommendation{
				Category:      "Cookie Security",
				Risk:          "XSS Cookie Theft",
				Description:   "Cookies without HttpOnly flag - XSS can steal sessions",
				Technique:     "Test XSS with document.cookie payloads",
				Extensions:    []string{"XSS Validator", "Cookie Jar"},
				ManualTesting: "Inject <script>alert(document.cookie)</script>",
			}),
		},
		{
			Name:     "cookie-samesite-missing",
			Priority: model.PriorityHigh,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return anyCookieMissing(bag, "samesite")
			},
			Build: static(model.Recommendation{
				Category:      "CSRF Protection",
				Risk:          "Cross-Site Request Forgery",
				Description:   "Cookies without SameSite protection - CSRF possible",
				Technique:     "Generate CSRF PoCs, test cross-origin requests",
				Extensions:    []string{"CSRF PoC Generator", "CSRF Scanner"},
				ScannerConfig: "Enable CSRF detection checks",
			}),
		},
		{
			Name:     "debug-headers",
			Priority: model.PriorityHigh,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return hasHeader(bag, "x-debug", "x-debug-token", "x-drupal-cache", "x-drupal-dynamic-cache", "x-cache-debug", "x-varnish-debug", "x-debug-mode")
			},
			Build: static(model.Recommendation{
				Category:      "Debug Information",
				Risk:          "Information Disclosure",
				Description:   "Debug headers detected in production responses",
				Technique:     "Test debug parameters, error message enumeration",
				Extensions:    []string{"Error Message Checks", "Debug Info Scanner"},
				ManualTesting: "Add ?debug=1, ?test=1 parameters to requests",
			}),
		},
		{
			Name:     "source-maps-exposed",
			Priority: model.PriorityHigh,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return hasHeader(bag, "sourcemap", "x-sourcemap")
			},
			Build: static(model.Recommendation{
				Category:      "Source Code Exposure",
				Risk:          "Code Analysis",
				Description:   "Source maps detected - code structure exposed",
				Technique:     "Download source maps, analyze exposed source code",
				Extensions:    []string{"Source Map Extractor"},
				ManualTesting: "Access .map files directly, analyze revealed paths",
			}),
		},
		{
			Name:     "cache-varies-on-user-agent",
			Priority: model.PriorityMedium,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				return headerContains(bag, "vary", "user-agent")
			},
			Build: static(model.Recommendation{
				Category:      "Cache Poisoning",
				Risk:          "Web Cache Deception",
				Description:   "Cache varies on User-Agent - poisoning possible",
				Technique:     "Test cache poisoning with malicious User-Agent headers",
				Extensions:    []string{"Cache Poisoning Scanner", "Param Miner"},
				ScannerConfig: "Enable cache poisoning detection",
			}),
		},
		{
			Name:     "cache-public-without-max-age",
			Priority: model.PriorityLow,
			Kinds:    headersOnly(),
			When: func(bag *model.IndicatorBag) bool {
				cc := strings.ToLower(header(bag, "cache-control"))
				return strings.Contains(cc, "public") && !strings.Contains(cc, "max-age")
			},
			Build: static(model.Recommendation{
				Category:      "Cache Behavior",
				Risk:          "Cache Issues",
				Description:   "Problematic cache configuration detected",
				Technique:     "Test cache behavior with different headers",
				Extensions:    []string{"Cache Analyzer"},
				ManualTesting: "Test with different Cache-Control headers",
			}),
		},
	}
}
