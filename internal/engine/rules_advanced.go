package engine

import "github.com/pentrail/pentrail/internal/model"

// sweepRules maps weak attack-surface signals from the security sweep to
// exploitation guidance. All are keyed to the security category.
func sweepRules() []Rule {
	secWhen := func(substrs ...string) func(*model.IndicatorBag) bool {
		return when(model.CategorySecurity, substrs...)
	}
	return []Rule{
		{
			Name:     "advanced-sql-injection",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("sql injection"),
			Build: static(model.Recommendation{
				Category:      "Advanced SQL Injection",
				Risk:          "Database Compromise / RCE",
				Description:   "SQL injection indicators detected - comprehensive testing required",
				Technique:     "Advanced SQLi: Union-based, Boolean-based blind, time-based blind, error-based, second-order injection, NoSQL injection",
				Extensions:    []string{"SQLiPy", "CO2", "Hackvertor", "SQL Injection Check", "NoSQL Injection"},
				ScannerConfig: "Enable all SQL injection techniques, configure custom payloads, test all parameters",
				ManualTesting: `Payloads: ' UNION SELECT @@version--, ' AND SLEEP(5)--, {"$ne": null}, ' OR extractvalue(1,concat(0x7e,version()))--`,
			}),
		},
		{
			Name:     "xxe-injection",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("xxe"),
			Build: static(model.Recommendation{
				Category:      "XXE Injection",
				Risk:          "Server-Side Request Forgery / File Disclosure",
				Description:   "XML processing detected - XXE vulnerability possible",
				Technique:     "XXE attacks: External entity injection, blind XXE via error messages, out-of-band XXE, XXE to SSRF",
				Extensions:    []string{"Content Type Converter", "XML External Entity"},
				ScannerConfig: "Enable XXE testing, configure XML parsing checks",
				ManualTesting: `Payloads: <!DOCTYPE test [<!ENTITY xxe SYSTEM "file:///etc/passwd">]>`,
			}),
		},
		{
			Name:     "ssti",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("template", "ssti"),
			Build: static(model.Recommendation{
				Category:      "Server-Side Template Injection",
				Risk:          "Remote Code Execution",
				Description:   "Template engine detected - SSTI vulnerability possible",
				Technique:     "SSTI attacks: Template syntax injection, expression language injection, sandbox escape",
				Extensions:    []string{"Template Injector", "Expression Language Injection"},
				ScannerConfig: "Enable template injection checks for all frameworks",
				ManualTesting: "Payloads: {{7*7}}, ${7*7}, #{7*7}, <%=7*7%>, {{config}}",
			}),
		},
		{
			Name:     "jwt-attacks",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     secWhen("jwt"),
			Build: static(model.Recommendation{
				Category:      "JWT Attacks",
				Risk:          "Authentication Bypass / Privilege Escalation",
				Description:   "JWT tokens detected - multiple attack vectors available",
				Technique:     "JWT attacks: Algorithm confusion, signature verification bypass, key confusion, weak secrets",
				Extensions:    []string{"JWT Editor", "JSON Web Tokens", "JWT Fuzzhelper"},
				ScannerConfig: "Enable JWT testing, signature validation bypass",
				ManualTesting: "Test: alg:none, HS256/RS256 confusion, weak HMAC secrets, kid parameter manipulation",
			}),
		},
		{
			Name:     "graphql-vulnerabilities",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     secWhen("graphql"),
			Build: static(model.Recommendation{
				Category:      "GraphQL Vulnerabilities",
				Risk:          "Information Disclosure / DoS",
				Description:   "GraphQL implementation detected - API security issues possible",
				Technique:     "GraphQL attacks: Introspection queries, query depth/complexity attacks, field suggestion attacks",
				Extensions:    []string{"GraphQL Raider", "InQL Scanner"},
				ScannerConfig: "Enable GraphQL introspection, depth limit testing",
				ManualTesting: "Queries: {__schema {types {name}}}, deeply nested queries, batch query attacks",
			}),
		},
		{
			Name:     "csrf-missing",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("csrf token missing"),
			Build: static(model.Recommendation{
				Category:      "Advanced CSRF Exploitation",
				Risk:          "Account Takeover / Unauthorized Actions",
				Description:   "CSRF protection missing - comprehensive exploitation possible",
				Technique:     "CSRF attacks: PoC generation, JSON-based CSRF, multipart CSRF, SameSite bypass, referrer validation bypass",
				Extensions:    []string{"CSRF PoC Generator", "CSRF Scanner", "Request Smuggler"},
				ScannerConfig: "Enable CSRF detection, SameSite testing, referrer validation bypass",
				ManualTesting: "Generate HTML PoC forms for state-changing endpoints, test JSON CSRF with content-type manipulation",
			}),
		},
		{
			Name:     "json-csrf",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     secWhen("json-based csrf"),
			Build: static(model.Recommendation{
				Category:      "JSON-based CSRF",
				Risk:          "API Endpoint Exploitation",
				Description:   "JSON endpoints detected - content-type based CSRF possible",
				Technique:     "JSON CSRF: Content-Type manipulation, flash-based CSRF, form-based JSON submission",
				Extensions:    []string{"Content Type Converter", "CSRF PoC Generator"},
				ManualTesting: "Test text/plain enctype forms carrying JSON payloads",
			}),
		},
		{
			Name:     "clickjacking-exploitation",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     secWhen("clickjacking", "frame protection"),
			Build: static(model.Recommendation{
				Category:      "Clickjacking Exploitation",
				Risk:          "UI Redressing Attack",
				Description:   "Frame protection missing - clickjacking attacks possible",
				Technique:     "Clickjacking: UI redressing, iframe overlays, double clickjacking, drag & drop attacks",
				Extensions:    []string{"Clickjacking PoC Generator", "Frame Buster Bypass"},
				ScannerConfig: "Enable clickjacking detection, frame options testing",
				ManualTesting: "Create transparent iframe overlays pointing at sensitive actions",
			}),
		},
		{
			Name:     "cors-wildcard",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("wildcard cors"),
			Build: static(model.Recommendation{
				Category:      "CORS Misconfiguration",
				Risk:          "Cross-Origin Data Theft",
				Description:   "Wildcard CORS origin detected - sensitive data exfiltration possible",
				Technique:     "CORS exploitation: Credential-enabled requests, null origin bypass, subdomain takeover, pre-flight bypass",
				Extensions:    []string{"CORS Scanner", "Origin Reflector"},
				ScannerConfig: "Enable CORS misconfiguration detection, origin reflection testing",
				ManualTesting: "Test origins: null, attacker.com, victim.com.attacker.com, test credential inclusion",
			}),
		},
		{
			Name:     "unrestricted-file-upload",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("unrestricted file upload"),
			Build: static(model.Recommendation{
				Category:      "File Upload Exploitation",
				Risk:          "Remote Code Execution",
				Description:   "Unrestricted file upload detected - RCE via file upload possible",
				Technique:     "File upload attacks: Web shell upload, polyglot files, MIME type bypass, double extension, null byte injection",
				Extensions:    []string{"Upload Scanner", "File Upload Vulnerabilities", "Polyglot Generator"},
				ScannerConfig: "Enable file upload vulnerability scanning, extension bypass testing",
				ManualTesting: "Test: shell.php.jpg, shell.asp;.jpg, shell.php%00.jpg, polyglot files",
			}),
		},
		{
			Name:     "ajax-file-upload",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     secWhen("ajax file upload"),
			Build: static(model.Recommendation{
				Category:      "AJAX File Upload",
				Risk:          "Client-Side Upload Bypass",
				Description:   "AJAX file upload detected - client-side validation bypass possible",
				Technique:     "AJAX upload bypass: Client-side validation bypass, direct API calls, race conditions",
				Extensions:    []string{"JavaScript Deobfuscator", "AJAX Crawler"},
				ManualTesting: "Bypass client-side validation, intercept and modify upload requests",
			}),
		},
		{
			Name:     "insecure-websocket",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("insecure websocket"),
			Build: static(model.Recommendation{
				Category:      "WebSocket Security",
				Risk:          "Man-in-the-Middle / Message Injection",
				Description:   "Insecure WebSocket implementation detected",
				Technique:     "WebSocket attacks: Message injection, origin bypass, CSRF via WebSocket, message replay",
				Extensions:    []string{"WebSocket Security Scanner", "WebSocket Fuzzer"},
				ScannerConfig: "Enable WebSocket testing, message injection detection",
				ManualTesting: "Test: Cross-origin WebSocket connections, message tampering, authentication bypass",
			}),
		},
		{
			Name:     "deserialization",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("deserialization"),
			Build: static(model.Recommendation{
				Category:      "Insecure Deserialization",
				Risk:          "Remote Code Execution",
				Description:   "Data deserialization detected - RCE via object injection possible",
				Technique:     "Deserialization attacks: Java deserialization, PHP object injection, Python pickle, .NET deserialization",
				Extensions:    []string{"Java Deserialization Scanner", "PHP Object Injection", ".NET Deserializer"},
				ScannerConfig: "Enable deserialization vulnerability scanning, object injection testing",
				ManualTesting: "Test: ysoserial payloads, PHP object injection, pickle RCE",
			}),
		},
		{
			Name:     "user-controlled-eval",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("eval risk"),
			Build: static(model.Recommendation{
				Category:      "Code Injection via Eval",
				Risk:          "Remote Code Execution",
				Description:   "User-controlled eval detected - direct code injection possible",
				Technique:     "Code injection: JavaScript injection, expression language injection, eval bypass",
				Extensions:    []string{"Code Injection Scanner", "Template Injector"},
				ManualTesting: `Payloads: alert(1), require("child_process").exec("id"), ${7*7}`,
			}),
		},
		{
			Name:     "financial-race-conditions",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("financial race condition"),
			Build: static(model.Recommendation{
				Category:      "Financial Race Conditions",
				Risk:          "Financial Loss / Logic Bypass",
				Description:   "Financial operations susceptible to race conditions",
				Technique:     "Race condition exploitation: Concurrent requests, timing attacks, TOCTTOU, limit bypass, double spending",
				Extensions:    []string{"Race Condition Scanner", "Turbo Intruder", "Concurrent Request Sender"},
				ScannerConfig: "Enable race condition detection, concurrent request testing",
				ManualTesting: "Send simultaneous requests: money transfer, discount application, quantity manipulation",
			}),
		},
		{
			Name:     "web-llm-attacks",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("llm", "chatbot"),
			Build: static(model.Recommendation{
				Category:      "Web LLM Attacks",
				Risk:          "Prompt Injection / Data Exfiltration",
				Description:   "LLM integration detected - prompt injection and data exfiltration possible",
				Technique:     "LLM attacks: Prompt injection, jailbreaking, data exfiltration, context poisoning",
				Extensions:    []string{"LLM Security Scanner", "Prompt Injection Tester"},
				ScannerConfig: "Enable LLM-specific testing, prompt injection detection",
				ManualTesting: `Prompts: "Ignore previous instructions and...", context manipulation attacks`,
			}),
		},
		{
			Name:     "cache-poisoning",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     secWhen("cache poisoning", "cdn cache"),
			Build: static(model.Recommendation{
				Category:      "Web Cache Poisoning",
				Risk:          "Cache Poisoning / XSS Amplification",
				Description:   "Cache implementation detected - poisoning attacks possible",
				Technique:     "Cache poisoning: Parameter cloaking, header injection, cache key manipulation, fat GET requests",
				Extensions:    []string{"Cache Poisoning Scanner", "Param Miner", "Web Cache Deception"},
				ScannerConfig: "Enable cache poisoning detection, parameter pollution testing",
				ManualTesting: "Test: X-Forwarded-Host poisoning, parameter cloaking, cache key normalization differences",
			}),
		},
		{
			Name:     "user-agent-cache-poisoning",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     secWhen("user-agent dependent"),
			Build: static(model.Recommendation{
				Category:      "User-Agent Cache Poisoning",
				Risk:          "Targeted Cache Poisoning",
				Description:   "User-Agent dependent caching - targeted poisoning possible",
				Technique:     "Targeted poisoning: User-Agent manipulation, cache segmentation abuse, browser-specific attacks",
				Extensions:    []string{"User-Agent Fuzzer", "Cache Poisoning Scanner"},
				ManualTesting: "Test different User-Agent strings, mobile vs desktop cache keys",
			}),
		},
		{
			Name:     "request-smuggling",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("smuggling", "proxy"),
			Build: static(model.Recommendation{
				Category:      "HTTP Request Smuggling",
				Risk:          "Security Control Bypass",
				Description:   "HTTP processing chain detected - request smuggling possible",
				Technique:     "Request smuggling: CL.TE attacks, TE.CL attacks, TE.TE attacks, front-end security bypass",
				Extensions:    []string{"HTTP Request Smuggler", "Turbo Intruder", "Smuggling Detection"},
				ScannerConfig: "Enable request smuggling detection, chunked encoding tests",
				ManualTesting: "Test: Content-Length vs Transfer-Encoding conflicts, chunked encoding edge cases",
			}),
		},
		{
			Name:     "header-manipulation",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     secWhen("header manipulation"),
			Build: static(model.Recommendation{
				Category:      "HTTP Header Manipulation",
				Risk:          "Request Processing Bypass",
				Description:   "HTTP header manipulation possible - processing bypass attacks",
				Technique:     "Header manipulation: Request line injection, header injection, HTTP/2 downgrade attacks",
				Extensions:    []string{"Header Injection Scanner", "HTTP/2 Fuzzer"},
				ManualTesting: "Test: Header injection, request line manipulation, protocol downgrade",
			}),
		},
		{
			Name:     "dom-manipulation",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("dom manipulation"),
			Build: static(model.Recommendation{
				Category:      "DOM-based Vulnerabilities",
				Risk:          "Client-Side Code Execution",
				Description:   "DOM manipulation patterns detected - client-side attacks possible",
				Technique:     "DOM attacks: DOM XSS, innerHTML injection, location manipulation, postMessage abuse",
				Extensions:    []string{"DOM Invader", "XSS Validator", "Client-Side Scanner"},
				ScannerConfig: "Enable DOM-based vulnerability scanning, client-side injection testing",
				ManualTesting: "Test: location.hash manipulation, postMessage injection, innerHTML with user input",
			}),
		},
		{
			Name:     "postmessage-abuse",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     secWhen("postmessage"),
			Build: static(model.Recommendation{
				Category:      "PostMessage Vulnerabilities",
				Risk:          "Cross-Frame Communication Abuse",
				Description:   "PostMessage without origin validation - cross-frame attacks possible",
				Technique:     "PostMessage attacks: Origin bypass, message injection, cross-frame scripting",
				Extensions:    []string{"PostMessage Scanner", "Frame Communication Analyzer"},
				ManualTesting: "Test: Message injection from arbitrary origins, null origin bypass, wildcard origin abuse",
			}),
		},
		{
			Name:     "oauth-vulnerabilities",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("oauth"),
			Build: static(model.Recommendation{
				Category:      "OAuth 2.0 Vulnerabilities",
				Risk:          "Account Takeover / Authorization Bypass",
				Description:   "OAuth implementation detected - multiple attack vectors possible",
				Technique:     "OAuth attacks: redirect_uri manipulation, state parameter bypass, authorization code interception, scope escalation",
				Extensions:    []string{"OAuth Scanner", "Authorization Testing", "JWT Editor"},
				ScannerConfig: "Enable OAuth flow testing, redirect URI validation, state parameter checks",
				ManualTesting: "Test: redirect_uri=attacker.com, missing state parameter, authorization code in referrer",
			}),
		},
		{
			Name:     "waf-bypass",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     secWhen("waf"),
			Build: static(model.Recommendation{
				Category:      "WAF Bypass Techniques",
				Risk:          "Security Control Evasion",
				Description:   "Web Application Firewall detected - bypass techniques available",
				Technique:     "WAF bypass: Encoding variations, case manipulation, comment injection, IP rotation, request splitting",
				Extensions:    []string{"WAF Bypass", "Encoding Converter", "IP Rotator", "Request Obfuscator"},
				ScannerConfig: "Enable WAF detection, encoding bypass testing, obfuscation techniques",
				ManualTesting: "Test: URL encoding, double encoding, Unicode normalization, HTTP parameter pollution",
			}),
		},
		{
			Name:     "email-oob",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     secWhen("email out-of-band"),
			Build: static(model.Recommendation{
				Category:      "Email-based OOB Attacks",
				Risk:          "Information Exfiltration via Email",
				Description:   "Email functionality detected - OOB data exfiltration possible",
				Technique:     "Email OOB: Template injection in emails, SMTP header injection, email-based XXE",
				Extensions:    []string{"Email Security Scanner", "Template Injection Tester"},
				ManualTesting: "Test: Email template injection, CC/BCC manipulation, attachment-based attacks",
			}),
		},
		{
			Name:     "dns-oob",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     secWhen("oob vector", "out-of-band"),
			Build: static(model.Recommendation{
				Category:      "Out-of-Band Attacks",
				Risk:          "Blind Vulnerability Exploitation",
				Description:   "Out-of-band attack vectors detected - blind exploitation possible",
				Technique:     "OOB attacks: DNS exfiltration, HTTP callbacks, email-based attacks, SSRF via OOB",
				Extensions:    []string{"Collaborator Everywhere", "Out-of-Band Scanner", "DNS Exfiltration"},
				ScannerConfig: "Configure Collaborator, enable OOB detection, DNS interaction testing",
				ManualTesting: "Test: DNS callbacks, HTTP interaction, file inclusion with external URLs",
			}),
		},
	}
}

// baselineRules always fire for technology analyses: classes of testing that
// apply to any web application regardless of detected stack.
func baselineRules() []Rule {
	always := func(*model.IndicatorBag) bool { return true }
	return []Rule{
		{
			Name:     "web-cache-deception",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     always,
			Build: static(model.Recommendation{
				Category:      "Web Cache Deception",
				Risk:          "Information Disclosure",
				Description:   "Cache deception testing applies to any cached application",
				Technique:     "Cache deception: Path confusion, parameter cloaking, delimiter discrepancies",
				Extensions:    []string{"Cache Poisoning Scanner", "Param Miner"},
				ScannerConfig: "Enable cache testing, parameter pollution detection",
				ManualTesting: "Test: /profile/..%2fstatic%2ftest.css, cache key manipulation, normalization discrepancies",
			}),
		},
		{
			Name:     "http-request-smuggling-baseline",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     always,
			Build: static(model.Recommendation{
				Category:      "HTTP Request Smuggling",
				Risk:          "Security Control Bypass",
				Description:   "HTTP processing detected - request smuggling possible",
				Technique:     "Request smuggling: CL.TE, TE.CL, TE.TE attacks, front-end security bypass",
				Extensions:    []string{"HTTP Request Smuggler", "Turbo Intruder"},
				ScannerConfig: "Enable HTTP smuggling detection, chunked encoding tests",
				ManualTesting: "Test: Content-Length vs Transfer-Encoding conflicts, chunked encoding manipulation",
			}),
		},
		{
			Name:     "host-header-injection",
			Priority: model.PriorityLow,
			Kinds:    techOnly(),
			When:     always,
			Build: static(model.Recommendation{
				Category:      "Host Header Injection",
				Risk:          "Password Reset Poisoning",
				Description:   "HTTP host processing - host header manipulation possible",
				Technique:     "Host header attacks: Password reset poisoning, cache poisoning, authentication bypass",
				Extensions:    []string{"Host Header Injection", "Param Miner"},
				ScannerConfig: "Enable host header manipulation testing",
				ManualTesting: "Test: X-Forwarded-Host, X-Host, X-Forwarded-Server headers with attacker domains",
			}),
		},
		{
			Name:     "business-logic",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     always,
			Build: static(model.Recommendation{
				Category:      "Business Logic Vulnerabilities",
				Risk:          "Financial Loss / Data Manipulation",
				Description:   "Business logic flaws often require manual testing",
				Technique:     "Business logic testing: Race conditions, workflow bypass, price manipulation, quantity limits",
				Extensions:    []string{"Race Condition", "Turbo Intruder", "Autorize"},
				ScannerConfig: "Enable business logic checks, race condition detection",
				ManualTesting: "Test: Negative quantities, price manipulation, workflow step skipping, concurrent requests",
			}),
		},
		{
			Name:     "advanced-auth-bypass",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     always,
			Build: static(model.Recommendation{
				Category:      "Advanced Authentication Bypass",
				Risk:          "Account Takeover",
				Description:   "Authentication mechanisms detected - advanced bypass techniques available",
				Technique:     "Auth bypass: Password reset poisoning, OAuth vulnerabilities, 2FA bypass, session puzzling",
				Extensions:    []string{"AuthMatrix", "OAuth Scanner", "Session Timeout Test"},
				ScannerConfig: "Enable authentication bypass detection, OAuth testing",
				ManualTesting: "Test: OAuth redirect_uri manipulation, 2FA brute force, password reset race conditions",
			}),
		},
	}
}
