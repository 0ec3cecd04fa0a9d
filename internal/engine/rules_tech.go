package engine

import "github.com/pentrail/pentrail/internal/model"

func techOnly() []model.AnalysisKind {
	return []model.AnalysisKind{model.KindTechnology}
}

// techRules maps detected technology signals to recommendations. Each rule is
// keyed to the category its detector reports under, so a label recorded in
// one category never triggers another category's rules.
func techRules() []Rule {
	return []Rule{
		{
			Name:     "react-detected",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     when(model.CategoryJavaScript, "react"),
			Build: static(model.Recommendation{
				Category:      "React Framework",
				Risk:          "Client-Side Vulnerabilities",
				Description:   "React application detected - multiple attack vectors possible",
				Technique:     "Test: DOM XSS via dangerouslySetInnerHTML, React Router manipulation, component prop injection, client-side prototype pollution",
				Extensions:    []string{"DOM Invader", "XSS Validator", "JavaScript Security Scanner", "Reflected Parameters"},
				ScannerConfig: "Enable DOM-based vulnerability scanning, React-specific payloads",
				ManualTesting: "Payloads: <img src=x onerror=alert(1)>, ${7*7}, constructor.prototype.polluted=1",
			}),
		},
		{
			Name:     "angular-detected",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     when(model.CategoryJavaScript, "angular"),
			Build: static(model.Recommendation{
				Category:      "Angular Framework",
				Risk:          "Template Injection",
				Description:   "Angular application detected",
				Technique:     "Test Angular template injection, CSP bypass, client-side routing vulnerabilities",
				Extensions:    []string{"Template Injector", "AngularJS CSTI Scanner"},
				ScannerConfig: "Enable template injection checks",
			}),
		},
		{
			Name:     "vue-detected",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     when(model.CategoryJavaScript, "vue"),
			Build: static(model.Recommendation{
				Category:      "Vue.js Framework",
				Risk:          "Client-Side Injection",
				Description:   "Vue.js application detected",
				Technique:     "Test Vue template injection, v-html XSS, client-side routing issues",
				Extensions:    []string{"Template Injector", "DOM Invader"},
				ScannerConfig: "Enable client-side template injection scanning",
			}),
		},
		{
			Name:     "express-detected",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     when(model.CategoryFramework, "express"),
			Build: static(model.Recommendation{
				Category:      "Express.js Framework",
				Risk:          "Server-Side Vulnerabilities",
				Description:   "Express.js backend detected",
				Technique:     "Test for prototype pollution, NoSQL injection, server-side template injection",
				Extensions:    []string{"Node.js Security Scanner", "NoSQL Injection"},
				ScannerConfig: "Enable NoSQL injection and prototype pollution checks",
			}),
		},
		{
			Name:     "django-detected",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     when(model.CategoryFramework, "django"),
			Build: static(model.Recommendation{
				Category:      "Django Framework",
				Risk:          "Python-Specific Vulnerabilities",
				Description:   "Django framework detected",
				Technique:     "Test Django debug pages, CSRF token bypass, pickle deserialization",
				Extensions:    []string{"Python Security Scanner", "Django Debug Scanner"},
				ManualTesting: "Check for debug=True, admin interface exposure",
			}),
		},
		{
			Name:     "jquery-detected",
			Priority: model.PriorityLow,
			Kinds:    techOnly(),
			When:     when(model.CategoryJavaScript, "jquery"),
			Build: static(model.Recommendation{
				Category:      "jQuery Library",
				Risk:          "DOM Manipulation",
				Description:   "jQuery detected - check for DOM-based vulnerabilities",
				Technique:     "Test jQuery selectors for XSS, DOM manipulation attacks",
				Extensions:    []string{"DOM Invader", "Reflected Parameters"},
				ScannerConfig: "Focus on DOM-based XSS patterns",
			}),
		},
		{
			Name:     "socketio-detected",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     when(model.CategoryJavaScript, "socket.io"),
			Build: static(model.Recommendation{
				Category:      "WebSocket Security",
				Risk:          "Real-time Communication",
				Description:   "Socket.io detected - WebSocket vulnerabilities possible",
				Technique:     "Test WebSocket injection, message tampering, authentication bypass",
				Extensions:    []string{"WebSocket Security Scanner", "Socket.io Tester"},
				ManualTesting: "Intercept and modify WebSocket messages",
			}),
		},
		{
			Name:     "axios-detected",
			Priority: model.PriorityLow,
			Kinds:    techOnly(),
			When:     when(model.CategoryJavaScript, "axios"),
			Build: static(model.Recommendation{
				Category:      "HTTP Client",
				Risk:          "Request Manipulation",
				Description:   "Axios HTTP client detected",
				Technique:     "Test for CSRF, request smuggling, header injection",
				Extensions:    []string{"HTTP Request Smuggler", "CSRF Scanner"},
				ScannerConfig: "Enable HTTP smuggling detection",
			}),
		},
		{
			Name:     "wordpress-detected",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     when(model.CategoryCMS, "wordpress"),
			Build: static(model.Recommendation{
				Category:      "WordPress CMS",
				Risk:          "Multiple Critical Vulnerabilities",
				Description:   "WordPress detected - extensive attack surface with known vulnerabilities",
				Technique:     "Comprehensive WordPress testing: Plugin enumeration, theme vulnerabilities, XML-RPC amplification, user enumeration, SQL injection in plugins, file upload bypass, privilege escalation, REST API abuse",
				Extensions:    []string{"WordPress Security Scanner", "WPScan Passive Scanner", "WordPress Exploitation Framework", "Directory Traversal Check"},
				ScannerConfig: "Enable WordPress-specific checks, plugin vulnerability scanning, REST API testing",
				ManualTesting: "Test: /wp-admin/, /wp-json/wp/v2/users, /xmlrpc.php, /wp-content/uploads/, /?author=1, /wp-admin/admin-ajax.php",
			}),
		},
		{
			Name:     "drupal-detected",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     when(model.CategoryCMS, "drupal"),
			Build: static(model.Recommendation{
				Category:      "Drupal CMS",
				Risk:          "CMS Vulnerabilities",
				Description:   "Drupal detected",
				Technique:     "Test for Drupalgeddon vulnerabilities, admin interface enumeration",
				Extensions:    []string{"Drupal Security Scanner"},
				ManualTesting: "Check /admin, /user, module enumeration",
			}),
		},
		{
			Name:     "joomla-detected",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     when(model.CategoryCMS, "joomla"),
			Build: static(model.Recommendation{
				Category:      "Joomla CMS",
				Risk:          "CMS Vulnerabilities",
				Description:   "Joomla detected",
				Technique:     "Test administrator interface, component vulnerabilities",
				Extensions:    []string{"Joomla Security Scanner"},
				ManualTesting: "Check /administrator, component enumeration",
			}),
		},
		{
			Name:     "captcha-detected",
			Priority: model.PriorityMedium,
			Kinds:    techOnly(),
			When:     when(model.CategorySecurity, "recaptcha", "hcaptcha"),
			Build: static(model.Recommendation{
				Category:      "CAPTCHA Protection",
				Risk:          "Automation Prevention",
				Description:   "CAPTCHA detected - may limit automated testing",
				Technique:     "Test CAPTCHA bypass, rate limiting, session reuse",
				Extensions:    []string{"CAPTCHA Bypass", "Rate Limiter"},
				ManualTesting: "Test form submission without CAPTCHA solving",
			}),
		},
		{
			Name:     "cloudflare-bot-management",
			Priority: model.PriorityLow,
			Kinds:    techOnly(),
			When:     when(model.CategorySecurity, "cloudflare bot"),
			Build: static(model.Recommendation{
				Category:      "Bot Protection",
				Risk:          "WAF Evasion",
				Description:   "Cloudflare Bot Management detected",
				Technique:     "Test WAF bypass techniques, IP rotation, header manipulation",
				Extensions:    []string{"WAF Bypass", "IP Rotator"},
				ScannerConfig: "Configure request timing and rate limiting",
			}),
		},
		{
			Name:     "source-maps-detected",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     when(model.CategoryDevelopment, "webpack", "source map"),
			Build: static(model.Recommendation{
				Category:      "Source Maps",
				Risk:          "Source Code Exposure",
				Description:   "Source maps or Webpack detected - source code may be exposed",
				Technique:     "Download source maps, analyze bundled code structure",
				Extensions:    []string{"Source Map Extractor", "JavaScript Beautifier"},
				ManualTesting: "Access /static/js/*.map, /webpack/ directories",
			}),
		},
		{
			Name:     "development-mode",
			Priority: model.PriorityHigh,
			Kinds:    techOnly(),
			When:     when(model.CategoryDevelopment, "development", "dev"),
			Build: static(model.Recommendation{
				Category:      "Development Mode",
				Risk:          "Debug Information",
				Description:   "Development mode detected - debug information exposed",
				Technique:     "Test debug endpoints, error message enumeration, stack traces",
				Extensions:    []string{"Error Message Checks", "Debug Scanner"},
				ManualTesting: "Add debug parameters, trigger error conditions",
			}),
		},
	}
}
