package detect

import (
	"regexp"
	"strings"

	"github.com/pentrail/pentrail/internal/model"
	"github.com/pentrail/pentrail/internal/snapshot"
)

type predicate func(snapshot.Snapshot) bool

func any(preds ...predicate) predicate {
	return func(s snapshot.Snapshot) bool {
		for _, p := range preds {
			if p(s) {
				return true
			}
		}
		return false
	}
}

func all(preds ...predicate) predicate {
	return func(s snapshot.Snapshot) bool {
		for _, p := range preds {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

func hasGlobal(names ...string) predicate {
	return func(s snapshot.Snapshot) bool {
		for _, n := range names {
			if s.HasGlobal(n) {
				return true
			}
		}
		return false
	}
}

func query(selectors ...string) predicate {
	return func(s snapshot.Snapshot) bool {
		for _, sel := range selectors {
			if s.Query(sel) {
				return true
			}
		}
		return false
	}
}

func scriptSrc(substrs ...string) predicate {
	return func(s snapshot.Snapshot) bool {
		for _, src := range s.ScriptSources() {
			lower := strings.ToLower(src)
			for _, sub := range substrs {
				if strings.Contains(lower, sub) {
					return true
				}
			}
		}
		return false
	}
}

func linkHref(substrs ...string) predicate {
	return func(s snapshot.Snapshot) bool {
		for _, href := range s.LinkHrefs() {
			lower := strings.ToLower(href)
			for _, sub := range substrs {
				if strings.Contains(lower, sub) {
					return true
				}
			}
		}
		return false
	}
}

// inlineHas reports whether any inline script contains every one of substrs.
func inlineHas(substrs ...string) predicate {
	return func(s snapshot.Snapshot) bool {
		for _, script := range s.InlineScripts() {
			ok := true
			for _, sub := range substrs {
				if !strings.Contains(script, sub) {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
		return false
	}
}

func metaGenerator(substr string) predicate {
	return func(s snapshot.Snapshot) bool {
		return strings.Contains(strings.ToLower(s.MetaContent("generator")), strings.ToLower(substr))
	}
}

func bodyMatches(re *regexp.Regexp) predicate {
	return func(s snapshot.Snapshot) bool {
		return re.MatchString(strings.ToLower(s.BodyText()))
	}
}

func htmlMatches(re *regexp.Regexp) predicate {
	return func(s snapshot.Snapshot) bool {
		return re.MatchString(s.HTML())
	}
}

func locationContains(substrs ...string) predicate {
	return func(s snapshot.Snapshot) bool {
		lower := strings.ToLower(s.Location())
		for _, sub := range substrs {
			if strings.Contains(lower, sub) {
				return true
			}
		}
		return false
	}
}

// storageHasToken reports JWT-shaped values or token-named keys in the given
// storage key list.
func storageHasToken(keys []string) bool {
	for _, k := range keys {
		lower := strings.ToLower(k)
		if strings.Contains(lower, "jwt") || strings.Contains(lower, "token") || strings.HasPrefix(k, "eyJ") {
			return true
		}
	}
	return false
}

var (
	sqlErrRe  = regexp.MustCompile(`mysql.*error|sql.*syntax|ora-\d+|postgresql.*error|sqlite.*error|microsoft.*odbc|oledb.*error`)
	sstiRe    = regexp.MustCompile(`\{\{.*\}\}|\{%.*%\}|\$\{.*\}|<#.*#>`)
	graphqlRe = regexp.MustCompile(`__schema`)
)

func defaultProbes() []Probe {
	var probes []Probe
	probes = append(probes, javascriptProbes()...)
	probes = append(probes, cssProbes()...)
	probes = append(probes, cmsProbes()...)
	probes = append(probes, analyticsProbes()...)
	probes = append(probes, fontProbes()...)
	probes = append(probes, securityToolProbes()...)
	probes = append(probes, devToolProbes()...)
	probes = append(probes, cdnProbes()...)
	probes = append(probes, otherProbes()...)
	probes = append(probes, securitySweepProbes()...)
	return probes
}

func js(label string, test predicate) Probe {
	return Probe{Category: model.CategoryJavaScript, Label: label, Test: test}
}

func sec(label string, test predicate) Probe {
	return Probe{Category: model.CategorySecurity, Label: label, Test: test}
}

func javascriptProbes() []Probe {
	return []Probe{
		js("React", any(hasGlobal("React"), query("[data-reactroot]", "[data-react-checksum]"), all(query("#root"), hasGlobal("__REACT_DEVTOOLS_GLOBAL_HOOK__")), scriptSrc("react"))),
		js("Vue.js", any(hasGlobal("Vue", "__VUE__"), query(`[data-server-rendered="true"]`), scriptSrc("vue"))),
		js("Angular", any(hasGlobal("angular", "ng", "getAllAngularRootElements"), query("[ng-app]", "[data-ng-app]", "[ng-version]"), scriptSrc("angular"))),
		js("jQuery", any(hasGlobal("jQuery", "$"), scriptSrc("jquery"))),
		js("Bootstrap", any(hasGlobal("bootstrap"), query(`[class*="btn-"]`), scriptSrc("bootstrap"))),
		js("Lodash", any(hasGlobal("_"), scriptSrc("lodash"))),
		js("D3.js", any(hasGlobal("d3"), scriptSrc("d3.js", "d3.min"))),
		js("Three.js", hasGlobal("THREE")),
		js("Chart.js", any(hasGlobal("Chart"), scriptSrc("chart.js"))),
		js("Moment.js", any(hasGlobal("moment"), scriptSrc("moment"))),
		js("Axios", any(hasGlobal("axios"), scriptSrc("axios"))),
		js("Next.js", any(hasGlobal("__NEXT_DATA__"), query("#__next"), scriptSrc("_next"))),
		js("Nuxt.js", any(hasGlobal("__NUXT__"), query("#__nuxt"), scriptSrc("_nuxt"))),
		js("Gatsby", any(hasGlobal("___gatsby"), query("#gatsby-focus-wrapper"), scriptSrc("gatsby"))),
		js("Ember.js", any(hasGlobal("Ember"), query("#ember-app"))),
		js("Backbone.js", hasGlobal("Backbone")),
		js("Knockout.js", hasGlobal("ko")),
		js("Alpine.js", any(hasGlobal("Alpine"), query("[x-data]", "[x-show]"))),
		js("Svelte", any(hasGlobal("__SVELTE__"), query(`[class*="svelte-"]`))),
		js("Meteor", hasGlobal("Meteor", "Package")),
		js("Polymer", hasGlobal("Polymer")),
		js("Preact", hasGlobal("preact", "__PREACT_DEVTOOLS__")),
		js("Stimulus", any(hasGlobal("Stimulus"), query("[data-controller]"))),
		js("Turbo", any(hasGlobal("Turbo"), query(`meta[name="turbo-cache-control"]`))),
		js("HTMX", any(hasGlobal("htmx"), query("[hx-get]", "[hx-post]"))),
		js("Socket.io", hasGlobal("io")),
		js("RxJS", hasGlobal("Rx", "rxjs")),
		js("Redux", hasGlobal("Redux", "__REDUX_DEVTOOLS_EXTENSION__")),
		js("MobX", hasGlobal("mobx")),
		js("Apollo", hasGlobal("Apollo", "__APOLLO_CLIENT__")),
	}
}

func cssProbes() []Probe {
	css := func(label string, test predicate) Probe {
		return Probe{Category: model.CategoryCSS, Label: label, Test: test}
	}
	return []Probe{
		css("Bootstrap", any(linkHref("bootstrap"), query(".container", ".row"))),
		css("Tailwind CSS", any(linkHref("tailwind"), query(`[class*="bg-"]`, `[class*="text-"]`))),
		css("Bulma", any(linkHref("bulma"), query(".hero", ".navbar"))),
		css("Foundation", any(linkHref("foundation"), query(".foundation-sites"))),
		css("Materialize", any(linkHref("materialize"), query(".material-icons"))),
		css("Semantic UI", any(linkHref("semantic"), query(".ui.button"))),
		css("Animate.css", any(linkHref("animate"), query(`[class*="animate__"]`))),
	}
}

func cmsProbes() []Probe {
	cms := func(label string, test predicate) Probe {
		return Probe{Category: model.CategoryCMS, Label: label, Test: test}
	}
	return []Probe{
		cms("WordPress", any(metaGenerator("WordPress"), linkHref("wp-content", "wp-includes"), scriptSrc("wp-content"), query(`body[class*="wordpress"]`), hasGlobal("wp"))),
		cms("Drupal", any(metaGenerator("Drupal"), scriptSrc("drupal"), query(`body[class*="drupal"]`, "[data-drupal-selector]"), hasGlobal("Drupal"))),
		cms("Joomla", any(metaGenerator("Joomla"), scriptSrc("joomla", "/media/system/js/"), hasGlobal("Joomla"))),
		cms("Magento", any(scriptSrc("mage"), query(`body[class*="cms-"]`, `[data-container="body"]`), hasGlobal("Magento"))),
		cms("Shopify", any(scriptSrc("shopify", "shop.app"), linkHref("shopify"), hasGlobal("Shopify"))),
		cms("Squarespace", any(scriptSrc("squarespace"), linkHref("squarespace"), query(`body[id*="squarespace"]`))),
		cms("Wix", any(metaGenerator("Wix"), scriptSrc("wix", "wixstatic"))),
		cms("Webflow", any(metaGenerator("Webflow"), scriptSrc("webflow"))),
		cms("PrestaShop", any(metaGenerator("PrestaShop"), scriptSrc("prestashop"))),
		cms("TYPO3", any(metaGenerator("TYPO3"), scriptSrc("typo3"))),
		cms("Ghost", any(metaGenerator("Ghost"), scriptSrc("ghost.org"))),
		cms("Craft CMS", any(scriptSrc("craftcms"), query("[data-craft]"))),
		cms("Contentful", any(scriptSrc("contentful"), hasGlobal("contentful"))),
		cms("Strapi", any(scriptSrc("strapi"), hasGlobal("strapi"))),
	}
}

func analyticsProbes() []Probe {
	an := func(label string, test predicate) Probe {
		return Probe{Category: model.CategoryAnalytics, Label: label, Test: test}
	}
	return []Probe{
		an("Google Analytics", any(hasGlobal("gtag", "ga", "_gaq"), scriptSrc("google-analytics", "gtag"))),
		an("Google Tag Manager", any(hasGlobal("dataLayer"), scriptSrc("googletagmanager"))),
		an("Facebook Pixel", any(hasGlobal("fbq"), scriptSrc("facebook"))),
		an("Hotjar", any(hasGlobal("hj"), scriptSrc("hotjar"))),
		an("Mixpanel", hasGlobal("mixpanel")),
		an("Adobe Analytics", hasGlobal("s_account", "_satellite")),
		an("Segment", hasGlobal("analytics")),
		an("Intercom", hasGlobal("Intercom")),
		an("Zendesk", hasGlobal("zE")),
		an("Drift", hasGlobal("drift")),
	}
}

func fontProbes() []Probe {
	font := func(label string, test predicate) Probe {
		return Probe{Category: model.CategoryFonts, Label: label, Test: test}
	}
	return []Probe{
		font("Google Fonts", linkHref("fonts.googleapis.com")),
		font("Adobe Fonts", linkHref("fonts.adobe.com", "typekit.net")),
		font("Hoefler&Co Cloud Typography", linkHref("cloud.typography.com")),
		font("Font Awesome", any(linkHref("font-awesome"), scriptSrc("font-awesome"), query(".fa", `[class*="fa-"]`))),
	}
}

func securityToolProbes() []Probe {
	return []Probe{
		sec("reCAPTCHA", any(hasGlobal("grecaptcha"), query(".g-recaptcha"), scriptSrc("recaptcha"))),
		sec("hCaptcha", any(hasGlobal("hcaptcha"), query(".h-captcha"), scriptSrc("hcaptcha"))),
		sec("Cloudflare Bot Management", any(scriptSrc("cf-bm"), hasGlobal("__CF$cv$params"))),
		sec("Imperva", scriptSrc("incapsula", "imperva")),
		sec("DataDome", any(hasGlobal("DD_RUM"), scriptSrc("datadome"))),
		sec("PerimeterX", any(hasGlobal("_pxAppId"), scriptSrc("perimeterx"))),
		sec("Akamai Bot Manager", any(scriptSrc("akam.net"), hasGlobal("_akamai"))),
		sec("Sucuri", scriptSrc("sucuri")),
		sec("CSP Reporting", query(`meta[http-equiv="Content-Security-Policy"][content*="report-uri"]`)),
		sec("Subresource Integrity", query("script[integrity]", "link[integrity]")),
	}
}

func devToolProbes() []Probe {
	dev := func(label string, test predicate) Probe {
		return Probe{Category: model.CategoryDevelopment, Label: label, Test: test}
	}
	return []Probe{
		dev("React DevTools", hasGlobal("__REACT_DEVTOOLS_GLOBAL_HOOK__")),
		dev("Vue DevTools", hasGlobal("__VUE_DEVTOOLS_GLOBAL_HOOK__")),
		dev("Redux DevTools", hasGlobal("__REDUX_DEVTOOLS_EXTENSION__")),
		dev("Webpack", any(hasGlobal("webpackJsonp"), scriptSrc("webpack"))),
		dev("Vite", query(`script[type="module"][src*="@vite"]`)),
		dev("Babel", scriptSrc("babel")),
		dev("Source Maps", query(`script[src$=".map"]`, `link[href$=".map"]`)),
		dev("Hot Module Replacement", hasGlobal("webpackHotUpdate", "__HMR_PORT__")),
		dev("Error Tracking", hasGlobal("Sentry", "Rollbar", "Bugsnag", "TrackJS")),
		dev("Performance Monitoring", hasGlobal("newrelic")),
		dev("Development/Staging Environment", any(locationContains("//dev.", ".dev.", "staging", "//test.", ".test."), query(`meta[name="environment"][content*="dev"]`))),
	}
}

func cdnProbes() []Probe {
	cdn := func(label string, test predicate) Probe {
		return Probe{Category: model.CategoryCDN, Label: label, Test: test}
	}
	return []Probe{
		cdn("Cloudflare", any(scriptSrc("cloudflare"), linkHref("cloudflare"))),
		cdn("jsDelivr", any(scriptSrc("jsdelivr"), linkHref("jsdelivr"))),
		cdn("unpkg", scriptSrc("unpkg.com")),
		cdn("cdnjs", any(scriptSrc("cdnjs.cloudflare.com"), linkHref("cdnjs.cloudflare.com"))),
		cdn("Google CDN", any(scriptSrc("googleapis.com"), linkHref("googleapis.com"))),
		cdn("Microsoft CDN", scriptSrc("aspnetcdn.com", "ajax.microsoft.com")),
		cdn("Amazon CloudFront", any(scriptSrc("cloudfront.net"), linkHref("cloudfront.net"))),
		cdn("KeyCDN", any(scriptSrc("keycdn.com"), linkHref("keycdn.com"))),
		cdn("MaxCDN", any(scriptSrc("maxcdn.com"), linkHref("maxcdn.com"))),
		cdn("Fastly", any(scriptSrc("fastly.com"), linkHref("fastly.com"))),
		cdn("Azure CDN", any(scriptSrc("azureedge.net"), linkHref("azureedge.net"))),
		cdn("StackPath", any(scriptSrc("stackpath.com"), linkHref("stackpath.com"))),
	}
}

func otherProbes() []Probe {
	other := func(label string, test predicate) Probe {
		return Probe{Category: model.CategoryOther, Label: label, Test: test}
	}
	return []Probe{
		other("Hugo", metaGenerator("Hugo")),
		other("Jekyll", metaGenerator("Jekyll")),
	}
}

// securitySweepProbes ports the attack-surface sweep: weak signals that feed
// the recommendation rules rather than identify a product.
func securitySweepProbes() []Probe {
	return []Probe{
		sec("SQL Injection Risk Indicators", any(
			query(`form input[name*="id"]`, `form input[name*="user"]`, `form input[name*="search"]`, `form input[name*="query"]`),
			bodyMatches(sqlErrRe),
		)),
		sec("XXE Vulnerability Risk", query(`form[enctype*="xml"]`, `form input[type="file"][accept*="xml"]`)),
		sec("SSRF Risk Indicators", query(`input[name*="url"]`, `input[name*="link"]`, `input[name*="callback"]`, `input[name*="redirect"]`, "[data-webhook]", "[data-callback]")),
		sec("Command Injection Risk", query(`input[name*="cmd"]`, `input[name*="command"]`, `input[name*="exec"]`, `input[name*="system"]`)),
		sec("Path Traversal Risk", query(`input[name*="file"]`, `input[name*="path"]`, `input[name*="dir"]`, `a[href*="download"]`)),
		sec("File Upload Functionality", query(`input[type="file"]`)),
		sec("Unrestricted File Upload Risk", query(`input[type="file"]:not([accept])`, `input[type="file"][accept*="*"]`)),
		sec("Deserialization Risk", inlineHas("unserialize")),
		sec("Template Engine Detected (SSTI Risk)", htmlMatches(sstiRe)),
		sec("Cache Implementation Detected", query(`meta[http-equiv*="cache"]`, "[data-cache]")),
		sec("POST Request Forms (Smuggling Risk)", query(`form[method="POST"]`, `form[method="post"]`)),
		sec("WebSocket Implementation", any(hasGlobal("WebSocket"), inlineHas("new WebSocket"))),
		sec("Insecure WebSocket (ws://) Detected", inlineHas("ws://")),
		sec("JWT Tokens in Local Storage", func(s snapshot.Snapshot) bool {
			return storageHasToken(s.StorageEntries())
		}),
		sec("JWT Tokens in Session Storage", func(s snapshot.Snapshot) bool {
			return storageHasToken(s.SessionEntries())
		}),
		sec("GraphQL Implementation", any(query("[data-graphql]", `script[src*="graphql"]`), hasGlobal("GraphQL"), bodyMatches(graphqlRe))),
		sec("NoSQL Database Indicators", any(hasGlobal("MongoDB", "mongoose"), scriptSrc("mongo"))),
		sec("Prototype Pollution Risk", any(inlineHas("prototype", "merge"), inlineHas("prototype", "extend"))),
		sec("Authentication Forms Detected", query(`form[action*="login"]`, `form[action*="auth"]`, "#login-form", ".login-form")),
		sec("Remember Me Functionality", query(`input[name*="remember"]`, `input[id*="remember"]`)),
		sec("Price/Quantity Manipulation Risk", query(`input[name*="price"]`, `input[name*="amount"]`, `input[name*="quantity"]`)),
		sec("Discount/Coupon Logic", query(`input[name*="discount"]`, `input[name*="coupon"]`, `input[name*="promo"]`)),
		sec("Administrative Interface Links", query(`a[href*="/admin"]`, `a[href*="/management"]`, `a[href*="/dashboard"]`)),
		sec("User ID Exposure Risk", query(`[name*="user_id"]`, `[name*="userId"]`, "[data-user-id]")),
		sec("CSRF Token Missing", func(s snapshot.Snapshot) bool {
			if !s.Query(`form[method="post"]`) && !s.Query(`form[method="POST"]`) {
				return false
			}
			return !s.Query(`form input[name*="csrf"]`) && !s.Query(`form input[name*="token"]`) && !s.Query(`form input[name="authenticity_token"]`)
		}),
		sec("JSON-based CSRF Risk", inlineHas("application/json", "POST")),
		sec("Clickjacking Vulnerability Risk", all(
			query(`button[onclick*="delete"]`, `input[type="submit"][value*="Delete"]`),
			func(s snapshot.Snapshot) bool { return !inlineHas("top.location")(s) && !inlineHas("frameElement")(s) },
		)),
		sec("Wildcard CORS Origin Detected", inlineHas("Access-Control-Allow-Origin", "*")),
		sec("CORS with Credentials", inlineHas("withCredentials: true")),
		sec("Drag & Drop File Upload", query("[ondrop]", "[data-drop]", ".dropzone", ".file-drop")),
		sec("AJAX File Upload", inlineHas("FormData", "upload")),
		sec("Insecure WebSocket Protocol", all(inlineHas("new WebSocket"), func(s snapshot.Snapshot) bool { return !inlineHas("wss://")(s) })),
		sec("User-Controlled Eval Risk", inlineHas("eval(", "user")),
		sec("Financial Race Condition Risk", query(`form input[name*="amount"]`, `form input[name*="balance"]`)),
		sec("Chatbot Interface Detected", query(".chat", ".chatbot", "#chat", "[data-chat]", `[class*="conversation"]`)),
		sec("LLM Prompt Injection Vector", query(`input[name*="prompt"]`, `textarea[name*="prompt"]`, `input[name*="query"]`)),
		sec("CDN Cache Poisoning Target", scriptSrc("cloudflare", "cloudfront", "fastly", "akamai", "maxcdn")),
		sec("GET Parameter Cache Keys", query(`form[method="get"]`, `form[method="GET"]`)),
		sec("User-Agent Dependent Content", inlineHas("navigator.userAgent")),
		sec("HTTP Header Manipulation Risk", any(inlineHas("Transfer-Encoding"), inlineHas("Content-Length"))),
		sec("DOM Manipulation Risk", any(inlineHas("innerHTML", "user"), inlineHas("document.write", "user"))),
		sec("Location Manipulation Risk", any(inlineHas("location.href"), inlineHas("window.location"))),
		sec("PostMessage Without Origin Check", all(inlineHas("postMessage"), func(s snapshot.Snapshot) bool { return !inlineHas("origin")(s) })),
		sec("OAuth Attack Surface", query(`a[href*="oauth"]`, `a[href*="/auth"]`)),
		sec("Social OAuth Providers", query(`[class*="google"]`, `[class*="facebook"]`, `[class*="github"]`)),
		sec("OAuth Redirect URI", locationContains("redirect_uri", "callback")),
		sec("CAPTCHA Protection (WAF Bypass Target)", query(`form input[name*="captcha"]`, "form .g-recaptcha")),
		sec("Email Out-of-Band Vector", query(`form[action*="email"]`, `form[action*="contact"]`, `input[name*="email"]`)),
		sec("DNS Resolution OOB Vector", query("[data-dns]", `input[name*="domain"]`, `input[name*="host"]`)),
	}
}
