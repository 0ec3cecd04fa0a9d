package engine

import "github.com/pentrail/pentrail/internal/model"

// seedAuxLists populates the always-present tool, scanner and manual-testing
// lists for the analysis kind. These are appended after rule evaluation so an
// empty bag still yields actionable baseline guidance.
func seedAuxLists(kind model.AnalysisKind, set *model.RecommendationSet) {
	switch kind {
	case model.KindTechnology:
		set.ToolExtensions = append(set.ToolExtensions,
			"Software Vulnerability Scanner",
			"Retire.js",
			"JavaScript Security Scanner",
			"Wappalyzer",
			"Technology Discovery",
			"CMS Scanner",
			"Framework Detection",
		)
		set.ScannerConfig = append(set.ScannerConfig,
			"Enable JavaScript analysis",
			"Configure technology-specific payloads",
			"Enable framework-specific checks",
			"Scan for known CVEs in detected technologies",
		)
		set.ManualTesting = append(set.ManualTesting,
			"Enumerate technology-specific endpoints",
			"Test default credentials for detected technologies",
			"Check for admin/debug interfaces",
			"Review technology documentation for attack vectors",
		)
	case model.KindCertificate:
		set.ToolExtensions = append(set.ToolExtensions,
			"SSL Scanner",
			"TLS Attacker",
			"Certificate Pinning Bypass",
			"SSL Kill Switch 2",
			"Certificate Transparency Monitor",
			"HSTS Bypass",
		)
		set.ScannerConfig = append(set.ScannerConfig,
			"Enable SSL/TLS vulnerability scanning",
			"Test both HTTP and HTTPS endpoints",
			"Configure custom certificates for testing",
			"Enable mixed content detection",
		)
		set.ManualTesting = append(set.ManualTesting,
			"Test certificate validation bypass",
			"Check for certificate chain issues",
			"Test SSL/TLS configuration weaknesses",
			"Verify certificate expiration handling",
			"Test subdomain certificate coverage",
		)
	default:
		set.ToolExtensions = append(set.ToolExtensions,
			"Active Scan++",
			"Param Miner",
			"Collaborator Everywhere",
			"Backslash Powered Scanner",
			"J2EEScan",
			"Software Vulnerability Scanner",
			"Retire.js",
			"CSP Auditor",
		)
		set.ScannerConfig = append(set.ScannerConfig,
			"Enable all injection checks",
			"Configure custom insertion points",
			"Set up Collaborator for out-of-band testing",
			"Enable JavaScript analysis",
			"Configure session handling rules",
		)
		set.ManualTesting = append(set.ManualTesting,
			"Spider the application thoroughly",
			"Test all input parameters manually",
			"Check for hidden/backup files",
			"Test HTTP methods (OPTIONS, PUT, DELETE)",
			"Examine robots.txt and sitemap.xml",
			"Test for admin interfaces",
		)
	}
}
