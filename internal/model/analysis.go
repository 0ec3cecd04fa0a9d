package model

import "time"

// ServerInfo summarizes what the response headers disclose about the serving
// stack. Presentation artifact: the engine never reads it.
type ServerInfo struct {
	Server       string `json:"server"`
	PoweredBy    string `json:"powered_by,omitempty"`
	Technology   string `json:"technology,omitempty"`
	Runtime      string `json:"runtime,omitempty"`
	Generator    string `json:"generator,omitempty"`
	Framework    string `json:"framework,omitempty"`
	ASPNet       string `json:"aspnet_version,omitempty"`
	ASPNetMvc    string `json:"aspnetmvc_version,omitempty"`
	SourceMap    string `json:"source_map,omitempty"`
	LoadBalancer string `json:"load_balancer,omitempty"`
	CDN          string `json:"cdn,omitempty"`
	WebServer    string `json:"web_server,omitempty"`
	AppServer    string `json:"app_server,omitempty"`
}

// CookieReport lists Set-Cookie values and the flag issues found in them.
type CookieReport struct {
	Count   int      `json:"count"`
	Cookies []string `json:"cookies,omitempty"`
	Issues  []string `json:"issues,omitempty"`
}

// Disclosure is one information-disclosure finding derived from headers.
type Disclosure struct {
	Header      string `json:"header"`
	Value       string `json:"value"`
	Risk        string `json:"risk"`
	Description string `json:"description"`
}

// CacheReport captures caching directives and the issues observed in them.
type CacheReport struct {
	CacheControl string   `json:"cache_control,omitempty"`
	Expires      string   `json:"expires,omitempty"`
	ETag         string   `json:"etag,omitempty"`
	LastModified string   `json:"last_modified,omitempty"`
	Pragma       string   `json:"pragma,omitempty"`
	Vary         string   `json:"vary,omitempty"`
	Issues       []string `json:"issues,omitempty"`
}

// HSTS is the parsed Strict-Transport-Security policy.
type HSTS struct {
	Enabled           bool   `json:"enabled"`
	Header            string `json:"header,omitempty"`
	MaxAgeSeconds     int    `json:"max_age_seconds,omitempty"`
	MaxAgeDays        int    `json:"max_age_days,omitempty"`
	IncludeSubDomains bool   `json:"include_subdomains,omitempty"`
	Preload           bool   `json:"preload,omitempty"`
}

// Analysis is the full result of one analysis run. Created fresh per
// invocation; the store may hold it transiently keyed by ID.
type Analysis struct {
	ID   string       `json:"id"`
	URL  string       `json:"url"`
	Kind AnalysisKind `json:"kind"`

	Bag             *IndicatorBag      `json:"bag"`
	Recommendations *RecommendationSet `json:"recommendations"`

	// Score is the 0-100 header-posture score. Presentation artifact.
	Score int `json:"score"`

	ServerInfo  *ServerInfo   `json:"server_info,omitempty"`
	Cookies     *CookieReport `json:"cookies,omitempty"`
	Caching     *CacheReport  `json:"caching,omitempty"`
	Disclosures []Disclosure  `json:"disclosures,omitempty"`
	HSTS        *HSTS         `json:"hsts,omitempty"`

	// Degraded carries informational notes when one of the two indicator
	// sources was unavailable. Surfaced to the user, never to the engine.
	Degraded []string `json:"degraded,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
