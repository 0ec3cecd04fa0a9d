// Package demosite runs a small HTTP server whose pages can switch between a
// sloppy and a hardened security posture, for exercising the analyzer end to
// end without touching real targets.
package demosite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// DemoSite serves the demo pages.
type DemoSite struct {
	cfg      Config
	pages    map[string]PageDefinition
	profiles map[string]string // path -> current profile
	mu       sync.RWMutex
}

// NewDemoSite creates a demo site instance.
func NewDemoSite(cfg Config) *DemoSite {
	pages := GetAllPages()
	pageMap := make(map[string]PageDefinition)
	profiles := make(map[string]string)

	for _, p := range pages {
		pageMap[p.Path] = p
		profiles[p.Path] = cfg.InitialProfile
	}

	return &DemoSite{
		cfg:      cfg,
		pages:    pageMap,
		profiles: profiles,
	}
}

// Handler returns the site's HTTP handler.
func (s *DemoSite) Handler() http.Handler {
	mux := http.NewServeMux()

	for path := range s.pages {
		p := path // capture for closure
		mux.HandleFunc(p, s.pageHandler(p))
	}

	mux.HandleFunc("/demo/set-profile", s.setProfileHandler)
	mux.HandleFunc("/demo/profiles", s.profilesHandler)
	mux.HandleFunc("/static/", s.staticHandler)

	return mux
}

// Start starts the demo site and blocks.
func (s *DemoSite) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo site on http://localhost%s (profiles at /demo/profiles)\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *DemoSite) pageHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		pageDef, ok := s.pages[path]
		profile := s.profiles[path]
		s.mu.RUnlock()

		if !ok {
			http.NotFound(w, r)
			return
		}

		page, ok := pageDef.Profiles[profile]
		if !ok {
			page = pageDef.Profiles[ProfileSloppy]
		}

		for k, v := range page.Headers {
			if v != "" {
				w.Header().Set(k, v)
			}
		}
		for _, c := range page.Cookies {
			cookie := &http.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				HttpOnly: c.HttpOnly,
				Secure:   c.Secure,
			}
			switch c.SameSite {
			case "Strict":
				cookie.SameSite = http.SameSiteStrictMode
			case "Lax":
				cookie.SameSite = http.SameSiteLaxMode
			case "None":
				cookie.SameSite = http.SameSiteNoneMode
			}
			http.SetCookie(w, cookie)
		}

		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(page.HTML))
	}
}

func (s *DemoSite) staticHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	_, _ = w.Write([]byte("// demo static file: " + r.URL.Path + "\n"))
}

// setProfileHandler switches a page (or all pages, with path=*) to a profile.
func (s *DemoSite) setProfileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := r.FormValue("path")
	profile := r.FormValue("profile")
	if profile != ProfileSloppy && profile != ProfileHardened {
		http.Error(w, "Unknown profile", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if path == "*" {
		for p := range s.profiles {
			s.profiles[p] = profile
		}
	} else if _, ok := s.pages[path]; ok {
		s.profiles[path] = profile
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"path":    path,
		"profile": profile,
	})
}

func (s *DemoSite) profilesHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type PageInfo struct {
		Path           string `json:"path"`
		Description    string `json:"description"`
		CurrentProfile string `json:"current_profile"`
	}

	var pages []PageInfo
	for path, pageDef := range s.pages {
		pages = append(pages, PageInfo{
			Path:           path,
			Description:    pageDef.Description,
			CurrentProfile: s.profiles[path],
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pages)
}
