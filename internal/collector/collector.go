// Package collector drives a full analysis of a target: it fetches response
// headers over one branch, captures and probes a page snapshot over the
// other, joins both into a single indicator bag and feeds the bag to the
// recommendation engine. Either branch may fail without losing the analysis;
// the result is marked degraded instead.
package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pentrail/pentrail/internal/detect"
	"github.com/pentrail/pentrail/internal/engine"
	"github.com/pentrail/pentrail/internal/logging"
	"github.com/pentrail/pentrail/internal/model"
	"github.com/pentrail/pentrail/internal/snapshot"
	"github.com/pentrail/pentrail/internal/webclient"
)

// Collector runs analyses.
type Collector struct {
	client   webclient.WebClient
	capturer snapshot.Capturer
	runner   *detect.Runner
	engine   *engine.Engine
	logger   logging.Logger
}

// New assembles a collector. Nil parts get working defaults.
func New(client webclient.WebClient, capturer snapshot.Capturer, eng *engine.Engine, logger logging.Logger) *Collector {
	if logger == nil {
		logger = &logging.NopLogger{}
	}
	if client == nil {
		client = webclient.NewNetHTTPClient(logger, nil)
	}
	if capturer == nil {
		capturer = snapshot.NewStaticCapturer(client, logger)
	}
	if eng == nil {
		eng = engine.New(logger)
	}
	return &Collector{
		client:   client,
		capturer: capturer,
		runner:   detect.NewRunner(logger),
		engine:   eng,
		logger:   logger,
	}
}

// Analyze runs the analysis kind against the target URL.
func (c *Collector) Analyze(ctx context.Context, target string, kind model.AnalysisKind) (*model.Analysis, error) {
	if !model.ValidKind(string(kind)) {
		return nil, fmt.Errorf("unknown analysis kind %q", kind)
	}
	parsed, err := validateTarget(target)
	if err != nil {
		return nil, err
	}

	c.logger.Info("analysis started",
		logging.Field{Key: "component", Value: "collector"},
		logging.Field{Key: "url", Value: target},
		logging.Field{Key: "kind", Value: string(kind)},
	)

	switch kind {
	case model.KindHeaders:
		return c.analyzeHeaders(ctx, target)
	case model.KindTechnology:
		return c.analyzeTechnology(ctx, target)
	default:
		return c.analyzeCertificate(ctx, target, parsed)
	}
}

func validateTarget(target string) (*url.URL, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL %q: %w", target, err)
	}
	switch parsed.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported target scheme %q: only http and https can be analyzed", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("target URL %q has no host", target)
	}
	return parsed, nil
}

func (c *Collector) evaluate(kind model.AnalysisKind, bag *model.IndicatorBag) *model.RecommendationSet {
	set := c.engine.Evaluate(kind, bag)
	return &set
}

func newAnalysis(target string, kind model.AnalysisKind) *model.Analysis {
	return &model.Analysis{
		ID:        uuid.NewString(),
		URL:       target,
		Kind:      kind,
		Bag:       model.NewIndicatorBag(),
		CreatedAt: time.Now().UTC(),
	}
}

// analyzeHeaders performs the metadata-only header inspection.
func (c *Collector) analyzeHeaders(ctx context.Context, target string) (*model.Analysis, error) {
	a := newAnalysis(target, model.KindHeaders)

	resp, err := c.client.Head(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve headers for %s: %w", target, err)
	}
	a.Bag.Headers = resp.HeaderMap()

	a.ServerInfo = deriveServerInfo(a.Bag.Headers)
	a.Cookies = deriveCookieReport(a.Bag.Headers)
	a.Disclosures = deriveDisclosures(a.Bag.Headers)
	a.Caching = deriveCacheReport(a.Bag.Headers)
	a.Score = engine.Score(a.Bag.Headers)
	a.Recommendations = c.evaluate(model.KindHeaders, a.Bag)
	return a, nil
}

// analyzeTechnology joins the snapshot probe branch with the header branch.
// One failed branch degrades the analysis; both failing is an error.
func (c *Collector) analyzeTechnology(ctx context.Context, target string) (*model.Analysis, error) {
	a := newAnalysis(target, model.KindTechnology)

	snap, snapErr := c.capturer.Capture(ctx, target)
	if snapErr == nil {
		defer snap.Close()
		c.runner.Run(snap, a.Bag)
	} else {
		a.Degraded = append(a.Degraded, "page snapshot unavailable: "+snapErr.Error())
		c.logger.Warn("snapshot branch failed",
			logging.Field{Key: "component", Value: "collector"},
			logging.Field{Key: "url", Value: target},
			logging.Field{Key: "error", Value: snapErr.Error()},
		)
	}

	resp, headErr := c.client.Head(ctx, target)
	if headErr == nil {
		a.Bag.Headers = resp.HeaderMap()
		addHeaderTech(a.Bag)
		a.ServerInfo = deriveServerInfo(a.Bag.Headers)
	} else {
		a.Degraded = append(a.Degraded, "response headers unavailable: "+headErr.Error())
		c.logger.Warn("header branch failed",
			logging.Field{Key: "component", Value: "collector"},
			logging.Field{Key: "url", Value: target},
			logging.Field{Key: "error", Value: headErr.Error()},
		)
	}

	if snapErr != nil && headErr != nil {
		return nil, fmt.Errorf("could not detect technologies for %s: %w", target, snapErr)
	}

	a.Recommendations = c.evaluate(model.KindTechnology, a.Bag)
	return a, nil
}

// analyzeCertificate inspects transport security posture. Plain-HTTP targets
// are still analyzed: the missing TLS itself is the finding.
func (c *Collector) analyzeCertificate(ctx context.Context, target string, parsed *url.URL) (*model.Analysis, error) {
	a := newAnalysis(target, model.KindCertificate)

	if parsed.Scheme != "https" {
		a.Bag.Add(model.CategorySecurity, engine.InsecureTransportSignal)
		a.Recommendations = c.evaluate(model.KindCertificate, a.Bag)
		return a, nil
	}

	resp, err := c.client.Head(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("could not inspect certificate posture for %s: %w", target, err)
	}
	a.Bag.Headers = resp.HeaderMap()

	hsts := engine.ParseHSTS(a.Bag.Headers["strict-transport-security"])
	a.HSTS = &hsts
	a.Recommendations = c.evaluate(model.KindCertificate, a.Bag)
	return a, nil
}

// addHeaderTech maps fingerprint headers onto technology signals, the
// header-side half of the technology join.
func addHeaderTech(bag *model.IndicatorBag) {
	if server := strings.ToLower(bag.Headers["server"]); server != "" {
		if strings.Contains(server, "apache") {
			bag.Add(model.CategoryServer, "Apache")
		}
		if strings.Contains(server, "nginx") {
			bag.Add(model.CategoryServer, "Nginx")
		}
		if strings.Contains(server, "iis") {
			bag.Add(model.CategoryServer, "IIS")
		}
		if strings.Contains(server, "cloudflare") {
			bag.Add(model.CategoryServer, "Cloudflare")
		}
	}
	if poweredBy := strings.ToLower(bag.Headers["x-powered-by"]); poweredBy != "" {
		if strings.Contains(poweredBy, "asp.net") {
			bag.Add(model.CategoryFramework, "ASP.NET")
		}
		if strings.Contains(poweredBy, "php") {
			bag.Add(model.CategoryFramework, "PHP")
		}
		if strings.Contains(poweredBy, "express") {
			bag.Add(model.CategoryFramework, "Express.js")
		}
		if strings.Contains(poweredBy, "django") {
			bag.Add(model.CategoryFramework, "Django")
		}
		if strings.Contains(poweredBy, "rails") {
			bag.Add(model.CategoryFramework, "Ruby on Rails")
		}
	}
	if generator := strings.ToLower(bag.Headers["x-generator"]); generator != "" {
		if strings.Contains(generator, "wordpress") {
			bag.Add(model.CategoryCMS, "WordPress")
		}
		if strings.Contains(generator, "drupal") {
			bag.Add(model.CategoryCMS, "Drupal")
		}
		if strings.Contains(generator, "joomla") {
			bag.Add(model.CategoryCMS, "Joomla")
		}
	}
}
