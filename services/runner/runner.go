package runner

import (
	"context"
	"time"

	"gearhunter/internal/gear"
	"gearhunter/internal/scraper"
	"gearhunter/logger"
	"gearhunter/pkg/errors"
	"gearhunter/services/notifier"
	"gearhunter/services/valuation"
)

// Skip records one listing dropped from the run with its reason
type Skip struct {
	ListingID string           `json:"listing_id"`
	Category  gear.Category    `json:"category"`
	Reason    errors.ErrorType `json:"reason"`
	Detail    string           `json:"detail"`
}

// CategoryFailure records one category whose scrape failed entirely
type CategoryFailure struct {
	Category gear.Category `json:"category"`
	Err      error         `json:"-"`
}

// Report is the per-run context object: everything one run produced,
// discarded when the run ends. A run produces both a deal list and a
// skip list; per-listing errors are never silently swallowed.
type Report struct {
	Scraped          int
	Deals            []gear.DealResult
	Skips            []Skip
	CategoryFailures []CategoryFailure
}

// Runner drives one batch run: scrape, normalize, valuate, resolve,
// classify, aggregate, notify. The pipeline is single-pass and synchronous;
// all suspension lives in the collaborators it calls.
type Runner struct {
	scrapers   []scraper.Scraper
	normalizer *gear.Normalizer
	valuer     valuation.Valuer
	resolver   *gear.Resolver
	classifier *gear.Classifier
	notifiers  []notifier.Notifier
	interval   time.Duration
	log        *logger.Logger
}

// NewRunner creates a runner
func NewRunner(
	scrapers []scraper.Scraper,
	normalizer *gear.Normalizer,
	valuer valuation.Valuer,
	resolver *gear.Resolver,
	classifier *gear.Classifier,
	notifiers []notifier.Notifier,
	interval time.Duration,
) *Runner {
	return &Runner{
		scrapers:   scrapers,
		normalizer: normalizer,
		valuer:     valuer,
		resolver:   resolver,
		classifier: classifier,
		notifiers:  notifiers,
		interval:   interval,
		log:        logger.ForRun(),
	}
}

// Start runs batches on the configured interval until the context is done
func (r *Runner) Start(ctx context.Context) error {
	for {
		start := time.Now()
		if _, err := r.RunOnce(ctx); err != nil {
			r.log.Error().Err(err).Msg("Run failed")
		}
		r.log.Info().Dur("elapsed", time.Since(start)).Msg("Run complete")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}
}

// RunOnce executes a single batch run. Per-listing and per-category
// failures are collected in the report and never abort the run; only a
// whole-batch valuation failure is returned as the run's error, and even
// then the report still carries the skips for the affected listings.
func (r *Runner) RunOnce(ctx context.Context) (*Report, error) {
	report := &Report{}

	listings := r.scrape(report)
	report.Scraped = len(listings)
	if len(listings) == 0 {
		r.log.Info().Msg("No listings scraped, nothing to valuate")
		return report, nil
	}

	r.log.Info().Int("listings", len(listings)).Msg("Collected ads, requesting batch valuation")

	estimates, err := r.valuer.EstimateBatch(ctx, listings)
	if err != nil {
		for _, l := range listings {
			report.Skips = append(report.Skips, Skip{
				ListingID: l.ID,
				Category:  l.Category,
				Reason:    errors.ErrorTypeValuationUnavailable,
				Detail:    err.Error(),
			})
		}
		return report, err
	}

	valued, failed := r.resolver.Resolve(listings, estimates)
	for _, ge := range failed {
		report.Skips = append(report.Skips, skipFromGearError(ge, listings))
	}

	var results []gear.DealResult
	for _, v := range valued {
		result, err := r.classifier.Classify(v)
		if err != nil {
			report.Skips = append(report.Skips, skipFromError(err, v.Listing))
			continue
		}
		results = append(results, result)
	}

	report.Deals = gear.Aggregate(results)

	r.log.Info().
		Int("scraped", report.Scraped).
		Int("skipped", len(report.Skips)).
		Int("deals", len(report.Deals)).
		Msg("Run classified")

	if len(report.Deals) > 0 {
		r.notify(ctx, report.Deals)
	}

	return report, nil
}

// scrape collects and normalizes the raw ads from every category. A failed
// category is recorded and skipped; the other categories still run.
func (r *Runner) scrape(report *Report) []gear.Listing {
	var listings []gear.Listing

	for _, s := range r.scrapers {
		raws, err := s.FetchListings()
		if err != nil {
			r.log.Error().Err(err).Str("scraper", s.GetName()).Msg("Category scrape failed")
			report.CategoryFailures = append(report.CategoryFailures, CategoryFailure{
				Category: s.Category(),
				Err:      err,
			})
			continue
		}

		for _, raw := range raws {
			l, err := r.normalizer.Normalize(raw)
			if err != nil {
				r.log.Warn().Err(err).Str("url", raw.URL).Msg("Dropping unnormalizable ad")
				report.Skips = append(report.Skips, Skip{
					ListingID: gear.ListingID(raw.URL),
					Category:  raw.Category,
					Reason:    errors.TypeOf(err),
					Detail:    err.Error(),
				})
				continue
			}
			listings = append(listings, l)
		}
	}

	return listings
}

// notify fans the deal list out to every notifier. Delivery failures are
// logged but do not fail the run; the deals are already in the report.
func (r *Runner) notify(ctx context.Context, deals []gear.DealResult) {
	for _, n := range r.notifiers {
		if err := n.Notify(ctx, deals); err != nil {
			r.log.Error().Err(err).Msg("Notifier failed")
		}
	}
}

// skipFromGearError builds a Skip from a resolver error, looking the
// category up from the scraped listings
func skipFromGearError(ge *errors.GearError, listings []gear.Listing) Skip {
	skip := Skip{
		ListingID: ge.ListingID,
		Reason:    ge.Type,
		Detail:    ge.Error(),
	}
	for _, l := range listings {
		if l.ID == ge.ListingID {
			skip.Category = l.Category
			break
		}
	}
	return skip
}

// skipFromError builds a Skip from a classification error
func skipFromError(err error, listing gear.Listing) Skip {
	return Skip{
		ListingID: listing.ID,
		Category:  listing.Category,
		Reason:    errors.TypeOf(err),
		Detail:    err.Error(),
	}
}
