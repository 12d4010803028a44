package adapters

import "log/slog"

// buildAdapter dispatches a Descriptor to its concrete adapter constructor.
// Returns nil for a name the registry doesn't know how to build, which the
// caller treats the same as "omit this source" — unpaywall, for instance,
// is consumed directly by the full-text resolver rather than registered as
// a search source.
func buildAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) Adapter {
	switch d.Name {
	case "arxiv":
		return newArxivAdapter(d, rl, logger)
	case "pubmed":
		return newPubmedAdapter(d, rl, logger)
	case "semantic_scholar":
		return newSemanticScholarAdapter(d, rl, logger)
	case "crossref":
		return newCrossrefAdapter(d, rl, logger)
	case "openalex":
		return newOpenAlexAdapter(d, rl, logger)
	case "europe_pmc":
		return newEuropePMCAdapter(d, rl, logger)
	case "biorxiv":
		return newBiorxivAdapter(d, rl, logger)
	case "core":
		return newCoreAdapter(d, rl, logger)
	case "springer":
		return newSpringerAdapter(d, rl, logger)
	case "ieee":
		return newIEEEAdapter(d, rl, logger)
	case "elsevier":
		return newElsevierAdapter(d, rl, logger)
	case "dimensions":
		return newDimensionsAdapter(d, rl, logger)
	case "lens":
		return newLensAdapter(d, rl, logger)
	case "scopus":
		return newScopusAdapter(d, rl, logger)
	case "web_of_science":
		return newWoSAdapter(d, rl, logger)
	case "google_scholar":
		return newExaAdapter(d, rl, logger)
	case "general_web":
		return newTavilyAdapter(d, rl, logger)
	case "serpapi_scholar":
		return newSerpAPIScholarAdapter(d, rl, logger)
	default:
		return nil
	}
}
