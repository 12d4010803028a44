package adapters

import (
	"time"

	"litfed-backend/internal/config"
)

// BuildDescriptors turns application configuration into the ordered
// descriptor table spec §9 calls for: one entry per source the federation
// knows about, regardless of whether its credentials are present. Registry
// construction decides what to do with a disabled source or a missing
// credential; this function only describes what configuration says.
func BuildDescriptors(cfg *config.Config) []Descriptor {
	p := cfg.Providers
	return []Descriptor{
		{
			Name:    "arxiv",
			Family:  FamilyArxiv,
			BaseURL: p.ArXiv.BaseURL,
			Timeout: seconds(p.ArXiv.Timeout),
			Enabled: p.ArXiv.Enabled,
		},
		{
			Name:         "pubmed",
			Family:       FamilyPubMed,
			BaseURL:      p.PubMed.BaseURL,
			APIKey:       p.PubMed.APIKey,
			ContactEmail: p.PubMed.Email,
			Timeout:      seconds(p.PubMed.Timeout),
			Enabled:      p.PubMed.Enabled,
		},
		{
			Name:        "semantic_scholar",
			Family:      FamilySemanticScholar,
			BaseURL:     p.SemanticScholar.BaseURL,
			APIKey:      p.SemanticScholar.APIKey,
			Timeout:     seconds(p.SemanticScholar.Timeout),
			RequiresKey: false, // Semantic Scholar allows unauthenticated, rate-limited access
			Enabled:     p.SemanticScholar.Enabled,
		},
		{
			Name:         "crossref",
			Family:       FamilyCrossRef,
			BaseURL:      p.CrossRef.BaseURL,
			ContactEmail: p.CrossRef.Email,
			Timeout:      seconds(p.CrossRef.Timeout),
			Enabled:      p.CrossRef.Enabled,
		},
		{
			Name:        "core",
			Family:      FamilyCORE,
			BaseURL:     p.CORE.BaseURL,
			APIKey:      p.CORE.APIKey,
			Timeout:     seconds(p.CORE.Timeout),
			RequiresKey: true,
			Enabled:     p.CORE.Enabled,
		},
		{
			Name:    "openalex",
			Family:  FamilyOpenAlex,
			BaseURL: p.OpenAlex.BaseURL,
			Timeout: seconds(p.OpenAlex.Timeout),
			Enabled: p.OpenAlex.Enabled,
		},
		{
			Name:    "europe_pmc",
			Family:  FamilyEuropePMC,
			BaseURL: p.EuropePMC.BaseURL,
			Timeout: seconds(p.EuropePMC.Timeout),
			Enabled: p.EuropePMC.Enabled,
		},
		{
			Name:    "biorxiv",
			Family:  FamilyPreprint,
			BaseURL: p.BioRxiv.BaseURL,
			Timeout: seconds(p.BioRxiv.Timeout),
			Enabled: p.BioRxiv.Enabled,
		},
		{
			Name:        "springer",
			Family:      FamilyGeneral,
			BaseURL:     p.Springer.BaseURL,
			APIKey:      p.Springer.APIKey,
			Timeout:     seconds(p.Springer.Timeout),
			RequiresKey: true,
			Enabled:     p.Springer.Enabled,
		},
		{
			Name:        "ieee",
			Family:      FamilyGeneral,
			BaseURL:     p.IEEE.BaseURL,
			APIKey:      p.IEEE.APIKey,
			Timeout:     seconds(p.IEEE.Timeout),
			RequiresKey: true,
			Enabled:     p.IEEE.Enabled,
		},
		{
			Name:        "elsevier",
			Family:      FamilyGeneral,
			BaseURL:     p.Elsevier.BaseURL,
			APIKey:      p.Elsevier.APIKey,
			Timeout:     seconds(p.Elsevier.Timeout),
			RequiresKey: true,
			Enabled:     p.Elsevier.Enabled,
		},
		{
			Name:        "dimensions",
			Family:      FamilyGeneral,
			BaseURL:     p.Dimensions.BaseURL,
			APIKey:      p.Dimensions.APIKey,
			Timeout:     seconds(p.Dimensions.Timeout),
			RequiresKey: true,
			Enabled:     p.Dimensions.Enabled,
		},
		{
			Name:        "lens",
			Family:      FamilyGeneral,
			BaseURL:     p.Lens.BaseURL,
			APIKey:      p.Lens.APIKey,
			Timeout:     seconds(p.Lens.Timeout),
			RequiresKey: true,
			Enabled:     p.Lens.Enabled,
		},
		{
			Name:        "scopus",
			Family:      FamilyScopus,
			BaseURL:     p.Scopus.BaseURL,
			APIKey:      p.Scopus.APIKey,
			Timeout:     seconds(p.Scopus.Timeout),
			RequiresKey: true,
			Enabled:     p.Scopus.Enabled,
		},
		{
			Name:        "web_of_science",
			Family:      FamilyWebOfScience,
			BaseURL:     p.WebOfScience.BaseURL,
			APIKey:      p.WebOfScience.APIKey,
			Timeout:     seconds(p.WebOfScience.Timeout),
			RequiresKey: true,
			Enabled:     p.WebOfScience.Enabled,
		},
		{
			Name:        "google_scholar", // Exa-backed Google-Scholar-class adapter, spec §9
			Family:      FamilyGoogleScholar,
			BaseURL:     p.Exa.BaseURL,
			APIKey:      p.Exa.APIKey,
			Timeout:     seconds(p.Exa.Timeout),
			RequiresKey: true,
			Enabled:     p.Exa.Enabled,
		},
		{
			Name:        "general_web", // Tavily-backed alternative/general search adapter, spec §9
			Family:      FamilyGeneral,
			BaseURL:     p.Tavily.BaseURL,
			APIKey:      p.Tavily.APIKey,
			Timeout:     seconds(p.Tavily.Timeout),
			RequiresKey: true,
			Enabled:     p.Tavily.Enabled,
		},
		{
			Name:        "serpapi_scholar",
			Family:      FamilyGoogleScholar,
			BaseURL:     p.SerpAPI.BaseURL,
			APIKey:      p.SerpAPI.APIKey,
			Timeout:     seconds(p.SerpAPI.Timeout),
			RequiresKey: true,
			Enabled:     p.SerpAPI.Enabled,
		},
	}
}

func seconds(d string) int {
	if d == "" {
		return 0
	}
	parsed, err := time.ParseDuration(d)
	if err != nil {
		return 0
	}
	return int(parsed.Seconds())
}
