package fulltext

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

func parseTimeout(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// UnpaywallClient backs fulltext.WithUnpaywall with a real HTTP call to the
// Unpaywall API, grounded on the http.Client+timeout shape
// internal/adapters uses for every source, generalized here since
// full-text resolution only ever issues a single GET per DOI rather than a
// ranked search.
type UnpaywallClient struct {
	baseURL    string
	email      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewUnpaywallClient builds a client from the providers.unpaywall
// configuration section; baseURL/timeout fall back to sane defaults when
// left blank.
func NewUnpaywallClient(baseURL, email, timeout string, logger *slog.Logger) *UnpaywallClient {
	if baseURL == "" {
		baseURL = "https://api.unpaywall.org/v2"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UnpaywallClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		email:      email,
		httpClient: &http.Client{Timeout: parseTimeout(timeout, 10*time.Second)},
		logger:     logger,
	}
}

type unpaywallResponse struct {
	BestOALocation *struct {
		URLForPDF string `json:"url_for_pdf"`
		URL       string `json:"url"`
	} `json:"best_oa_location"`
}

// Lookup implements fulltext.UnpaywallLookup.
func (c *UnpaywallClient) Lookup(ctx context.Context, doi string) (string, bool) {
	endpoint := fmt.Sprintf("%s/%s?email=%s", c.baseURL, url.PathEscape(doi), url.QueryEscape(c.email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("unpaywall lookup failed", slog.String("doi", doi), slog.String("error", err.Error()))
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	var parsed unpaywallResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false
	}
	if parsed.BestOALocation == nil {
		return "", false
	}
	if parsed.BestOALocation.URLForPDF != "" {
		return parsed.BestOALocation.URLForPDF, true
	}
	if parsed.BestOALocation.URL != "" {
		return parsed.BestOALocation.URL, true
	}
	return "", false
}

// PMCClient backs fulltext.WithPMC via NCBI's ID Converter API, which maps
// a PubMed ID to a PubMed Central ID without requiring an API key.
type PMCClient struct {
	email      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewPMCClient builds a client reusing the providers.pubmed contact email
// NCBI asks every E-utilities caller to supply.
func NewPMCClient(timeout, contactEmail string, logger *slog.Logger) *PMCClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &PMCClient{
		email:      contactEmail,
		httpClient: &http.Client{Timeout: parseTimeout(timeout, 10*time.Second)},
		logger:     logger,
	}
}

type pmcIDConvResponse struct {
	Records []struct {
		PMCID string `json:"pmcid"`
		Status string `json:"status"`
	} `json:"records"`
}

// Lookup implements fulltext.PMCLookup.
func (c *PMCClient) Lookup(ctx context.Context, pubMedID string) (string, bool) {
	endpoint := fmt.Sprintf(
		"https://www.ncbi.nlm.nih.gov/pmc/utils/idconv/v1.0/?ids=%s&format=json&tool=litfed&email=%s",
		url.QueryEscape(pubMedID), url.QueryEscape(c.email),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("pmc id lookup failed", slog.String("pubmed_id", pubMedID), slog.String("error", err.Error()))
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	var parsed pmcIDConvResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false
	}
	if len(parsed.Records) == 0 || parsed.Records[0].PMCID == "" || parsed.Records[0].Status == "error" {
		return "", false
	}
	return fmt.Sprintf("https://www.ncbi.nlm.nih.gov/pmc/articles/%s/pdf/", parsed.Records[0].PMCID), true
}

// NewSciHubBypass returns the paywall-bypass lookup gated behind
// providers.scihub.enabled (spec §4.9 step 5): it deterministically
// constructs the mirror URL for a DOI rather than confirming the page
// resolves, since the bypass has no stable API to call against.
func NewSciHubBypass(baseURL string) PaywallBypassLookup {
	base := strings.TrimSuffix(baseURL, "/")
	if base == "" {
		base = "https://sci-hub.se"
	}
	return func(ctx context.Context, doi string) (string, bool) {
		if doi == "" {
			return "", false
		}
		return fmt.Sprintf("%s/%s", base, doi), true
	}
}
