package errors

import (
	"net/http"
	"strings"
)

// ErrorClassifier determines error type and handling strategy
type ErrorClassifier struct {
	transientCodes  map[int]bool
	permanentCodes  map[int]bool
	timeoutPatterns []string
	networkPatterns []string
	rateLimitPatterns []string
}

// NewErrorClassifier creates a new error classifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{
		transientCodes: map[int]bool{
			http.StatusInternalServerError: true,
			http.StatusBadGateway:          true,
			http.StatusServiceUnavailable:  true,
			http.StatusGatewayTimeout:      true,
		},
		permanentCodes: map[int]bool{
			http.StatusBadRequest:          true,
			http.StatusUnauthorized:        true,
			http.StatusForbidden:           true,
			http.StatusNotFound:            true,
			http.StatusMethodNotAllowed:    true,
			http.StatusConflict:            true,
			http.StatusUnprocessableEntity: true,
		},
		timeoutPatterns: []string{
			"timeout",
			"deadline exceeded",
			"context canceled",
			"connection reset",
		},
		networkPatterns: []string{
			"connection refused",
			"no such host",
			"network unreachable",
			"connection reset",
			"broken pipe",
			"connection closed",
		},
		rateLimitPatterns: []string{
			"rate limit",
			"too many requests",
			"quota exceeded",
			"throttled",
		},
	}
}

// Classify determines the error type and creates a FederationError
func (ec *ErrorClassifier) Classify(err error) *FederationError {
	if err == nil {
		return nil
	}
	
	// Check if already classified
	if sciErr, ok := err.(*FederationError); ok {
		return sciErr
	}
	
	errStr := strings.ToLower(err.Error())
	
	// Classify based on error content
	switch {
	case ec.isTimeoutError(errStr):
		return NewError(ErrorTypeTimeout, "OPERATION_TIMEOUT", "Unknown operation timed out").
			WithCause(err).
			WithStack().
			Build()
	case ec.isNetworkError(errStr):
		return NewNetworkError("Network connectivity issue", err)
	case ec.isRateLimitError(errStr):
		return NewError(ErrorTypeRateLimit, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded").
			WithCause(err).
			WithStack().
			Build()
	case ec.isDatabaseError(errStr):
		return NewDatabaseError("database operation", err)
	default:
		return NewError(ErrorTypeTransient, "UNKNOWN", "Unknown error occurred").
			WithCause(err).
			WithStatusCode(http.StatusInternalServerError).
			WithStack().
			Retryable(false).
			Build()
	}
}

// ClassifyHTTPError classifies HTTP response errors
func (ec *ErrorClassifier) ClassifyHTTPError(statusCode int, body string) *FederationError {
	switch {
	case ec.transientCodes[statusCode]:
		return NewError(ErrorTypeTransient, "HTTP_ERROR", "HTTP request failed").
			WithDetail("status_code", statusCode).
			WithDetail("response_body", body).
			WithStatusCode(statusCode).
			Build()
	case ec.permanentCodes[statusCode]:
		return NewError(ErrorTypePermanent, "HTTP_ERROR", "HTTP request failed").
			WithDetail("status_code", statusCode).
			WithDetail("response_body", body).
			WithStatusCode(statusCode).
			Retryable(false).
			Build()
	case statusCode == http.StatusTooManyRequests:
		return NewError(ErrorTypeRateLimit, "HTTP_RATE_LIMIT", "HTTP rate limit exceeded").
			WithDetail("status_code", statusCode).
			WithDetail("response_body", body).
			Build()
	case statusCode == http.StatusRequestTimeout:
		return NewError(ErrorTypeTimeout, "HTTP_TIMEOUT", "HTTP request timed out").
			WithDetail("status_code", statusCode).
			WithDetail("response_body", body).
			Build()
	default:
		return NewError(ErrorTypeTransient, "HTTP_ERROR", "HTTP request failed").
			WithDetail("status_code", statusCode).
			WithDetail("response_body", body).
			WithStatusCode(statusCode).
			Build()
	}
}

// isTimeoutError checks if the error is a timeout error
func (ec *ErrorClassifier) isTimeoutError(errStr string) bool {
	for _, pattern := range ec.timeoutPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// isNetworkError checks if the error is a network error
func (ec *ErrorClassifier) isNetworkError(errStr string) bool {
	for _, pattern := range ec.networkPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// isRateLimitError checks if the error is a rate limit error
func (ec *ErrorClassifier) isRateLimitError(errStr string) bool {
	for _, pattern := range ec.rateLimitPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// isDatabaseError checks if the error is a database error
func (ec *ErrorClassifier) isDatabaseError(errStr string) bool {
	dbPatterns := []string{
		"database",
		"sql",
		"connection pool",
		"deadlock",
		"constraint",
		"foreign key",
		"duplicate key",
		"table doesn't exist",
		"column doesn't exist",
	}
	
	for _, pattern := range dbPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// adapterHostPatterns maps each registered source adapter (per
// internal/adapters.BuildDescriptors) to the substrings that identify one
// of its errors in a wrapped error string: the adapter's own name plus the
// host its base URL resolves to.
var adapterHostPatterns = map[string][]string{
	"arxiv":            {"arxiv", "export.arxiv.org"},
	"pubmed":           {"pubmed", "eutils.ncbi.nlm.nih.gov"},
	"semantic_scholar": {"semantic scholar", "semanticscholar.org"},
	"crossref":         {"crossref", "api.crossref.org"},
	"core":             {"core.ac.uk", "api.core.ac.uk"},
	"openalex":         {"openalex", "api.openalex.org"},
	"europe_pmc":       {"europe pmc", "europepmc.org"},
	"biorxiv":          {"biorxiv", "api.biorxiv.org"},
	"springer":         {"springer", "api.springernature.com"},
	"ieee":             {"ieee", "ieeexploreapi.ieee.org"},
	"elsevier":         {"elsevier", "sciencedirect", "api.elsevier.com"},
	"dimensions":       {"dimensions", "app.dimensions.ai"},
	"lens":             {"lens.org", "api.lens.org"},
	"scopus":           {"scopus", "api.elsevier.com"},
	"web_of_science":   {"web of science", "wos-api.clarivate.com"},
	"google_scholar":   {"exa", "api.exa.ai"},
	"general_web":      {"tavily", "api.tavily.com"},
	"serpapi_scholar":  {"serpapi", "serpapi.com"},
}

// isAdapterError checks if the error is from a specific named source adapter
func (ec *ErrorClassifier) isAdapterError(errStr string, adapter string) bool {
	for _, pattern := range adapterHostPatterns[adapter] {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// publisherKeyAdapters lists the single-API-key sources: those built on the
// shared REST-API-key-header template (internal/adapters/publisherapis.go
// plus springer/core) and serpapi, whose web-search adapter also sends one
// key — they all fail the same way:
// a rejected or missing API key, or the publisher's own rate limit.
var publisherKeyAdapters = map[string]bool{
	"ieee": true, "elsevier": true, "scopus": true, "dimensions": true,
	"lens": true, "web_of_science": true, "springer": true, "core": true,
	"serpapi_scholar": true,
}

// ClassifyAdapterError classifies an error raised while calling one named
// source adapter, applying the rate-limit/timeout/network heuristics each
// provider family tends to signal slightly differently.
func (ec *ErrorClassifier) ClassifyAdapterError(adapter string, err error) *FederationError {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case adapter == "arxiv":
		return ec.classifyArxivError(err, errStr)
	case adapter == "semantic_scholar":
		return ec.classifySemanticScholarError(err, errStr)
	case adapter == "google_scholar":
		return ec.classifyExaError(err, errStr)
	case adapter == "general_web":
		return ec.classifyTavilyError(err, errStr)
	case publisherKeyAdapters[adapter]:
		return ec.classifyPublisherKeyError(adapter, err, errStr)
	case ec.isTimeoutError(errStr):
		return NewError(ErrorTypeTimeout, strings.ToUpper(adapter)+"_TIMEOUT", adapter+" request timed out").
			WithComponent(adapter + "_adapter").
			WithCause(err).
			WithStack().
			Build()
	case ec.isNetworkError(errStr):
		return NewNetworkError("failed to connect to "+adapter, err)
	default:
		return NewAdapterError(adapter, "adapter error occurred", err)
	}
}

// classifyPublisherKeyError handles the failure modes common to the
// single-API-key publisher adapters (ieee/elsevier/scopus/dimensions/lens/
// web_of_science/springer/core/serpapi_scholar): a rejected or missing
// key surfaces as 401/403, and each publisher enforces its own quota.
func (ec *ErrorClassifier) classifyPublisherKeyError(adapter string, err error, errStr string) *FederationError {
	switch {
	case strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "forbidden") || strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "invalid api key") || strings.Contains(errStr, "invalid key"):
		return NewAuthenticationError(adapter + " API key was rejected")
	case ec.isRateLimitError(errStr) || strings.Contains(errStr, "429"):
		return NewError(ErrorTypeRateLimit, strings.ToUpper(adapter)+"_RATE_LIMIT", adapter+" rate limit exceeded").
			WithComponent(adapter + "_adapter").
			WithCause(err).
			WithStack().
			Build()
	case ec.isTimeoutError(errStr):
		return NewError(ErrorTypeTimeout, strings.ToUpper(adapter)+"_TIMEOUT", adapter+" request timed out").
			WithComponent(adapter + "_adapter").
			WithCause(err).
			WithStack().
			Build()
	default:
		return NewAdapterError(adapter, adapter+" adapter error", err)
	}
}

// classifyArxivError classifies ArXiv-specific errors
func (ec *ErrorClassifier) classifyArxivError(err error, errStr string) *FederationError {
	switch {
	case strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "429"):
		return NewError(ErrorTypeRateLimit, "ARXIV_RATE_LIMIT", "arXiv rate limit exceeded").
			WithComponent("arxiv_adapter").
			WithCause(err).
			WithDetail("rate_limit", "60 requests per minute").
			WithStack().
			Build()
	case ec.isTimeoutError(errStr):
		return NewError(ErrorTypeTimeout, "ARXIV_TIMEOUT", "arXiv request timed out").
			WithComponent("arxiv_adapter").
			WithCause(err).
			WithStack().
			Build()
	case ec.isNetworkError(errStr):
		return NewNetworkError("failed to connect to arXiv", err)
	default:
		return NewAdapterError("arxiv", "arXiv adapter error", err)
	}
}

// classifySemanticScholarError classifies Semantic Scholar-specific errors
func (ec *ErrorClassifier) classifySemanticScholarError(err error, errStr string) *FederationError {
	switch {
	case strings.Contains(errStr, "quota exceeded") || strings.Contains(errStr, "rate limit"):
		return NewError(ErrorTypeRateLimit, "SS_RATE_LIMIT", "Semantic Scholar rate limit exceeded").
			WithComponent("semantic_scholar_adapter").
			WithCause(err).
			WithStack().
			Build()
	case strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "401"):
		return NewAuthenticationError("Semantic Scholar authentication failed")
	default:
		return NewAdapterError("semantic_scholar", "Semantic Scholar adapter error", err)
	}
}

// classifyExaError classifies the Exa-backed Google-Scholar-class adapter's errors
func (ec *ErrorClassifier) classifyExaError(err error, errStr string) *FederationError {
	switch {
	case strings.Contains(errStr, "insufficient credits"):
		return NewError(ErrorTypeResource, "EXA_INSUFFICIENT_CREDITS", "Exa insufficient credits").
			WithComponent("exa_adapter").
			WithCause(err).
			WithStatusCode(http.StatusPaymentRequired).
			WithDetail("action_required", "check billing and credit balance").
			Retryable(false).
			WithStack().
			Build()
	case strings.Contains(errStr, "invalid api key"):
		return NewAuthenticationError("Exa API key is invalid")
	default:
		return NewAdapterError("exa", "Exa adapter error", err)
	}
}

// classifyTavilyError classifies the Tavily-backed general/alternative adapter's errors
func (ec *ErrorClassifier) classifyTavilyError(err error, errStr string) *FederationError {
	switch {
	case ec.isRateLimitError(errStr):
		return NewError(ErrorTypeRateLimit, "TAVILY_RATE_LIMIT", "Tavily rate limit exceeded").
			WithComponent("tavily_adapter").
			WithCause(err).
			WithStack().
			Build()
	default:
		return NewAdapterError("tavily", "Tavily adapter error", err)
	}
}

// Error Classification Helper Functions

// IsTimeoutError checks if an error is a timeout error
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	
	if sciErr, ok := err.(*FederationError); ok {
		return sciErr.Type == ErrorTypeTimeout
	}
	
	classifier := NewErrorClassifier()
	classifiedErr := classifier.Classify(err)
	return classifiedErr.Type == ErrorTypeTimeout
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	
	if sciErr, ok := err.(*FederationError); ok {
		return sciErr.Type == ErrorTypeRateLimit
	}
	
	classifier := NewErrorClassifier()
	classifiedErr := classifier.Classify(err)
	return classifiedErr.Type == ErrorTypeRateLimit
}

// IsNetworkError checks if an error is a network error
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	
	if sciErr, ok := err.(*FederationError); ok {
		return sciErr.Type == ErrorTypeNetwork
	}
	
	classifier := NewErrorClassifier()
	classifiedErr := classifier.Classify(err)
	return classifiedErr.Type == ErrorTypeNetwork
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	
	if sciErr, ok := err.(*FederationError); ok {
		return sciErr.Type == ErrorTypeValidation
	}
	
	classifier := NewErrorClassifier()
	classifiedErr := classifier.Classify(err)
	return classifiedErr.Type == ErrorTypeValidation
}