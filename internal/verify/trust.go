package verify

import (
	"net/url"
	"strings"

	"github.com/ppiankov/crosscheck/internal/model"
)

// FallbackTrustRank is used when the trust table has no default entry
const FallbackTrustRank = 5

// TrustTable ranks sources by domain. Higher ranks are more trusted.
type TrustTable struct {
	domains     map[string]int
	defaultRank int
}

// NewTrustTable creates a trust table from config. The "default" entry, when
// present, ranks unknown domains; otherwise FallbackTrustRank does.
func NewTrustTable(config model.TrustConfig) *TrustTable {
	table := &TrustTable{
		domains:     make(map[string]int, len(config.Domains)),
		defaultRank: FallbackTrustRank,
	}

	for domain, rank := range config.Domains {
		if domain == model.TrustDefaultKey {
			table.defaultRank = rank
			continue
		}
		table.domains[normalizeHost(domain)] = rank
	}

	return table
}

// DefaultTrustTable returns the built-in trust table
func DefaultTrustTable() *TrustTable {
	return NewTrustTable(model.TrustConfig{Domains: model.DefaultTrustDomains()})
}

// DefaultRank returns the rank given to unknown or unparseable sources
func (t *TrustTable) DefaultRank() int {
	return t.defaultRank
}

// Rank returns the trust rank of a source URL
func (t *TrustTable) Rank(rawURL string) int {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return t.defaultRank
	}

	host := normalizeHost(parsed.Hostname())
	if host == "" {
		return t.defaultRank
	}

	if rank, ok := t.domains[host]; ok {
		return rank
	}

	// Subdomains inherit the most specific listed parent (e.g., smile.amazon.com)
	best, bestLen := t.defaultRank, 0
	for domain, rank := range t.domains {
		if strings.HasSuffix(host, "."+domain) && len(domain) > bestLen {
			best, bestLen = rank, len(domain)
		}
	}

	return best
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(host, "www.")
}
