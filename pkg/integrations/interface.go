package integrations

import "github.com/kerbaras/carddex/pkg/search"

// Exporter writes search results to a file and returns its path.
type Exporter interface {
	Bind(title string, matches []search.Match) (string, error)
}
