package model

// ExtractedData is one source's view of a product, produced by an upstream
// extraction step. It is read-only input to verification.
type ExtractedData struct {
	SourceURL      string            `json:"sourceUrl" yaml:"sourceUrl"`
	ProductName    string            `json:"productName,omitempty" yaml:"productName,omitempty"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty" yaml:"specifications,omitempty"`
	RawExtract     string            `json:"rawExtract,omitempty" yaml:"rawExtract,omitempty"` // Grounding text for claim checks
}

// Field names that are read from the top level of ExtractedData rather than
// from its specifications map.
const (
	FieldProductName = "productName"
	FieldDescription = "description"
)

// FieldValue returns the value this source reports for field.
// productName and description are read directly, anything else from Specifications.
func (e ExtractedData) FieldValue(field string) string {
	switch field {
	case FieldProductName:
		return e.ProductName
	case FieldDescription:
		return e.Description
	default:
		return e.Specifications[field]
	}
}

// AggregatedData is the merged record whose specifications and description
// are checked against the sources.
type AggregatedData struct {
	Specifications map[string]string `json:"specifications,omitempty" yaml:"specifications,omitempty"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// SourceBundle groups the inputs of one verification run
type SourceBundle struct {
	Name        string          `json:"name,omitempty" yaml:"name,omitempty"`
	Extractions []ExtractedData `json:"extractions" yaml:"extractions"`
	Aggregated  AggregatedData  `json:"aggregated" yaml:"aggregated"`
}

// SourceURLs returns the source URLs in extraction order
func (b SourceBundle) SourceURLs() []string {
	urls := make([]string, 0, len(b.Extractions))
	for _, e := range b.Extractions {
		urls = append(urls, e.SourceURL)
	}
	return urls
}
