package llmprovider

// Data source type constants
const (
	DataSourceAzureCognitiveSearch = "AzureCognitiveSearch"
)

// DataSource is an extension payload pointing the backend at a search index
// to ground its answer. Parameters are passed to the backend verbatim, so any
// backend-specific keys (fieldsMapping, topNDocuments, ...) can be added.
type DataSource struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

// NewAzureSearchDataSource returns a data source for an Azure Cognitive Search index.
// Values are not validated; a bad endpoint or key surfaces as an error from the backend.
func NewAzureSearchDataSource(endpoint, key, indexName string) DataSource {
	return DataSource{
		Type: DataSourceAzureCognitiveSearch,
		Parameters: map[string]any{
			"endpoint":  endpoint,
			"key":       key,
			"indexName": indexName,
		},
	}
}

// StringParam returns a string parameter, or "" if absent or not a string.
func (d DataSource) StringParam(name string) string {
	s, _ := d.Parameters[name].(string)
	return s
}

// Citation is a retrieval-backend reference supporting part of an answer.
type Citation struct {
	// Title is the document title
	Title string `json:"title"`

	// URL is the cited resource URL (may be empty for documents without one)
	URL string `json:"url"`

	// FilePath is the source path inside the index (optional)
	FilePath string `json:"filepath,omitempty"`

	// ChunkID identifies the chunk of the document that was retrieved (optional)
	ChunkID string `json:"chunk_id,omitempty"`

	// Content is the retrieved excerpt (optional)
	Content string `json:"content,omitempty"`
}
