package backend

// Source is a cited excerpt together with the document it came from.
type Source struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// QueryRequest is the request body for POST /query.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the response body for POST /query.
type QueryResponse struct {
	Answer             string   `json:"answer"`
	Sources            []Source `json:"sources"`
	DocumentsConsulted []string `json:"documents_consulted"`
}

func (r *QueryResponse) normalize() {
	if r.Sources == nil {
		r.Sources = []Source{}
	}
	if r.DocumentsConsulted == nil {
		r.DocumentsConsulted = []string{}
	}
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status         string   `json:"status"`
	DocumentsCount *int     `json:"documents_count,omitempty"`
	Documents      []string `json:"documents,omitempty"`
}

func (r *HealthResponse) normalize() {
	if r.Documents == nil {
		r.Documents = []string{}
	}
}

// DocumentCount returns the reported document count, falling back to the
// length of the document list when the count is absent.
func (r *HealthResponse) DocumentCount() int {
	if r == nil {
		return 0
	}
	if r.DocumentsCount != nil {
		return *r.DocumentsCount
	}
	return len(r.Documents)
}

// Int returns a pointer to i.
func Int(i int) *int {
	return &i
}
