package models

// DocumentUpload is returned after a file upload is accepted. Processing
// (text extraction and indexing) continues on the server.
type DocumentUpload struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Processed bool   `json:"processed"`
}

// Document is a listed document with a short text preview.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Processed bool      `json:"processed"`
	Preview   string    `json:"preview"`
	CreatedAt Timestamp `json:"created_at"`
}

// DocumentSearchResult is one chunk matched by vector search.
type DocumentSearchResult struct {
	DocID    string `json:"doc_id"`
	Text     string `json:"text"`
	Filename string `json:"filename"`
	ChunkID  string `json:"chunk_id"`
}

type DocumentSearchResponse struct {
	Query   string                 `json:"query"`
	Results []DocumentSearchResult `json:"results"`
}
