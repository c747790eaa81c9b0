package models

// QueryRequest is the payload for POST /ai/query.
type QueryRequest struct {
	Question string `json:"question"`
}

// QuerySource is a document excerpt the answer was grounded on.
type QuerySource struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	ChunkID  string `json:"chunk_id"`
	Snippet  string `json:"snippet"`
}

// QueryAnswer is one question/answer exchange with the assistant.
type QueryAnswer struct {
	Question  string        `json:"question"`
	Answer    string        `json:"answer"`
	Sources   []QuerySource `json:"sources"`
	CreatedAt Timestamp     `json:"created_at"`
}

// QueryHistory lists the most recent exchanges, newest first.
type QueryHistory struct {
	Queries []QueryAnswer `json:"queries"`
}
