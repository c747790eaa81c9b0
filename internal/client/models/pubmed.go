package models

// PubMedPaper is a single article summary fetched from PubMed.
type PubMedPaper struct {
	PMID     string   `json:"pmid"`
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Journal  string   `json:"journal"`
	Year     string   `json:"year"`
	DOI      string   `json:"doi"`
	Authors  []string `json:"authors"`
}

type PubMedSearchResponse struct {
	Query  string        `json:"query"`
	Papers []PubMedPaper `json:"papers"`
	Count  int           `json:"count"`
}
