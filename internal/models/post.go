package models

import "time"

// BlogPost is the canonical blog-post record stored in Elasticsearch.
type BlogPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	HTML      string    `json:"html"`
	Text      string    `json:"text"`
	Keywords  []string  `json:"keywords"`
	Source    string    `json:"source"`
	URLs      []string  `json:"urls"`
	Timestamp time.Time `json:"timestamp"`
}
