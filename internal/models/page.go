package models

// PageDocument is one page of the marketing corpus. Index is the page's
// position in the enumeration order and seeds every rotation decision.
type PageDocument struct {
	Name    string
	Index   int
	Content string
}

// RunSummary is what a batch run reports once the corpus is processed.
type RunSummary struct {
	Scanned  int
	Modified int
	Failed   int
}
