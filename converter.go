package jobcore

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML (e.g., from a ContentExtractor) into Markdown.
	Convert(html string) (string, error)
}
