package generator

import "time"

// Request describes the app the user wants generated.
type Request struct {
	// Description is the free-text app description from the UI.
	Description string
	// Optimize runs a prompt-optimizer completion pass before generation.
	Optimize bool
}

// ModuleFile is one bundled helper-module source shown to the model and
// shipped in every output archive.
type ModuleFile struct {
	Name    string
	Content string
}

// Draft is the model's output for one generation turn.
type Draft struct {
	// Title from the leading markdown heading, if any.
	Title string
	// Summary is the first prose paragraph of the response.
	Summary string
	// Markdown is the full raw model response.
	Markdown string
	// Code is the primary Go source block extracted from Markdown. When the
	// model answers with bare code, this is the whole response.
	Code string
}

// Turn records one generation or revision.
type Turn struct {
	Comment   string
	Draft     Draft
	CreatedAt time.Time
}
