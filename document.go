package mdx

// Document represents one compiled source document and any required
// metadata about the source file it came from.
type Document struct {
	// Metadata about the source file
	Metadata MetaData
	// The rendered component code
	Code string
}

type MetaData struct {
	// The absolute source file path
	AbsSource string
}
