package quill

// readOptions holds configuration accumulated by the Reader's chain
// methods.
type readOptions struct {
	// OCR enrichment of drawings without alternative text.
	ocrAltText  bool
	ocrLanguage string
}

// defaultOptions returns the default read options.
func defaultOptions() readOptions {
	return readOptions{
		ocrAltText:  false,
		ocrLanguage: "",
	}
}

// clone creates a copy of readOptions. Chain methods mutate the copy,
// never the original.
func (o readOptions) clone() readOptions {
	return readOptions{
		ocrAltText:  o.ocrAltText,
		ocrLanguage: o.ocrLanguage,
	}
}
