package types

// Document is one input file awaiting a classification decision.
// FileName is unique within the pending queue.
type Document struct {
	FileName string `json:"file_name"`
	Path     string `json:"path"`
	Position int    `json:"position"` // 0-based position in the queue snapshot
}

// PageRecord is the extracted text of one page.
// Content is never nil; pages without extractable text carry "".
type PageRecord struct {
	Source   int    `json:"source"` // 1-based page index
	Content  string `json:"content"`
	FileName string `json:"file_name"`
}

// PageImage is the rendered raster of one page.
type PageImage struct {
	Source int    `json:"source"` // 1-based page index, aligned with PageRecord.Source
	Bytes  []byte `json:"-"`      // PNG-encoded
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
