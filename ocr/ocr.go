// Package ocr recognizes text in embedded images via the Tesseract
// engine. It backs the alt-text enrichment option of the reader:
// drawings whose descriptions are empty can have their pixel data run
// through OCR so downstream text extraction still sees something useful.
//
// Tesseract support is compiled in only with the "ocr" build tag:
//
//	go build -tags ocr
//
// and needs the Tesseract libraries installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag every operation fails with ErrDisabled.
package ocr

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrDisabled is returned when OCR operations are invoked in a build
// without the ocr tag.
var ErrDisabled = errors.New("ocr support not enabled; rebuild with -tags ocr")

// PageSegMode selects how Tesseract segments the page before
// recognition. The values match Tesseract's PSM enumeration.
type PageSegMode int

const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// CanRecognize reports whether the named media entry is in a raster
// format Tesseract can read. Word documents frequently embed vector
// formats (EMF, WMF) that have no pixels to recognize.
func CanRecognize(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".gif", ".webp":
		return true
	}
	return false
}
