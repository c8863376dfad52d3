package content

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// binarySampleSize is the number of bytes scanned for null bytes, as git does.
const binarySampleSize = 8000

// ErrBinaryContent is returned by Text for data that is not text.
var ErrBinaryContent = errors.New("binary content")

// IsBinaryContent checks if content bytes contain binary data by looking for null bytes.
// UTF-16 and UTF-32 BOMs are treated as text.
func IsBinaryContent(content []byte) bool {
	if len(content) >= 2 {
		if (content[0] == 0xFF && content[1] == 0xFE) ||
			(content[0] == 0xFE && content[1] == 0xFF) {
			return false
		}
	}
	if len(content) >= 4 {
		if content[0] == 0x00 && content[1] == 0x00 && content[2] == 0xFE && content[3] == 0xFF {
			return false
		}
	}

	sampleSize := min(len(content), binarySampleSize)
	for i := range sampleSize {
		if content[i] == 0 {
			return true
		}
	}
	return false
}

// Text converts data to a string, rejecting binary content. Invalid UTF-8
// sequences are replaced so the result is always valid.
func Text(data []byte) (string, error) {
	if IsBinaryContent(data) {
		return "", ErrBinaryContent
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}
