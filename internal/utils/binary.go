package utils

import (
	"io"
	"os"
	"unicode/utf8"
)

// probeLength is the maximum number of bytes read when probing a file for text content.
const probeLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary data.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return false
}

// IsFileBinary reads a small prefix of the file at path and reports whether the
// content appears to be binary. Unreadable files are treated as text so that a
// later read surfaces the real error.
func IsFileBinary(path string) bool {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false
	}
	defer fileHandle.Close()

	buffer := make([]byte, probeLength)
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return false
	}
	return IsBinary(buffer[:bytesRead])
}
