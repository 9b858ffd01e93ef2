package output

import "strings"

// truncationMarker is the line inserted where windowed content was cut.
const truncationMarker = "... (truncated)"

// ApplyWindow limits content to its first headLines or last tailLines lines.
// A zero value disables the corresponding limit; callers enforce that the two
// limits are mutually exclusive before any work begins.
//
// Head mode appends the marker only when exactly headLines lines were kept and
// the result is non-empty. Tail mode always prepends the marker, even when the
// content had fewer lines than requested; the asymmetry is deliberate and
// matches the documented contract.
func ApplyWindow(content string, headLines int, tailLines int) string {
	if headLines > 0 {
		contentLines := strings.Split(content, "\n")
		if len(contentLines) > headLines {
			contentLines = contentLines[:headLines]
		}
		windowedContent := strings.Join(contentLines, "\n")
		if len(contentLines) == headLines && windowedContent != "" {
			windowedContent += "\n" + truncationMarker + "\n"
		}
		return windowedContent
	}

	if tailLines > 0 {
		contentLines := strings.Split(content, "\n")
		if len(contentLines) > tailLines {
			contentLines = contentLines[len(contentLines)-tailLines:]
		}
		return truncationMarker + "\n" + strings.Join(contentLines, "\n")
	}

	return content
}
