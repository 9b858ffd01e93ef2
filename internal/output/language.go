package output

import (
	"path/filepath"
	"strings"
)

// extensionLanguages maps file extensions to fenced-code-block language tags.
var extensionLanguages = map[string]string{
	".py":  "python",
	".pyi": "python",
	".pyw": "python",

	".js":  "javascript",
	".jsx": "jsx",
	".ts":  "typescript",
	".tsx": "tsx",
	".mjs": "javascript",
	".cjs": "javascript",

	".html": "html",
	".htm":  "html",
	".css":  "css",
	".scss": "scss",
	".sass": "sass",
	".less": "less",

	".json": "json",
	".xml":  "xml",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".ini":  "ini",
	".cfg":  "ini",
	".conf": "conf",

	".sh":   "bash",
	".bash": "bash",
	".zsh":  "zsh",
	".fish": "fish",

	".c":   "c",
	".h":   "c",
	".cpp": "cpp",
	".cc":  "cpp",
	".cxx": "cpp",
	".hpp": "cpp",
	".hxx": "cpp",

	".cs": "csharp",

	".java":  "java",
	".kt":    "kotlin",
	".kts":   "kotlin",
	".scala": "scala",

	".go": "go",
	".rs": "rust",

	".rb":   "ruby",
	".rake": "ruby",

	".php":   "php",
	".swift": "swift",
	".r":     "r",

	".md":       "markdown",
	".markdown": "markdown",

	".sql": "sql",

	".txt":     "text",
	".log":     "text",
	".csv":     "csv",
	".graphql": "graphql",
	".proto":   "protobuf",
}

// specialFileLanguages maps well-known extensionless file names to language tags.
var specialFileLanguages = map[string]string{
	"dockerfile":    "dockerfile",
	"makefile":      "makefile",
	"rakefile":      "ruby",
	"gemfile":       "ruby",
	"vagrantfile":   "ruby",
	".bashrc":       "bash",
	".zshrc":        "zsh",
	".vimrc":        "vim",
	".gitignore":    "text",
	".dockerignore": "text",
	".npmrc":        "text",
	".editorconfig": "ini",
}

// LanguageForFile returns the Markdown code-fence language tag for a file.
// Unknown extensions fall back to the raw extension text; extensionless
// unknown files fall back to "text".
func LanguageForFile(filePath string) string {
	baseName := strings.ToLower(filepath.Base(filePath))
	if languageName, known := specialFileLanguages[baseName]; known {
		return languageName
	}

	extension := strings.ToLower(filepath.Ext(filePath))
	if languageName, known := extensionLanguages[extension]; known {
		return languageName
	}

	if extension != "" {
		return strings.TrimPrefix(extension, ".")
	}
	return "text"
}
