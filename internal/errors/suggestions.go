package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorSuggestion is one way the user might fix an error.
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// ServerStartSuggestions explains common reasons the server fails to bind.
func ServerStartSuggestions(err error, port int) []ErrorSuggestion {
	var suggestions []ErrorSuggestion

	errStr := err.Error()

	if strings.Contains(errStr, "address already in use") {
		suggestions = append(suggestions,
			ErrorSuggestion{
				Title:       "Port already in use",
				Description: fmt.Sprintf("Port %d is already being used by another process", port),
				Command:     fmt.Sprintf("lsof -i :%d", port),
			},
			ErrorSuggestion{
				Title:   "Use a different port",
				Command: fmt.Sprintf("sprout serve --port %d", port+1),
			},
		)
	}

	if strings.Contains(errStr, "permission denied") && port < 1024 {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Use an unprivileged port",
			Description: "Ports below 1024 require root privileges",
			Command:     "sprout serve --port 8080",
		})
	}

	return suggestions
}

// ContentLoadSuggestions points at the manifest and markdown files when
// loading content from dir fails. An empty dir means embedded content,
// which has no user-fixable cause.
func ContentLoadSuggestions(err error, dir, guide string) []ErrorSuggestion {
	if dir == "" {
		return nil
	}

	suggestions := []ErrorSuggestion{
		{
			Title:       "Check the guide manifest",
			Description: "Every section needs a file, relative to the manifest",
			Example:     "sections:\n       - title: Quickstart\n         file: guide/quickstart.md",
			Command:     "cat " + strings.TrimSuffix(dir, "/") + "/" + guide,
		},
	}

	errStr := err.Error()

	if strings.Contains(errStr, "yaml") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Fix YAML syntax",
			Description: "Use spaces for indentation, not tabs",
		})
	}

	if IsFileNotFound(err) {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Missing file",
			Description: "A file named by the manifest or configuration does not exist",
			Command:     "ls -R " + dir,
		})
	}

	return suggestions
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\nSuggestions:\n")

	for i, suggestion := range suggestions {
		fmt.Fprintf(&output, "  %d. %s\n", i+1, suggestion.Title)
		if suggestion.Description != "" {
			fmt.Fprintf(&output, "     %s\n", suggestion.Description)
		}
		if suggestion.Command != "" {
			fmt.Fprintf(&output, "     Run: %s\n", suggestion.Command)
		}
		if suggestion.Example != "" {
			fmt.Fprintf(&output, "     Example:\n       %s\n", suggestion.Example)
		}
	}

	return output.String()
}

// EnhancedError wraps an error with suggestions
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []ErrorSuggestion
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	title := e.Title
	if e.OriginalError != nil {
		title = fmt.Sprintf("%s: %v", e.Title, e.OriginalError)
	}

	return FormatSuggestions(title, e.Suggestions)
}

// Unwrap returns the original error
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// WithSuggestions wraps err with a title and suggestions. It returns err
// unchanged when there is nothing to suggest.
func WithSuggestions(title string, err error, suggestions []ErrorSuggestion) error {
	if err == nil {
		return nil
	}
	if len(suggestions) == 0 {
		return fmt.Errorf("%s: %w", title, err)
	}

	var enhanced *EnhancedError
	if errors.As(err, &enhanced) {
		return err
	}

	return &EnhancedError{
		OriginalError: err,
		Title:         title,
		Suggestions:   suggestions,
	}
}
