// Utilities for extracting a bearer token from a browser "Copy as cURL" command.
//
// The web app keeps its session token in the Authorization header of every
// request, so a request copied from DevTools carries everything needed to
// resume that session from the CLI.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var curlHeaderRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)

// ParseCurlFile reads a file containing a cURL command and extracts the
// bearer token from its Authorization header.
func ParseCurlFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlToken(content)
}

// ParseCurlToken parses a cURL command and returns the bearer token from its
// Authorization header.
func ParseCurlToken(data []byte) (string, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	for _, match := range curlHeaderRegex.FindAllStringSubmatch(curlCmd, -1) {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) != 2 {
			continue
		}

		if !strings.EqualFold(strings.TrimSpace(parts[0]), "authorization") {
			continue
		}

		value := strings.TrimSpace(parts[1])
		token, ok := strings.CutPrefix(value, "Bearer ")
		if !ok || token == "" {
			return "", fmt.Errorf("%w: authorization header is not a bearer credential", ErrInvalidInput)
		}
		return token, nil
	}

	return "", fmt.Errorf("%w: no authorization header found in curl command", ErrInvalidInput)
}
