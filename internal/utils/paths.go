// Package utils contains helpers shared across hokuspokus packages.
package utils

import (
	"path/filepath"
	"strings"
)

// Ignore file names honored when collecting project context.
const (
	// IgnoreFileName is the generic ignore file.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the Git metadata directory.
	GitDirectoryName = ".git"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes empty and repeated patterns, keeping the first occurrence of each.
func DeduplicatePatterns(patterns []string) []string {
	encountered := make(map[string]struct{}, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encountered[trimmedPattern]; exists {
			continue
		}
		encountered[trimmedPattern] = struct{}{}
		result = append(result, trimmedPattern)
	}
	return result
}

// RelativePathOrSelf returns fullPath relative to root in forward-slash form.
// It returns "." when both resolve to the same directory and the cleaned fullPath when no relative path exists.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)
	if cleanPath == cleanRoot {
		return "."
	}
	relativePath, relativeError := filepath.Rel(cleanRoot, cleanPath)
	if relativeError != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// ShouldIgnoreByPath reports whether relativePath matches any ignore pattern.
// A pattern ending in "/" matches that directory and everything below it.
// A single-segment pattern matches the last path segment.
// A multi-segment pattern matches the whole path, segment by segment, with filepath.Match semantics.
func ShouldIgnoreByPath(relativePath string, ignorePatterns []string) bool {
	pathSegments := strings.Split(normalizeSeparators(relativePath), pathSegmentSeparator)
	lastSegment := pathSegments[len(pathSegments)-1]

	for _, pattern := range ignorePatterns {
		normalizedPattern := normalizeSeparators(strings.TrimSpace(pattern))
		if normalizedPattern == "" {
			continue
		}
		isDirectoryPattern := strings.HasSuffix(normalizedPattern, pathSegmentSeparator)
		patternSegments := strings.Split(strings.Trim(normalizedPattern, pathSegmentSeparator), pathSegmentSeparator)

		switch {
		case isDirectoryPattern && len(patternSegments) == 1:
			for _, segment := range pathSegments {
				if segmentMatches(patternSegments[0], segment) {
					return true
				}
			}
		case isDirectoryPattern:
			if len(pathSegments) >= len(patternSegments) && segmentsMatch(pathSegments[:len(patternSegments)], patternSegments) {
				return true
			}
		case len(patternSegments) == 1:
			if segmentMatches(patternSegments[0], lastSegment) {
				return true
			}
		default:
			if len(pathSegments) == len(patternSegments) && segmentsMatch(pathSegments, patternSegments) {
				return true
			}
		}
	}
	return false
}

func normalizeSeparators(path string) string {
	return strings.ReplaceAll(path, "\\", pathSegmentSeparator)
}

func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		if !segmentMatches(patternSegment, pathSegments[segmentIndex]) {
			return false
		}
	}
	return true
}

func segmentMatches(pattern, segment string) bool {
	isMatched, matchError := filepath.Match(pattern, segment)
	return matchError == nil && isMatched
}
