package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/hokuspokus/internal/utils"
)

const (
	gitDirectoryPattern = utils.GitDirectoryName + "/"
	commentPrefix       = "#"
	negationPrefix      = "!"
)

// IgnoreOptions selects which ignore sources apply to a project walk.
type IgnoreOptions struct {
	Exclusions    []string
	UseGitignore  bool
	UseIgnoreFile bool
	IncludeGit    bool
}

// IgnoreOptions resolves the context configuration into ignore sources, appending extraExclusions.
func (configuration ContextConfiguration) IgnoreOptions(extraExclusions []string) IgnoreOptions {
	return IgnoreOptions{
		Exclusions:    utils.DeduplicatePatterns(append(append([]string{}, configuration.Exclude...), extraExclusions...)),
		UseGitignore:  boolOrDefault(configuration.UseGitignore, true),
		UseIgnoreFile: boolOrDefault(configuration.UseIgnoreFile, true),
		IncludeGit:    boolOrDefault(configuration.IncludeGit, false),
	}
}

// LoadIgnoreFilePatterns reads one ignore file. A missing file yields no patterns.
// Blank lines, comments, and negated patterns are skipped.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer fileHandle.Close()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) || strings.HasPrefix(trimmedLine, negationPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, strings.TrimPrefix(trimmedLine, "/"))
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadRecursiveIgnorePatterns walks rootDirectoryPath and collects patterns from every ignore file found.
// Patterns from a nested directory are prefixed with that directory's path relative to the root.
// The .git directory is excluded unless IncludeGit is set; Exclusions are appended last.
func LoadRecursiveIgnorePatterns(rootDirectoryPath string, options IgnoreOptions) ([]string, error) {
	var aggregatedPatterns []string
	if !options.IncludeGit {
		aggregatedPatterns = append(aggregatedPatterns, gitDirectoryPattern)
	}

	var ignoreFileNames []string
	if options.UseIgnoreFile {
		ignoreFileNames = append(ignoreFileNames, utils.IgnoreFileName)
	}
	if options.UseGitignore {
		ignoreFileNames = append(ignoreFileNames, utils.GitIgnoreFileName)
	}

	if len(ignoreFileNames) > 0 {
		walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				return walkError
			}
			if !directoryEntry.IsDir() {
				return nil
			}
			relativeDirectory := utils.RelativePathOrSelf(currentDirectoryPath, rootDirectoryPath)
			if relativeDirectory != "." && utils.ShouldIgnoreByPath(relativeDirectory, aggregatedPatterns) {
				return filepath.SkipDir
			}
			prefix := ""
			if relativeDirectory != "." {
				prefix = relativeDirectory + "/"
			}
			for _, ignoreFileName := range ignoreFileNames {
				patterns, loadError := LoadIgnoreFilePatterns(filepath.Join(currentDirectoryPath, ignoreFileName))
				if loadError != nil {
					return fmt.Errorf("loading %s from %s: %w", ignoreFileName, currentDirectoryPath, loadError)
				}
				for _, pattern := range patterns {
					aggregatedPatterns = append(aggregatedPatterns, prefix+pattern)
				}
			}
			return nil
		}
		if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
			return nil, walkError
		}
	}

	return utils.DeduplicatePatterns(append(aggregatedPatterns, options.Exclusions...)), nil
}
