package projectcontext

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/hokuspokus/internal/utils"
)

// FromFiles reads filePaths in order. Any unreadable file fails the whole aggregation.
func FromFiles(ctx context.Context, filePaths []string, options Options) (Context, error) {
	if validationError := options.validate(); validationError != nil {
		return Context{}, validationError
	}
	entries, readError := readEntries(ctx, filePaths, options.SkipBinary)
	if readError != nil {
		return Context{}, readError
	}
	tracker := newBudget(options)
	for _, entry := range entries {
		if budgetError := tracker.add(entry); budgetError != nil {
			return Context{}, budgetError
		}
	}
	return Context{Entries: entries, Tokens: tracker.used}, nil
}

// FromDirectory walks root depth-first. Within each directory, entries are taken in name order,
// every file is read before any subdirectory is entered, and subdirectories are visited in name order.
// Directories already visited under another path (through symbolic links) are skipped.
func FromDirectory(ctx context.Context, root string, options Options) (Context, error) {
	if validationError := options.validate(); validationError != nil {
		return Context{}, validationError
	}
	cleanRoot := filepath.Clean(root)
	canonicalRoot, resolveError := filepath.EvalSymlinks(cleanRoot)
	if resolveError != nil {
		return Context{}, &ReadError{Path: cleanRoot, Err: resolveError}
	}

	visitedDirectories := map[string]struct{}{canonicalRoot: {}}
	pendingDirectories := []string{cleanRoot}
	tracker := newBudget(options)
	var collected []Entry

	for len(pendingDirectories) > 0 {
		if contextError := ctx.Err(); contextError != nil {
			return Context{}, contextError
		}
		currentDirectory := pendingDirectories[len(pendingDirectories)-1]
		pendingDirectories = pendingDirectories[:len(pendingDirectories)-1]

		filePaths, subdirectoryPaths, listError := listDirectory(currentDirectory, cleanRoot, options.IgnorePatterns)
		if listError != nil {
			return Context{}, listError
		}

		entries, readError := readEntries(ctx, filePaths, options.SkipBinary)
		if readError != nil {
			return Context{}, readError
		}
		for _, entry := range entries {
			if budgetError := tracker.add(entry); budgetError != nil {
				return Context{}, budgetError
			}
		}
		collected = append(collected, entries...)

		for subdirectoryIndex := len(subdirectoryPaths) - 1; subdirectoryIndex >= 0; subdirectoryIndex-- {
			subdirectoryPath := subdirectoryPaths[subdirectoryIndex]
			canonicalPath, canonicalError := filepath.EvalSymlinks(subdirectoryPath)
			if canonicalError != nil {
				return Context{}, &ReadError{Path: subdirectoryPath, Err: canonicalError}
			}
			if _, visited := visitedDirectories[canonicalPath]; visited {
				continue
			}
			visitedDirectories[canonicalPath] = struct{}{}
			pendingDirectories = append(pendingDirectories, subdirectoryPath)
		}
	}

	return Context{Entries: collected, Tokens: tracker.used}, nil
}

// listDirectory splits the entries of directoryPath into regular files and subdirectories, both in name order.
// Symbolic links are classified by their target; entries that are neither files nor directories are skipped.
func listDirectory(directoryPath string, rootPath string, ignorePatterns []string) ([]string, []string, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, nil, &ReadError{Path: directoryPath, Err: readDirectoryError}
	}

	var filePaths []string
	var subdirectoryPaths []string
	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(directoryPath, directoryEntry.Name())
		if utils.ShouldIgnoreByPath(utils.RelativePathOrSelf(entryPath, rootPath), ignorePatterns) {
			continue
		}
		entryMode := directoryEntry.Type()
		if entryMode&fs.ModeSymlink != 0 {
			targetInfo, statError := os.Stat(entryPath)
			if statError != nil {
				return nil, nil, &ReadError{Path: entryPath, Err: statError}
			}
			entryMode = targetInfo.Mode().Type()
		}
		switch {
		case entryMode.IsDir():
			subdirectoryPaths = append(subdirectoryPaths, entryPath)
		case entryMode.IsRegular():
			filePaths = append(filePaths, entryPath)
		}
	}
	return filePaths, subdirectoryPaths, nil
}

// readEntries reads filePaths concurrently and returns the entries in input order.
func readEntries(ctx context.Context, filePaths []string, skipBinary bool) ([]Entry, error) {
	entries := make([]Entry, len(filePaths))
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentReads)
	for fileIndex, filePath := range filePaths {
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			// #nosec G304
			fileBytes, readFileError := os.ReadFile(filePath)
			if readFileError != nil {
				return &ReadError{Path: filePath, Err: readFileError}
			}
			content := string(fileBytes)
			if skipBinary && utils.IsBinary(fileBytes) {
				content = BinaryPlaceholder
			}
			entries[fileIndex] = Entry{
				Label:   filepath.Base(filePath),
				Path:    filePath,
				Content: content,
			}
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return entries, nil
}
