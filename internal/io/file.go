package ioutils

import (
	"bufio"
	"context"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const (
	dirPerms  = 0755
	filePerms = 0644
)

var (
	invalidChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots  = regexp.MustCompile(`\.+$`)
	repeatedSpace = regexp.MustCompile(`\s+`)
	leadingDots   = regexp.MustCompile(`^\.+`)
)

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Parameters:
//   - ctx: Context for cancellation, checked before writing
//   - path: File path to write to
//   - data: Bytes to write
//
// Example:
//
//	err := WriteFile(ctx, "studies_name_and_abstract/MGYS1.name_and_abstract", content)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return os.WriteFile(path, data, filePerms)
}

// AppendLines appends lines to the file at path, creating it if needed.
//
// The file is opened, written and closed within the call, so no handle
// outlives it on any return path. Each line gets a trailing newline.
//
// Both the write error and the close error are reported.
//
// Example:
//
//	err := AppendLines("additional/4_analyses.txt", "MGYA1\tERZ1\tERS1\tMGYS1\t5.0\t2021-01-01")
func AppendLines(path string, lines ...string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerms)
	if err != nil {
		return err
	}

	defer func() {
		if errc := f.Close(); errc != nil {
			err = multierror.Append(err, errc).ErrorOrNil()
		}
	}()

	w := bufio.NewWriter(f)

	for _, line := range lines {
		if _, err = w.WriteString(line); err != nil {
			return err
		}

		if err = w.WriteByte('\n'); err != nil {
			return err
		}
	}

	return w.Flush()
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// Remote artifact ids become local file names, so this also strips leading
// dots to keep a name like "../x" inside its directory.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Leading and trailing dots → removed
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("ERZ1_FASTA.fasta.gz") // Returns "ERZ1_FASTA.fasta.gz"
//	SanitizeFileName("../etc/passwd")       // Returns "_etc_passwd"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = leadingDots.ReplaceAllString(name, "")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpace.ReplaceAllString(name, " ")
	name = strings.TrimRight(name, " ")

	return name
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned, which also makes it
// safe to call concurrently for the same path.
func EnsureDir(path string) error {
	return os.MkdirAll(path, dirPerms)
}

// ReadAnalysisIDs reads analysis ids from r, taking the first
// comma-separated field of every line.
//
// Surrounding whitespace is trimmed and blank lines are skipped. Repeated ids
// are returned once, in first-seen order; the repeats are returned separately
// so the caller can report them.
//
// Example input:
//
//	MGYA00585223,ERZ1746242
//	MGYA00585224
func ReadAnalysisIDs(r io.Reader) (ids, duplicates []string, err error) {
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		id, _, _ := strings.Cut(scanner.Text(), ",")

		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		if _, ok := seen[id]; ok {
			duplicates = append(duplicates, id)

			continue
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, duplicates, scanner.Err()
}

// ReadAnalysisIDsFile is ReadAnalysisIDs for a path.
func ReadAnalysisIDsFile(path string) (ids, duplicates []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return ReadAnalysisIDs(f)
}
