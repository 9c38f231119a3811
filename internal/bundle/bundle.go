package bundle

import (
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"waveforge/internal/services"
)

// DefaultMaxChunkBytes keeps every emitted chunk small enough for one
// transaction's input data.
const DefaultMaxChunkBytes = 24000

// ManifestName is the deployment manifest written next to the chunks.
const ManifestName = "DEPLOYMENT_MANIFEST.md"

// FileSpec maps a source file to its path inside the bundle.
type FileSpec struct {
	// Source is the on-disk location, relative to the bundling root.
	Source string
	// Path is the name recorded in the bundle for reconstruction.
	Path string
}

// Group is one named bundle of related files.
type Group struct {
	Name        string
	Description string
	Files       []FileSpec
}

// Chunk describes one emitted bundle part.
type Chunk struct {
	Name        string
	SizeBytes   int
	Description string
}

// Result summarizes a bundling pass.
type Result struct {
	Chunks       []Chunk
	ManifestPath string
}

// Options tunes the bundling pass.
type Options struct {
	// MaxChunkBytes splits bundles larger than this. Zero means the
	// default limit.
	MaxChunkBytes int
}

// GroupsFromDir derives a bundle grouping from a source tree: files at
// the root form a "core" group and each immediate subdirectory becomes
// its own group. Hidden entries are ignored.
func GroupsFromDir(sourceDir string) ([]Group, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "bundle", "read source dir", sourceDir, err)
	}

	var core Group
	core.Name = "bundle_core"
	core.Description = "Top-level sources"
	var groups []Group

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !entry.IsDir() {
			core.Files = append(core.Files, FileSpec{Source: entry.Name(), Path: entry.Name()})
			continue
		}
		group := Group{
			Name:        "bundle_" + entry.Name(),
			Description: fmt.Sprintf("Sources under %s/", entry.Name()),
		}
		subRoot := filepath.Join(sourceDir, entry.Name())
		walkErr := filepath.WalkDir(subRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			rel, err := filepath.Rel(sourceDir, path)
			if err != nil {
				return err
			}
			group.Files = append(group.Files, FileSpec{Source: rel, Path: filepath.ToSlash(rel)})
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %q: %w", subRoot, walkErr)
		}
		if len(group.Files) > 0 {
			groups = append(groups, group)
		}
	}

	if len(core.Files) > 0 {
		groups = append([]Group{core}, groups...)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	if len(groups) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "bundle", "derive groups",
			fmt.Sprintf("no bundleable files under %s", sourceDir), nil)
	}
	return groups, nil
}

// Write renders every group into chunked bundle files under outputDir
// and emits the deployment manifest.
func Write(groups []Group, sourceDir, outputDir string, opts Options) (Result, error) {
	maxBytes := opts.MaxChunkBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxChunkBytes
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir %q: %w", outputDir, err)
	}

	var result Result
	for _, group := range groups {
		content := renderGroup(group, sourceDir)
		for _, chunk := range splitChunks(group.Name, content, maxBytes) {
			path := filepath.Join(outputDir, chunk.name)
			if err := os.WriteFile(path, chunk.data, 0o644); err != nil {
				return Result{}, fmt.Errorf("write chunk %q: %w", path, err)
			}
			result.Chunks = append(result.Chunks, Chunk{
				Name:        chunk.name,
				SizeBytes:   len(chunk.data),
				Description: group.Description,
			})
		}
	}

	manifestPath := filepath.Join(outputDir, ManifestName)
	if err := os.WriteFile(manifestPath, []byte(renderManifest(result.Chunks, maxBytes)), 0o644); err != nil {
		return Result{}, fmt.Errorf("write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func renderGroup(group Group, sourceDir string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "[BUNDLE - %s]\n", strings.ToUpper(group.Name))
	b.WriteString(strings.Repeat("=", 61) + "\n")
	b.WriteString(group.Description + "\n")
	b.WriteString("Generated for on-chain storage.\n\n")

	b.WriteString("[MANIFEST]\n")
	fmt.Fprintf(&b, "Bundle: %s\n", group.Name)
	fmt.Fprintf(&b, "Total files: %d\n", len(group.Files))
	b.WriteString("Files included:\n")
	for _, spec := range group.Files {
		var size int64
		if info, err := os.Stat(filepath.Join(sourceDir, spec.Source)); err == nil {
			size = info.Size()
		}
		fmt.Fprintf(&b, "  - %s (%d bytes)\n", spec.Path, size)
	}
	b.WriteString("\nReconstruction: save each file to its path and build with the provided instructions.\n\n")

	for _, spec := range group.Files {
		fmt.Fprintf(&b, "=== FILE: %s ===\n", spec.Path)
		b.WriteString("---BEGIN---\n")
		b.WriteString(readFileContent(filepath.Join(sourceDir, spec.Source)))
		b.WriteString("\n---END---\n\n")
	}
	return []byte(b.String())
}

// readFileContent loads one source file for embedding. Missing files are
// recorded as placeholders so a bundle always lists its full manifest,
// and non-UTF-8 files fall back to a hex dump.
func readFileContent(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("// FILE NOT FOUND: %s\n", path)
		}
		return fmt.Sprintf("// ERROR READING %s: %v\n", path, err)
	}
	if !utf8.Valid(data) {
		return fmt.Sprintf("// BINARY FILE - HEX DUMP:\n// %s\n", hex.EncodeToString(data))
	}
	return string(data)
}

type rawChunk struct {
	name string
	data []byte
}

// splitChunks emits the bundle whole when it fits, otherwise slices it
// into numbered parts. Part headers are additive; stripping them and
// concatenating the parts in order reproduces the original bytes.
func splitChunks(name string, content []byte, maxBytes int) []rawChunk {
	if len(content) <= maxBytes {
		return []rawChunk{{name: name + ".txt", data: content}}
	}

	total := (len(content) + maxBytes - 1) / maxBytes
	chunks := make([]rawChunk, 0, total)
	for i := 0; i < total; i++ {
		start := i * maxBytes
		end := start + maxBytes
		if end > len(content) {
			end = len(content)
		}
		header := fmt.Sprintf("[CHUNK %d OF %d]\n%s - PART %d\nConcatenate all chunks in order to reconstruct.\n\n",
			i+1, total, strings.ToUpper(name), i+1)
		data := append([]byte(header), content[start:end]...)
		chunks = append(chunks, rawChunk{
			name: fmt.Sprintf("%s_chunk%02d.txt", name, i+1),
			data: data,
		})
	}
	return chunks
}

func renderManifest(chunks []Chunk, maxBytes int) string {
	var b strings.Builder
	b.WriteString("# Deployment Manifest\n\n")
	fmt.Fprintf(&b, "Total chunks to deploy: %d\n", len(chunks))
	fmt.Fprintf(&b, "All chunks are sized for transaction input data (limit %s).\n\n",
		humanize.Bytes(uint64(maxBytes)))
	b.WriteString("## Deployment Order\n")
	for i, chunk := range chunks {
		fmt.Fprintf(&b, "%2d. %s (%s) - %s\n",
			i, chunk.Name, humanize.Comma(int64(chunk.SizeBytes))+" bytes", chunk.Description)
	}
	b.WriteString("\n## Deployment Process\n")
	b.WriteString("1. Record the chunk count on the registry\n")
	b.WriteString("2. Send each chunk as the input data of a zero-value transaction\n")
	b.WriteString("3. Register every resulting transaction hash in deployment order\n")
	return b.String()
}
