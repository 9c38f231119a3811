package bundle

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestGroupsFromDir(t *testing.T) {
	src := t.TempDir()
	writeSource(t, src, "main.s", "core")
	writeSource(t, src, "audio/kick.s", "kick")
	writeSource(t, src, "audio/snare.s", "snare")
	writeSource(t, src, "visual/drawing.s", "draw")
	writeSource(t, src, ".hidden", "skip me")

	groups, err := GroupsFromDir(src)
	if err != nil {
		t.Fatalf("GroupsFromDir: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want core + audio + visual", len(groups))
	}
	byName := map[string]Group{}
	for _, g := range groups {
		byName[g.Name] = g
	}
	if len(byName["bundle_audio"].Files) != 2 {
		t.Fatalf("audio files = %v", byName["bundle_audio"].Files)
	}
	if len(byName["bundle_core"].Files) != 1 {
		t.Fatalf("core files = %v", byName["bundle_core"].Files)
	}
}

func TestWriteEmitsDelimitedBundle(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeSource(t, src, "voice.s", "mov x0, #1\n")

	groups := []Group{{
		Name:        "bundle_core",
		Description: "Core voices",
		Files: []FileSpec{
			{Source: "voice.s", Path: "voice.s"},
			{Source: "absent.s", Path: "absent.s"},
		},
	}}

	result, err := Write(groups, src, out, Options{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(result.Chunks) != 1 {
		t.Fatalf("chunks = %d, want 1 for a small bundle", len(result.Chunks))
	}

	payload, err := os.ReadFile(filepath.Join(out, "bundle_core.txt"))
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}
	text := string(payload)
	for _, want := range []string{
		"[BUNDLE - BUNDLE_CORE]",
		"Total files: 2",
		"=== FILE: voice.s ===",
		"---BEGIN---",
		"mov x0, #1",
		"---END---",
		"// FILE NOT FOUND:",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("bundle missing %q:\n%s", want, text)
		}
	}

	if _, err := os.Stat(result.ManifestPath); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
}

func TestWriteSplitsLargeBundles(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeSource(t, src, "big.s", strings.Repeat("a", 500))

	groups := []Group{{
		Name:        "bundle_big",
		Description: "Large file",
		Files:       []FileSpec{{Source: "big.s", Path: "big.s"}},
	}}

	result, err := Write(groups, src, out, Options{MaxChunkBytes: 300})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(result.Chunks) < 2 {
		t.Fatalf("chunks = %d, want split output", len(result.Chunks))
	}
	if result.Chunks[0].Name != "bundle_big_chunk01.txt" {
		t.Fatalf("first chunk = %q", result.Chunks[0].Name)
	}

	// Stripping the part headers and concatenating must reproduce the
	// original bundle bytes.
	var rebuilt []byte
	for _, chunk := range result.Chunks {
		payload, err := os.ReadFile(filepath.Join(out, chunk.Name))
		if err != nil {
			t.Fatalf("read chunk: %v", err)
		}
		marker := []byte("reconstruct.\n\n")
		idx := bytes.Index(payload, marker)
		if idx < 0 {
			t.Fatalf("chunk %s missing part header", chunk.Name)
		}
		rebuilt = append(rebuilt, payload[idx+len(marker):]...)
	}
	original := renderGroup(groups[0], src)
	if !bytes.Equal(rebuilt, original) {
		t.Fatalf("reconstruction mismatch: %d bytes vs %d", len(rebuilt), len(original))
	}
}

func TestBinaryFilesHexDumped(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "blob.bin"), []byte{0xff, 0xfe, 0x00, 0x01}, 0o644); err != nil {
		t.Fatalf("write blob: %v", err)
	}
	content := readFileContent(filepath.Join(src, "blob.bin"))
	if !strings.Contains(content, "HEX DUMP") || !strings.Contains(content, "fffe0001") {
		t.Fatalf("unexpected binary rendering: %q", content)
	}
}
