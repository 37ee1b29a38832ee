package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"pseudo/internal/snippets"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addSnippetSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	// минимальные примеры на случай пустого testdata
	f.Add([]byte{})
	f.Add([]byte("print 1\n"))
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.pseudo файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".pseudo" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

// addSnippetSeeds adds the built-in templates, both with placeholders
// expanded and in raw snippet syntax.
func addSnippetSeeds(f *testing.F) {
	for _, s := range snippets.Default().All() {
		f.Add([]byte(s.Plain))
		f.Add([]byte(s.Body))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
