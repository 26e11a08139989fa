package arbiter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Forge .dck files carry every section header even when empty.
var dckTrailerSections = []string{
	"[Sideboard]", "[Avatar]", "[Planes]", "[Schemes]",
	"[Conspiracy]", "[Dungeon]", "[Attractions]", "[Contraptions]",
}

// WriteDeckFile writes a Forge constructed-deck (.dck) file for the given
// deck of card names and returns its path. Duplicate names collapse into one
// counted line, sorted alphabetically. Every card is stamped with the given
// set code and collector number 1, which is enough for Forge to resolve it.
func WriteDeckFile(dir, deckName, setCode string, deck []string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create deck directory: %w", err)
	}

	counts := make(map[string]int, len(deck))
	for _, name := range deck {
		counts[name]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("[metadata]\n")
	fmt.Fprintf(&sb, "Name=%s\n", deckName)
	sb.WriteString("[Main]\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "%d %s|%s|1\n", counts[name], name, setCode)
	}
	for _, section := range dckTrailerSections {
		sb.WriteString(section)
		sb.WriteString("\n\n")
	}

	path := filepath.Join(dir, deckName+".dck")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write deck file: %w", err)
	}
	return path, nil
}
