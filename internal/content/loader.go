package content

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/tandemly/wordpair/internal"
	"github.com/tandemly/wordpair/internal/logger"
)

// LoadItems reads a tab-separated item file. Each row holds the target
// word followed by up to two presentation payloads; either payload column
// may be empty for asymmetric game modes. Malformed rows are skipped.
func LoadItems(path string) ([]internal.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("content: open item file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("content: parse item file %s: %w", path, err)
	}

	items := make([]internal.Item, 0, len(records))
	for _, record := range records {
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			logger.Warningf("[LoadItems] skipping record without target: %v", record)
			continue
		}
		item := internal.Item{Target: strings.ToLower(strings.TrimSpace(record[0]))}
		if len(record) > 1 {
			item.PayloadA = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			item.PayloadB = strings.TrimSpace(record[2])
		}
		items = append(items, item)
	}

	logger.Infof("[LoadItems] loaded %d items from %s", len(items), path)
	return items, nil
}

// LoadWordlist reads one guessable word per line into a set.
func LoadWordlist(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("content: open wordlist: %w", err)
	}
	defer f.Close()

	words := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		words[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("content: read wordlist %s: %w", path, err)
	}

	logger.Infof("[LoadWordlist] loaded %d words from %s", len(words), path)
	return words, nil
}

// LoadGreeting reads the onboarding text, split into message blocks on
// blank-line groups. A missing path yields the built-in greeting.
func LoadGreeting(path string) ([]string, error) {
	if path == "" {
		return defaultGreeting(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read greeting %s: %w", path, err)
	}

	var blocks []string
	for _, block := range strings.Split(string(raw), "\n\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	if len(blocks) == 0 {
		return defaultGreeting(), nil
	}
	return blocks, nil
}

func defaultGreeting() []string {
	return []string{
		"Welcome! You and your partner will guess words together.",
		"You both need to submit the same guess before it counts. " +
			"Discuss in the chat, then enter your word.",
	}
}
