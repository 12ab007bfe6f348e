package contract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the default config file name looked up in "." and $HOME.
const ConfigFileName = ".githeat.yaml"

// repositoriesKey is the config key listing the repositories to analyze.
const repositoriesKey = "repositories"

// defaultConfigTemplate seeds a new config file.
var defaultConfigTemplate = fmt.Sprintf(`# githeat configuration
repositories: []
recent-days: %d
limit: %d
output: text
history-backend: gogit
runs-backend: none
color: "yes"
`, DefaultRecentDays, DefaultResultLimit)

// InitConfigFile writes the default config file. It refuses to overwrite
// an existing file unless force is set.
func InitConfigFile(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists", path)
	}
	return os.WriteFile(path, []byte(defaultConfigTemplate), 0o644)
}

// ListRepositories returns the repositories configured in the file.
// A missing file yields an empty list.
func ListRepositories(path string) ([]string, error) {
	doc, err := readConfigDocument(path)
	if err != nil {
		return nil, err
	}
	seq := findKey(doc, repositoriesKey)
	if seq == nil {
		return nil, nil
	}
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s in %s must be a list", repositoriesKey, path)
	}
	repos := make([]string, 0, len(seq.Content))
	for _, n := range seq.Content {
		repos = append(repos, n.Value)
	}
	return repos, nil
}

// AddRepository appends a repository to the config file, creating the file
// when needed. It reports false when the repository was already listed.
func AddRepository(path, repo string) (bool, error) {
	abs, err := NormalizeRepoPath(repo)
	if err != nil {
		return false, err
	}
	doc, err := readConfigDocument(path)
	if err != nil {
		return false, err
	}
	seq, err := ensureSequence(doc, repositoriesKey)
	if err != nil {
		return false, err
	}
	for _, n := range seq.Content {
		if existing, err := NormalizeRepoPath(n.Value); err == nil && existing == abs {
			return false, nil
		}
	}
	seq.Style = 0
	seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: abs})
	return true, writeConfigDocument(path, doc)
}

// RemoveRepository deletes a repository from the config file. It reports
// false when the repository was not listed.
func RemoveRepository(path, repo string) (bool, error) {
	abs, err := NormalizeRepoPath(repo)
	if err != nil {
		return false, err
	}
	doc, err := readConfigDocument(path)
	if err != nil {
		return false, err
	}
	seq := findKey(doc, repositoriesKey)
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return false, nil
	}
	before := len(seq.Content)
	seq.Content = slices.DeleteFunc(seq.Content, func(n *yaml.Node) bool {
		existing, err := NormalizeRepoPath(n.Value)
		return err == nil && existing == abs
	})
	if len(seq.Content) == before {
		return false, nil
	}
	return true, writeConfigDocument(path, doc)
}

// readConfigDocument parses the file into a document node. A missing or
// empty file yields a document holding an empty mapping.
func readConfigDocument(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config file %s must contain a mapping at the top level", path)
	}
	return &doc, nil
}

func writeConfigDocument(path string, doc *yaml.Node) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode config file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config file: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// findKey returns the value node for key in the top-level mapping.
func findKey(doc *yaml.Node, key string) *yaml.Node {
	m := doc.Content[0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// ensureSequence returns the sequence node for key, creating it if absent.
func ensureSequence(doc *yaml.Node, key string) (*yaml.Node, error) {
	if n := findKey(doc, key); n != nil {
		switch {
		case n.Kind == yaml.SequenceNode:
			return n, nil
		case n.Kind == yaml.ScalarNode && n.Tag == "!!null":
			*n = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			return n, nil
		default:
			return nil, fmt.Errorf("%s must be a list", key)
		}
	}
	m := doc.Content[0]
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, seq)
	return seq, nil
}
