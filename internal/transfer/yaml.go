package transfer

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/eigerco/kvscope/internal/kverr"
	"github.com/eigerco/kvscope/internal/query"
)

const yamlStrTag = "!!str"

type yamlEntry struct {
	Key       string `yaml:"key"`
	Value     string `yaml:"value"`
	ValueType string `yaml:"value_type"`
}

func encodeYAML(w io.Writer, entries []query.KeyValue) error {
	out := make([]yamlEntry, len(entries))
	for i, e := range entries {
		out[i] = yamlEntry{
			Key:       lossyString(e.Key),
			Value:     lossyString(e.Value),
			ValueType: e.ValueType.String(),
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

// decodeYAML accepts either a single mapping, where every pair is an entry,
// or a sequence of mappings. A sequence item shaped like an exported record
// (key, value and optionally value_type) is one entry; any other mapping
// item contributes one entry per pair. Keys and values must be strings.
func decodeYAML(r io.Reader, emit emitFunc) error {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return kverr.New(kverr.ErrParse, "empty yaml document")
		}
		return kverr.Mark(err, kverr.ErrParse, "decode yaml")
	}
	if len(doc.Content) == 0 {
		return kverr.New(kverr.ErrParse, "empty yaml document")
	}

	root := resolveAlias(doc.Content[0])
	switch root.Kind {
	case yaml.MappingNode:
		return emitPairs(root, emit)
	case yaml.SequenceNode:
		for i, item := range root.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.MappingNode {
				return kverr.New(kverr.ErrParse, "yaml item %d (line %d): expected a mapping", i, item.Line)
			}
			var err error
			if isRecord(item) {
				err = emitRecord(item, emit)
			} else {
				err = emitPairs(item, emit)
			}
			if err != nil {
				return err
			}
		}
		return nil
	default:
		return kverr.New(kverr.ErrParse, "yaml root (line %d): expected a mapping or a sequence", root.Line)
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func emitPairs(m *yaml.Node, emit emitFunc) error {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, err := yamlString(m.Content[i])
		if err != nil {
			return err
		}
		value, err := yamlString(m.Content[i+1])
		if err != nil {
			return err
		}
		if err := emit([]byte(key), []byte(value)); err != nil {
			return err
		}
	}
	return nil
}

func emitRecord(m *yaml.Node, emit emitFunc) error {
	var key, value string
	for i := 0; i+1 < len(m.Content); i += 2 {
		field := resolveAlias(m.Content[i]).Value
		if field != "key" && field != "value" {
			continue
		}
		s, err := yamlString(m.Content[i+1])
		if err != nil {
			return err
		}
		if field == "key" {
			key = s
		} else {
			value = s
		}
	}
	return emit([]byte(key), []byte(value))
}

// isRecord reports whether m has exactly the fields of an exported entry.
func isRecord(m *yaml.Node) bool {
	seen := map[string]bool{}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := resolveAlias(m.Content[i])
		if k.Kind != yaml.ScalarNode || k.ShortTag() != yamlStrTag {
			return false
		}
		switch k.Value {
		case "key", "value", "value_type":
		default:
			return false
		}
		if seen[k.Value] {
			return false
		}
		seen[k.Value] = true
	}
	return seen["key"] && seen["value"]
}

func yamlString(n *yaml.Node) (string, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.ScalarNode || n.ShortTag() != yamlStrTag {
		return "", kverr.New(kverr.ErrParse, "yaml line %d: expected a string, got %s", n.Line, n.ShortTag())
	}
	return n.Value, nil
}
