package frontmatter

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Encode serializes fields as YAML without delimiters. Map keys are sorted
// recursively. An empty map encodes to nothing.
func Encode(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	node, err := mappingNode(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mappingNode(m map[string]any) (*yaml.Node, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		val, err := valueNode(m[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		n.Content = append(n.Content, scalar("!!str", k), val)
	}
	return n, nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case string:
		return scalar("!!str", vv), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(vv)), nil
	case int:
		return scalar("!!int", strconv.Itoa(vv)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(vv, 10)), nil
	case float64:
		// Decoded JSON numbers arrive as float64; keep integers integral.
		if vv == math.Trunc(vv) && math.Abs(vv) < 1e15 {
			return scalar("!!int", strconv.FormatInt(int64(vv), 10)), nil
		}
		return scalar("!!float", strconv.FormatFloat(vv, 'g', -1, 64)), nil
	case map[string]any:
		return mappingNode(vv)
	case map[string]string:
		converted := make(map[string]any, len(vv))
		for k, val := range vv {
			converted[k] = val
		}
		return mappingNode(converted)
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			node, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, node)
		}
		return seq, nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			seq.Content = append(seq.Content, scalar("!!str", item))
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("unsupported frontmatter value of type %T", v)
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
