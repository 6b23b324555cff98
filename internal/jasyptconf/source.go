package jasyptconf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PolarWolf314/jasyptor/internal/document"
	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

const sectionPrefix = "jasypt.encryptor."

// section returns the jasypt.encryptor.* settings of doc with the prefix
// removed.
func section(doc *document.Document) (map[string]string, error) {
	var flat map[string]string
	var err error
	switch doc.Kind {
	case document.YAML:
		flat, err = parseYAML(doc.Raw)
	case document.Properties:
		flat, err = parseProperties(doc.Raw)
	default:
		return nil, fmt.Errorf("%s: %w", doc.Path, kerrors.ErrUnsupportedFileType)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", kerrors.ErrConfig, doc.Path, err)
	}

	settings := make(map[string]string)
	for k, v := range flat {
		if name, ok := strings.CutPrefix(k, sectionPrefix); ok && name != "" {
			settings[name] = v
		}
	}
	return settings, nil
}

// parseYAML flattens every document in data into dotted keys, so that
// nested maps and keys written as "jasypt.encryptor.password" end up in the
// same place. The first definition of a key wins.
func parseYAML(data []byte) (map[string]string, error) {
	flat := make(map[string]string)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var root yaml.Node
		err := dec.Decode(&root)
		if errors.Is(err, io.EOF) {
			return flat, nil
		}
		if err != nil {
			return nil, err
		}
		if len(root.Content) > 0 {
			flattenNode("", root.Content[0], flat)
		}
	}
}

func flattenNode(prefix string, n *yaml.Node, out map[string]string) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			flattenNode(key, n.Content[i+1], out)
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			flattenNode(prefix+"["+strconv.Itoa(i)+"]", item, out)
		}
	case yaml.ScalarNode:
		if prefix == "" {
			return
		}
		if _, seen := out[prefix]; seen {
			return
		}
		if n.Tag == "!!null" {
			out[prefix] = ""
			return
		}
		out[prefix] = n.Value
	}
}

func parseProperties(data []byte) (map[string]string, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, err
	}
	return p.Map(), nil
}
