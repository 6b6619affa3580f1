package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jzx17/assetsettings/pkg/types"
)

// envRef matches ${NAME}; a bare $ is left alone
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandNode rewrites ${NAME} in every scalar value below node.
// path is the dotted key path used in errors.
func expandNode(node *yaml.Node, path string) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := expandNode(child, path); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, child := range node.Content {
			if err := expandNode(child, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if path != "" {
				key = path + "." + key
			}
			if err := expandNode(node.Content[i+1], key); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		return expandScalar(node, path)
	}
	return nil
}

func expandScalar(node *yaml.Node, path string) error {
	if !strings.Contains(node.Value, "${") {
		return nil
	}

	var missing []string
	expanded := envRef.ReplaceAllStringFunc(node.Value, func(ref string) string {
		name := envRef.FindStringSubmatch(ref)[1]
		value, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
		}
		return value
	})
	if len(missing) > 0 {
		return types.NewConfigError(path, node.Value,
			fmt.Errorf("%w: environment variable %s is not set", types.ErrInvalidConfig, strings.Join(missing, ", ")))
	}

	node.Value = expanded
	// plain scalars are re-resolved so "${THREADS}" can become an int
	if node.Style == 0 {
		node.Tag = ""
	}
	return nil
}
