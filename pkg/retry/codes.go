package retry

import (
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"gopkg.in/yaml.v3"

	"github.com/jzx17/assetsettings/pkg/types"
)

// Codes is a set of gRPC status codes that a policy treats as retryable
type Codes []codes.Code

// codeAliases maps canonical spellings that differ from codes.Code.String()
var codeAliases = map[string]codes.Code{
	"cancelled": codes.Canceled,
}

// ParseCode accepts canonical ("DEADLINE_EXCEEDED") and Go ("DeadlineExceeded") spellings
func ParseCode(name string) (codes.Code, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
	if c, ok := codeAliases[key]; ok {
		return c, nil
	}
	for c := codes.OK; c <= codes.Unauthenticated; c++ {
		if strings.ToLower(c.String()) == key {
			return c, nil
		}
	}
	return codes.Unknown, fmt.Errorf("%w: unknown status code %q", types.ErrInvalidConfig, name)
}

// ParseCodes parses a list of code names, keeping the result non-nil
func ParseCodes(names []string) (Codes, error) {
	out := make(Codes, 0, len(names))
	for _, name := range names {
		c, err := ParseCode(name)
		if err != nil {
			return nil, err
		}
		if !out.Contains(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Contains reports whether c is in the set
func (cs Codes) Contains(c codes.Code) bool {
	for _, existing := range cs {
		if existing == c {
			return true
		}
	}
	return false
}

// Clone copies the set, preserving the nil / empty distinction
func (cs Codes) Clone() Codes {
	if cs == nil {
		return nil
	}
	return append(Codes{}, cs...)
}

// Names returns the canonical upper-snake names of the codes
func (cs Codes) Names() []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = canonicalName(c)
	}
	return names
}

func (cs Codes) String() string {
	return "[" + strings.Join(cs.Names(), ",") + "]"
}

// UnmarshalYAML implements yaml.Unmarshaler.
// An explicit empty list yields a non-nil empty set.
func (cs *Codes) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	parsed, err := ParseCodes(names)
	if err != nil {
		return err
	}
	*cs = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (cs Codes) MarshalYAML() (interface{}, error) {
	return cs.Names(), nil
}

// canonicalName converts "DeadlineExceeded" to "DEADLINE_EXCEEDED"
func canonicalName(c codes.Code) string {
	if c == codes.Canceled {
		return "CANCELLED"
	}
	name := c.String()
	var b strings.Builder
	var prevLower bool
	for _, r := range name {
		upper := r >= 'A' && r <= 'Z'
		if upper && prevLower {
			b.WriteByte('_')
		}
		prevLower = !upper
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
