// Package category maps search category names to URL slugs and back.
//
// A slug is built by first swapping a name for its short alias, if it has
// one, and then percent-encoding every space-separated word and joining the
// words with "+":
//
//	codec := category.Default()
//	codec.Encode("Cameras & Camcorders") // "Cameras"
//	codec.Encode("Home Audio")           // "Home+Audio"
//	codec.Decode("Home+Audio")           // "Home Audio"
//
// Names that contain a literal "+" do not survive a round trip: the "+" is
// read back as a space.
package category

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/searchroute/pkg/urlparam"
)

// ErrNotBijective is returned by NewCodec when two aliases share a name or
// an alias is empty.
var ErrNotBijective = errors.New("category alias table is not bijective")

// DefaultAliases is the built-in alias table, keyed by short alias.
var DefaultAliases = map[string]string{
	"Cameras": "Cameras & Camcorders",
	"Cars":    "Car Electronics & GPS",
	"Phones":  "Cell Phones",
	"TV":      "TV & Home Theater",
}

// Codec converts between category names and slugs.
// The zero value has no aliases and encodes every name verbatim.
type Codec struct {
	byAlias map[string]string
	byName  map[string]string
}

// NewCodec builds a codec from an alias table keyed by short alias.
func NewCodec(aliases map[string]string) (*Codec, error) {
	c := &Codec{
		byAlias: make(map[string]string, len(aliases)),
		byName:  make(map[string]string, len(aliases)),
	}

	// Sorted so the reported conflict is stable.
	keys := make([]string, 0, len(aliases))
	for alias := range aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)

	for _, alias := range keys {
		name := aliases[alias]
		if alias == "" || name == "" {
			return nil, fmt.Errorf("%w: empty entry %q -> %q", ErrNotBijective, alias, name)
		}
		if prev, ok := c.byName[name]; ok {
			return nil, fmt.Errorf("%w: %q and %q both map to %q", ErrNotBijective, prev, alias, name)
		}
		c.byAlias[alias] = name
		c.byName[name] = alias
	}
	return c, nil
}

// Default returns a codec over DefaultAliases.
func Default() *Codec {
	c, err := NewCodec(DefaultAliases)
	if err != nil {
		panic(err)
	}
	return c
}

// Encode returns the slug for a category name.
func (c *Codec) Encode(name string) string {
	if alias, ok := c.alias(name); ok {
		name = alias
	}
	words := strings.Split(name, " ")
	for i, w := range words {
		words[i] = urlparam.EscapeComponent(w)
	}
	return strings.Join(words, "+")
}

// Decode returns the category name for a slug.
// Words that are not valid percent-encoding are kept as they are.
func (c *Codec) Decode(slug string) string {
	if name, ok := c.name(slug); ok {
		slug = name
	}
	words := strings.Split(slug, "+")
	for i, w := range words {
		words[i] = urlparam.UnescapeComponent(w)
	}
	return strings.Join(words, " ")
}

// Aliases returns a copy of the alias table.
func (c *Codec) Aliases() map[string]string {
	out := make(map[string]string, len(c.byAlias))
	for k, v := range c.byAlias {
		out[k] = v
	}
	return out
}

func (c *Codec) alias(name string) (string, bool) {
	if c == nil || c.byName == nil {
		return "", false
	}
	a, ok := c.byName[name]
	return a, ok
}

func (c *Codec) name(alias string) (string, bool) {
	if c == nil || c.byAlias == nil {
		return "", false
	}
	n, ok := c.byAlias[alias]
	return n, ok
}
