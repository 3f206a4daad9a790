// Package urlparam encodes and decodes URL query strings.
//
// It keeps parameter order, writes multi-valued parameters as repeated
// keys and can flatten tagged string fields into parameters:
//
//	// ?brands=Apple&brands=Samsung
//	qs := urlparam.Stringify(values, urlparam.AddQueryPrefix)
//
//	// Fields by `url` tag, empty values skipped
//	type Filters struct {
//	    Category string   `url:"cat"`
//	    Tags     []string `url:"tags"`
//	}
//	values := urlparam.Encode(Filters{Category: "tech"})
package urlparam

import (
	"strconv"
	"strings"
)

// Option configures Stringify.
type Option interface {
	apply(*options)
}

type options struct {
	queryPrefix bool
}

type prefixOption struct{}

func (prefixOption) apply(o *options) {
	o.queryPrefix = true
}

// AddQueryPrefix prepends "?" to a non-empty query string.
var AddQueryPrefix Option = prefixOption{}

// Param is one key with its values in order.
type Param struct {
	Key    string
	Values []string
}

// Values is an ordered list of parameters. Keys are unique.
type Values []Param

// Add appends vals to key, creating it at the end if missing.
func (v *Values) Add(key string, vals ...string) {
	for i := range *v {
		if (*v)[i].Key == key {
			(*v)[i].Values = append((*v)[i].Values, vals...)
			return
		}
	}
	*v = append(*v, Param{Key: key, Values: append([]string(nil), vals...)})
}

// All returns every value of key.
func (v Values) All(key string) []string {
	for _, p := range v {
		if p.Key == key {
			return p.Values
		}
	}
	return nil
}

// Has reports whether key is present.
func (v Values) Has(key string) bool {
	for _, p := range v {
		if p.Key == key {
			return true
		}
	}
	return false
}

// Stringify serializes values. Keys and values are percent-encoded; a
// multi-valued parameter repeats its key once per value, and parameters
// without values are left out.
func Stringify(values Values, opts ...Option) string {
	var o options
	for _, opt := range opts {
		opt.apply(&o)
	}

	var parts []string
	for _, p := range values {
		key := QueryEscape(p.Key)
		for _, val := range p.Values {
			parts = append(parts, key+"="+QueryEscape(val))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	joined := strings.Join(parts, "&")
	if o.queryPrefix {
		return "?" + joined
	}
	return joined
}

// Parse reads a query string, with or without the leading "?".
// Repeated keys and keys of the form k[] or k[N] collect into one
// parameter in order of appearance. Undecodable input is kept verbatim.
func Parse(query string) Values {
	query = strings.TrimPrefix(query, "?")

	var values Values
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key := arrayKey(QueryUnescape(rawKey))
		if key == "" {
			continue
		}
		values.Add(key, QueryUnescape(rawVal))
	}
	return values
}

// arrayKey strips a trailing [] or [N] from a key.
func arrayKey(key string) string {
	if !strings.HasSuffix(key, "]") {
		return key
	}
	open := strings.LastIndexByte(key, '[')
	if open <= 0 {
		return key
	}
	index := key[open+1 : len(key)-1]
	if index == "" {
		return key[:open]
	}
	if _, err := strconv.Atoi(index); err == nil {
		return key[:open]
	}
	return key
}
