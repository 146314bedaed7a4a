package api

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var separatorRun = regexp.MustCompile(`[\-_.\s]+(.)?`)

// ToCamel normalizes a parameter key: every run of '-', '_', '.' or whitespace
// is dropped and the character after it upper-cased ("block_range_lo" -> "blockRangeLo").
func ToCamel(key string) string {
	return separatorRun.ReplaceAllStringFunc(key, func(m string) string {
		sub := separatorRun.FindStringSubmatch(m)
		return strings.ToUpper(sub[1])
	})
}

// Param is one query parameter. Array parameters are sent as repeated key[]=value pairs.
type Param struct {
	Key    string
	Values []string
	Array  bool
}

// Params is an ordered parameter list. Keys are stored already normalized with ToCamel.
type Params []Param

// AddString appends key=value unless value is empty. Each adder returns the
// extended list, so optional inputs can be chained straight through.
func (p Params) AddString(key, value string) Params {
	if value == "" {
		return p
	}
	return append(p, Param{Key: ToCamel(key), Values: []string{value}})
}

func (p Params) AddBool(key string, value bool) Params {
	return append(p, Param{Key: ToCamel(key), Values: []string{strconv.FormatBool(value)}})
}

func (p Params) AddUint(key string, value uint64) Params {
	return append(p, Param{Key: ToCamel(key), Values: []string{strconv.FormatUint(value, 10)}})
}

// AddOptUint appends *value, or nothing when value is nil.
func (p Params) AddOptUint(key string, value *uint64) Params {
	if value == nil {
		return p
	}
	return p.AddUint(key, *value)
}

// AddStrings appends an array parameter, sent as repeated key[]=v pairs.
// An empty slice is skipped.
func (p Params) AddStrings(key string, values []string) Params {
	if len(values) == 0 {
		return p
	}
	return append(p, Param{Key: ToCamel(key), Values: append([]string(nil), values...), Array: true})
}

// Encode renders the list as a query string in insertion order.
func (p Params) Encode() string {
	var b strings.Builder
	for _, param := range p {
		key := param.Key
		if param.Array {
			key += "[]"
		}
		for _, v := range param.Values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// Get returns the first value stored under the normalized key.
func (p Params) Get(key string) (string, bool) {
	key = ToCamel(key)
	for _, param := range p {
		if param.Key == key && len(param.Values) > 0 {
			return param.Values[0], true
		}
	}
	return "", false
}
