package api

import (
	"fmt"
	"strings"
)

// NoLimit disables row truncation in ProjectChildren
const NoLimit = -1

const notAvailable = "N/A"

// Field extracts one column of a row from a child node
type Field struct {
	Key string
	// Path is a dotted path relative to the child, e.g. "jcr:content.jcr:title".
	Path string
	// Fallback is used when Path is absent, unless FallbackToName is set.
	Fallback       string
	FallbackToName bool
}

// Projection describes how children of a JCR tree become rows
type Projection struct {
	Fields []Field
	// Accept filters candidate children; nil keeps every object child.
	Accept func(child *Node) bool
}

var (
	// AssetProjection keeps DAM nodes that carry a primary type.
	AssetProjection = Projection{
		Fields: []Field{
			{Key: "type", Path: "jcr:primaryType", Fallback: notAvailable},
			{Key: "title", Path: "jcr:content.jcr:title", FallbackToName: true},
			{Key: "mimeType", Path: "jcr:content.metadata.dc:format", Fallback: notAvailable},
		},
		Accept: hasPrimaryType,
	}

	PageProjection = Projection{
		Fields: []Field{
			{Key: "title", Path: "jcr:content.jcr:title", FallbackToName: true},
			{Key: "template", Path: "jcr:content.cq:template", Fallback: notAvailable},
			{Key: "lastModified", Path: "jcr:content.cq:lastModified", Fallback: notAvailable},
		},
	}

	TagProjection = Projection{
		Fields: []Field{
			{Key: "title", Path: "jcr:title", FallbackToName: true},
			{Key: "description", Path: "jcr:description", Fallback: notAvailable},
		},
	}
)

// Columns returns the row keys the projection produces, in order
func (p Projection) Columns() []string {
	cols := []string{"name", "path"}
	for _, f := range p.Fields {
		cols = append(cols, f.Key)
	}
	return cols
}

// ProjectChildren maps the child nodes of node into flat rows. JCR metadata
// keys (jcr:*) and rep:policy are skipped, and only object-valued properties
// are considered. Rows keep source order. NoLimit disables truncation; any
// other negative limit yields no rows.
func ProjectChildren(node *Node, parentPath string, limit int, p Projection) []*Node {
	rows := []*Node{}
	for _, key := range node.Keys() {
		if limit != NoLimit && len(rows) >= limit {
			break
		}
		if isReservedKey(key) {
			continue
		}

		child, ok := node.Child(key)
		if !ok {
			continue
		}
		if p.Accept != nil && !p.Accept(child) {
			continue
		}

		row := NewNode()
		row.Set("name", key)
		row.Set("path", childPath(parentPath, key))
		for _, f := range p.Fields {
			row.Set(f.Key, extract(child, key, f))
		}
		rows = append(rows, row)
	}
	return rows
}

// checkLimit rejects negative limits from callers; only tag listings run
// without a limit
func checkLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("limit must be zero or more, got %d", limit)
	}
	return nil
}

func isReservedKey(key string) bool {
	return strings.HasPrefix(key, "jcr:") || key == "rep:policy"
}

func hasPrimaryType(child *Node) bool {
	v, ok := child.Get("jcr:primaryType")
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && s != ""
}

func extract(child *Node, name string, f Field) any {
	if v, ok := child.Lookup(f.Path); ok && v != nil {
		if !isObject(v) {
			return v
		}
	}
	if f.FallbackToName {
		return name
	}
	return f.Fallback
}

func childPath(parent, name string) string {
	return strings.TrimSuffix(parent, "/") + "/" + name
}
