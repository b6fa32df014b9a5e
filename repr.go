package jsonref

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// String renders the referent when the proxy is resolved or load-on-repr is
// enabled, and JsonRef({"$ref": ...}) otherwise. Rendering never loops on
// cyclic data: a container already being rendered prints as [...] or {...}.
// If resolution fails, the unresolved form is rendered.
func (r *Ref) String() string {
	var sb strings.Builder
	p := &printer{sb: &sb, active: make(map[nodeID]bool)}
	p.print(r)
	return sb.String()
}

// Repr renders any JSON-shaped value the way Ref.String does, descending
// into proxies according to their own load-on-repr setting.
func Repr(v any) string {
	var sb strings.Builder
	p := &printer{sb: &sb, active: make(map[nodeID]bool)}
	p.print(v)
	return sb.String()
}

type printer struct {
	sb     *strings.Builder
	active map[nodeID]bool
}

func (p *printer) print(v any) {
	if r, ok := v.(*Ref); ok {
		if r.resolved || (r.sess != nil && r.sess.loadOnRepr) {
			if s, err := r.Subject(); err == nil {
				p.print(s)
				return
			}
		}
		p.sb.WriteString("JsonRef(")
		p.print(r.reference)
		p.sb.WriteString(")")
		return
	}

	id, tracked := identity(v)
	if tracked {
		if p.active[id] {
			if _, isMap := v.(map[string]any); isMap {
				p.sb.WriteString("{...}")
			} else {
				p.sb.WriteString("[...]")
			}
			return
		}
		p.active[id] = true
		defer delete(p.active, id)
	}

	switch t := v.(type) {
	case map[string]any:
		p.sb.WriteByte('{')
		for i, k := range slices.Sorted(maps.Keys(t)) {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(strconv.Quote(k))
			p.sb.WriteString(": ")
			p.print(t[k])
		}
		p.sb.WriteByte('}')
	case []any:
		p.sb.WriteByte('[')
		for i, child := range t {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.print(child)
		}
		p.sb.WriteByte(']')
	case nil:
		p.sb.WriteString("null")
	case string:
		p.sb.WriteString(strconv.Quote(t))
	case bool:
		p.sb.WriteString(strconv.FormatBool(t))
	case float64:
		p.sb.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		fmt.Fprint(p.sb, t)
	}
}
