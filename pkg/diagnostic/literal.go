package diagnostic

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/samwightt/querydoc/pkg/selection"
)

// Raw is printed verbatim, without quotes. Missing items use it for type names.
type Raw string

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*\??$`)

// Stringify renders a selection value the way a JavaScript object literal is
// written: unquoted keys, single-quoted strings, two-space indentation.
func Stringify(v any) string {
	return strings.Join(literalLines(v, 0), "\n")
}

func literalLines(v any, depth int) []string {
	p := &printer{}
	return p.value(v, "", depth)
}

func formatKey(key string) string {
	if identifier.MatchString(key) {
		return key
	}
	return quote(key)
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return "'" + r.Replace(s) + "'"
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return quote(val)
	case Raw:
		return string(val)
	case time.Time:
		return "new Date(" + quote(val.UTC().Format(selection.ISOLayout)) + ")"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// MissingItem is a key the caller left out, rendered as an extra line at Path.
// Type is a Raw name or an object of them.
type MissingItem struct {
	Path       string
	Type       any
	IsRequired bool
}

// Marks selects what PrintWithMarks highlights. Paths are dot-joined keys,
// list elements addressed by index.
type Marks struct {
	KeyPaths   []string
	ValuePaths []string
	Missing    []MissingItem
}

// PrintWithMarks echoes obj as a literal. Keys in KeyPaths are underlined
// with tildes, values in ValuePaths get a tilde line as wide as the value, and
// missing items are appended to their parent object prefixed with "+"
// (required) or "?" (optional).
func PrintWithMarks(obj *selection.Object, marks Marks) string {
	p := &printer{
		keys:    toSet(marks.KeyPaths),
		values:  toSet(marks.ValuePaths),
		missing: map[string][]MissingItem{},
	}
	for _, item := range marks.Missing {
		parent, _ := splitPath(item.Path)
		p.missing[parent] = append(p.missing[parent], item)
	}
	return strings.Join(p.object(obj, "", 0), "\n")
}

func toSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}

func splitPath(path string) (parent, key string) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

type printer struct {
	keys    map[string]bool
	values  map[string]bool
	missing map[string][]MissingItem
}

func pad(depth int) string {
	return strings.Repeat("  ", depth)
}

func (p *printer) value(v any, path string, depth int) []string {
	switch val := v.(type) {
	case *selection.Object:
		return p.object(val, path, depth)
	case []any:
		return p.list(val, path, depth)
	default:
		return []string{scalar(v)}
	}
}

func (p *printer) object(o *selection.Object, path string, depth int) []string {
	missing := p.missingFor(o, path)
	if o.Len() == 0 && len(missing) == 0 {
		return []string{"{}"}
	}

	var body [][]string
	for _, e := range o.Entries() {
		childPath := joinPath(path, e.Key)
		key := formatKey(e.Key)
		body = append(body, p.entry(key+": ", e.Value, childPath, depth+1, len(key)))
	}

	lines := []string{"{"}
	total := len(body) + len(missing)
	for i, entry := range body {
		if i < total-1 {
			appendComma(entry, p.markLines(joinPath(path, o.Keys()[i])))
		}
		lines = append(lines, entry...)
	}
	for i, item := range missing {
		entry := p.missingEntry(item, depth+1)
		if len(body)+i < total-1 {
			entry[len(entry)-1] += ","
		}
		for j, line := range entry {
			entry[j] = Green(line)
		}
		lines = append(lines, entry...)
	}
	return append(lines, pad(depth)+"}")
}

func (p *printer) list(items []any, path string, depth int) []string {
	if len(items) == 0 {
		return []string{"[]"}
	}
	lines := []string{"["}
	for i, item := range items {
		childPath := joinPath(path, strconv.Itoa(i))
		entry := p.entry("", item, childPath, depth+1, 0)
		if i < len(items)-1 {
			appendComma(entry, p.markLines(childPath))
		}
		lines = append(lines, entry...)
	}
	return append(lines, pad(depth)+"]")
}

// entry renders one object member or list element at depth, followed by its
// tilde lines when marked.
func (p *printer) entry(prefix string, v any, path string, depth int, keyWidth int) []string {
	valueLines := p.value(v, path, depth)
	lines := make([]string, len(valueLines))
	copy(lines, valueLines)
	lines[0] = pad(depth) + prefix + valueLines[0]

	if p.keys[path] && keyWidth > 0 {
		lines = append(lines, pad(depth)+Red(strings.Repeat("~", keyWidth)))
	}
	if p.values[path] {
		width := 0
		for _, line := range lines {
			if w := lipgloss.Width(line) - len(pad(depth)); w > width {
				width = w
			}
		}
		lines = append(lines, pad(depth)+Red(strings.Repeat("~", width)))
	}
	return lines
}

// markLines counts the tilde lines entry appended for path.
func (p *printer) markLines(path string) int {
	n := 0
	if p.keys[path] {
		n++
	}
	if p.values[path] {
		n++
	}
	return n
}

// appendComma adds the separator to the last value line, above any tilde lines.
func appendComma(entry []string, marks int) {
	i := len(entry) - 1 - marks
	if i < 0 {
		i = 0
	}
	entry[i] += ","
}

func (p *printer) missingFor(o *selection.Object, path string) []MissingItem {
	var out []MissingItem
	seen := map[string]bool{}
	for _, item := range p.missing[path] {
		_, key := splitPath(item.Path)
		if o.Has(key) || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsRequired && !out[j].IsRequired
	})
	return out
}

func (p *printer) missingEntry(item MissingItem, depth int) []string {
	_, key := splitPath(item.Path)
	key = formatKey(key)
	if !item.IsRequired {
		key += "?"
	}
	lines := (&printer{}).value(item.Type, "", depth)
	out := make([]string, len(lines))
	copy(out, lines)
	out[0] = pad(depth) + key + ": " + lines[0]

	marker := "?"
	if item.IsRequired {
		marker = "+"
	}
	for i, line := range out {
		if len(line) > 0 && line[0] == ' ' {
			out[i] = marker + line[1:]
		}
	}
	return out
}
