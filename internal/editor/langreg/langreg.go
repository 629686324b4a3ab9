// Package langreg is the per-filetype language registry consulted by
// the action executor for comment-leader and indent-width behavior
// (gc/gu comment toggling, >>/<< indentation). The table is declared
// in an embedded YAML document and decoded once at package init;
// unknown filetypes fall back to a shell-style comment and a
// five-space indent.
package langreg

import (
	_ "embed"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed langs.yaml
var langsYAML []byte

// Entry describes one filetype's comment and indentation conventions.
type Entry struct {
	Comment  string `yaml:"comment"`
	TabWidth int    `yaml:"tab_width"`
	SoftTabs bool   `yaml:"soft_tabs"`
}

// TabString returns the literal text one level of indentation inserts:
// a run of spaces for soft-tab filetypes, a single tab otherwise.
func (e Entry) TabString() string {
	if e.SoftTabs {
		return strings.Repeat(" ", e.TabWidth)
	}
	return "\t"
}

var fallback = Entry{Comment: "# ", TabWidth: 5, SoftTabs: true}

var table map[string]Entry

func init() {
	table = make(map[string]Entry)
	if err := yaml.Unmarshal(langsYAML, &table); err != nil {
		panic("langreg: malformed embedded language table: " + err.Error())
	}
}

// Lookup returns the Entry registered for the given language tag
// (typically a buffer's file extension). An unknown or empty tag
// returns the fallback entry rather than a zero value, so callers
// always get a usable comment leader and tab width.
func Lookup(lang string) Entry {
	lang = strings.ToLower(strings.TrimPrefix(lang, "."))
	if e, ok := table[lang]; ok {
		return e
	}
	return fallback
}
