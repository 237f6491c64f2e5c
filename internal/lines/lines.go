package lines

import (
	"github.com/hashicorp/hcl/v2"
	"golang.org/x/exp/slices"
)

// Line is one logical makefile line together with the place it was read from.
// Lines created programmatically (command line, environment) have a zero Range.
type Line struct {
	Text  string
	Range hcl.Range
}

// At returns the range covering a whole line of filename
func At(filename string, number int, text string) hcl.Range {
	return hcl.Range{
		Filename: filename,
		Start:    hcl.Pos{Line: number, Column: 1},
		End:      hcl.Pos{Line: number, Column: len(text) + 1},
	}
}

// Subject returns a pointer to the line range or nil if the line
// does not come from a file
func (line Line) Subject() *hcl.Range {
	if line.Range.Filename == "" {
		return nil
	}

	return line.Range.Ptr()
}

// List is an ordered sequence of lines. The zero value is an empty list
// ready to use.
type List struct {
	items []Line
}

func FromStrings(texts ...string) List {
	list := List{}
	for _, text := range texts {
		list.AppendText(text)
	}

	return list
}

func (list *List) Append(line Line) {
	list.items = append(list.items, line)
}

func (list *List) AppendText(text string) {
	list.items = append(list.items, Line{Text: text})
}

func (list List) Len() int {
	return len(list.items)
}

func (list List) Empty() bool {
	return len(list.items) == 0
}

// Items returns a copy of the lines in insertion order
func (list List) Items() []Line {
	return slices.Clone(list.items)
}

func (list List) Texts() []string {
	result := make([]string, len(list.items))
	for index, line := range list.items {
		result[index] = line.Text
	}

	return result
}

// Clone returns an independent copy; appending to either list does not
// affect the other one.
func (list List) Clone() List {
	return List{items: slices.Clone(list.items)}
}
