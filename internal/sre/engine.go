package sre

import (
	"io"
	"regexp"
	"sort"
)

// edit is one recorded change to be applied to the buffer after the whole
// command sequence has run. Lo/Hi is the span being replaced; Text is the
// replacement (empty for a pure deletion).
type edit struct {
	Lo, Hi int
	Text   []rune
}

// Engine runs a sequence of SRECommands against a Buffer, recording edits
// and applying them once at the end via applyChanges.
type Engine struct {
	buf    *Buffer
	out    io.Writer
	edits  []edit
}

// NewEngine builds an Engine over buf, writing `p` output to out.
func NewEngine(buf *Buffer, out io.Writer) *Engine {
	return &Engine{buf: buf, out: out}
}

// Run executes cmds in order against dot, returning the final dot after
// applyChanges relocates it across any recorded edits.
func (e *Engine) Run(cmds []*SRECommand, dot Range) (Range, error) {
	cur := dot
	for _, c := range cmds {
		var err error
		cur, err = e.exec(c, cur)
		if err != nil {
			return Range{}, err
		}
	}
	return e.applyChanges(cur), nil
}

func (e *Engine) exec(c *SRECommand, dot Range) (Range, error) {
	addrDot := dot
	if c.Address != nil {
		r, err := Resolve(e.buf, dot, c.Address)
		if err != nil {
			return Range{}, err
		}
		addrDot = r
	}
	switch c.Name {
	case 'p':
		io.WriteString(e.out, string(e.buf.Data[addrDot.Lo:addrDot.Hi]))
		return addrDot, nil
	case 'a':
		e.record(addrDot.Hi, addrDot.Hi, c.Args[0])
		return Range{Lo: addrDot.Hi, Hi: addrDot.Hi}, nil
	case 'i':
		e.record(addrDot.Lo, addrDot.Lo, c.Args[0])
		return Range{Lo: addrDot.Lo, Hi: addrDot.Lo}, nil
	case 'c':
		e.record(addrDot.Lo, addrDot.Hi, c.Args[0])
		return addrDot, nil
	case 'd':
		e.record(addrDot.Lo, addrDot.Hi, "")
		return addrDot, nil
	case 'g', 'v':
		re, err := regexp.Compile(c.Args[0])
		if err != nil {
			return Range{}, errRegex(err)
		}
		matched := re.MatchString(string(e.buf.Data[addrDot.Lo:addrDot.Hi]))
		if (c.Name == 'g' && matched) || (c.Name == 'v' && !matched) {
			if c.CommandArg != nil {
				return e.exec(c.CommandArg, addrDot)
			}
		}
		return addrDot, nil
	case 'x', 'y':
		return e.loopMatch(c, addrDot)
	default:
		return Range{}, errOutOfRange()
	}
}

// loopMatch implements x (run cmd for each match of re within dot) and y
// (run cmd for each span between matches of re within dot).
func (e *Engine) loopMatch(c *SRECommand, dot Range) (Range, error) {
	re, err := regexp.Compile(c.Args[0])
	if err != nil {
		return Range{}, errRegex(err)
	}
	text := string(e.buf.Data[dot.Lo:dot.Hi])
	matches := re.FindAllStringIndex(text, -1)
	cur := dot
	if c.Name == 'x' {
		for _, m := range matches {
			lo := dot.Lo + byteOffsetToRune(text, m[0])
			hi := dot.Lo + byteOffsetToRune(text, m[1])
			if c.CommandArg != nil {
				var err error
				cur, err = e.exec(c.CommandArg, Range{Lo: lo, Hi: hi})
				if err != nil {
					return Range{}, err
				}
			}
		}
		return cur, nil
	}
	prev := 0
	for _, m := range matches {
		lo := dot.Lo + byteOffsetToRune(text, prev)
		hi := dot.Lo + byteOffsetToRune(text, m[0])
		if c.CommandArg != nil {
			var err error
			cur, err = e.exec(c.CommandArg, Range{Lo: lo, Hi: hi})
			if err != nil {
				return Range{}, err
			}
		}
		prev = m[1]
	}
	lo := dot.Lo + byteOffsetToRune(text, prev)
	if c.CommandArg != nil {
		var err error
		cur, err = e.exec(c.CommandArg, Range{Lo: lo, Hi: dot.Hi})
		if err != nil {
			return Range{}, err
		}
	}
	return cur, nil
}

func (e *Engine) record(lo, hi int, text string) {
	e.edits = append(e.edits, edit{Lo: lo, Hi: hi, Text: []rune(text)})
}

// applyChanges applies all recorded edits to the buffer, in ascending order
// of position, against the original (pre-edit) coordinate space every
// command in the sequence ran in, then relocates dot into the new buffer.
func (e *Engine) applyChanges(dot Range) Range {
	if len(e.edits) == 0 {
		return dot
	}
	sort.SliceStable(e.edits, func(i, j int) bool { return e.edits[i].Lo < e.edits[j].Lo })

	var out []rune
	lastEnd := 0
	shiftBefore := 0 // cumulative shift from edits strictly before dot
	newDot := dot
	matched := false
	for _, ed := range e.edits {
		out = append(out, e.buf.Data[lastEnd:ed.Lo]...)
		newStart := len(out)
		out = append(out, ed.Text...)
		lastEnd = ed.Hi

		if ed.Lo == dot.Lo && ed.Hi == dot.Hi {
			newDot = Range{Lo: newStart, Hi: newStart + len(ed.Text)}
			matched = true
		} else if ed.Hi <= dot.Lo {
			shiftBefore += len(ed.Text) - (ed.Hi - ed.Lo)
		}
	}
	out = append(out, e.buf.Data[lastEnd:]...)
	e.buf.Data = out
	e.edits = nil
	if matched {
		return newDot
	}
	return Range{Lo: dot.Lo + shiftBefore, Hi: dot.Hi + shiftBefore}
}
