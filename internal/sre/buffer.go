package sre

import (
	"regexp"
	"unicode/utf8"
)

// Buffer is the in-memory rune buffer an SRE pipeline stage operates over —
// the pizza stage's stdin read to completion before any address resolves.
type Buffer struct {
	Data []rune
}

// NewBuffer builds a Buffer from text, as read from a pizza stage's stdin.
func NewBuffer(text string) *Buffer {
	return &Buffer{Data: []rune(text)}
}

func (b *Buffer) String() string { return string(b.Data) }

// Range is a half-open [Lo, Hi) span of rune offsets into a Buffer.
type Range struct {
	Lo, Hi int
}

func (r Range) Len() int { return r.Hi - r.Lo }

// lineBounds returns the rune offset of the start of the (1-based) nth line,
// and of one past its end (including its trailing newline, if any). Line 0
// is the empty span at offset 0 (the position "before the first line").
func lineBounds(data []rune, n int) (int, int, bool) {
	if n == 0 {
		return 0, 0, true
	}
	line := 0
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line++
			if line == n {
				if i < len(data) {
					return start, i + 1, true
				}
				return start, i, true
			}
			start = i + 1
		}
	}
	return 0, 0, false
}

// lineOf returns the 1-based line number containing offset off (off==len
// counts as belonging to the last, possibly empty, line after it).
func lineOf(data []rune, off int) int {
	line := 1
	for i := 0; i < off && i < len(data); i++ {
		if data[i] == '\n' {
			line++
		}
	}
	return line
}

// lineAddress resolves a Line(num) atom. sign==0 is absolute ("line num",
// with Line(0) the null line before the first line). sign>0/sign<0 are
// relative to dot's end/start respectively; num==0 in the relative case is
// the empty range at the boundary of the current line (the spec's "(0,0) if
// dot starts at 0" edge case), num>0 selects a whole line n steps away.
func lineAddress(buf *Buffer, dot Range, num int, sign int) (Range, error) {
	switch {
	case sign == 0:
		lo, hi, ok := lineBounds(buf.Data, num)
		if !ok {
			return Range{}, errOutOfRange()
		}
		return Range{Lo: lo, Hi: hi}, nil
	case sign > 0:
		if num == 0 {
			if dot.Hi == 0 {
				return Range{0, 0}, nil
			}
			_, hi, ok := lineBounds(buf.Data, lineOf(buf.Data, dot.Hi))
			if !ok {
				return Range{}, errOutOfRange()
			}
			return Range{Lo: hi, Hi: hi}, nil
		}
		base := lineOf(buf.Data, dot.Hi)
		lo, hi, ok := lineBounds(buf.Data, base+num)
		if !ok {
			return Range{}, errOutOfRange()
		}
		return Range{Lo: lo, Hi: hi}, nil
	default:
		if num == 0 {
			if dot.Lo == 0 {
				return Range{0, 0}, nil
			}
			lo, _, ok := lineBounds(buf.Data, lineOf(buf.Data, dot.Lo))
			if !ok {
				return Range{}, errOutOfRange()
			}
			return Range{Lo: lo, Hi: lo}, nil
		}
		base := lineOf(buf.Data, dot.Lo)
		target := base - num
		if target < 0 {
			return Range{}, errOutOfRange()
		}
		lo, hi, ok := lineBounds(buf.Data, target)
		if !ok {
			return Range{}, errOutOfRange()
		}
		return Range{Lo: lo, Hi: hi}, nil
	}
}

// charAddress resolves a Char(num) atom: the empty range at a fixed rune
// offset: absolute for sign==0, relative to dot's end (sign>0) or dot's
// start (sign<0).
func charAddress(buf *Buffer, dot Range, num int, sign int) (Range, error) {
	var off int
	switch {
	case sign == 0:
		off = num
	case sign > 0:
		off = dot.Hi + num
	default:
		off = dot.Lo - num
	}
	if off < 0 || off > len(buf.Data) {
		return Range{}, errOutOfRange()
	}
	return Range{Lo: off, Hi: off}, nil
}

// regexAddress resolves a Regex atom: searches forward from dot's end
// (sign>=0) or backward from dot's start (sign<0). Ground truth for this
// spec-ambiguous case is original_source/src/sre/address.rs's
// regexAddress: a failed or stuck-empty-match search retries exactly once,
// one code point further along (wrapping to the opposite boundary only
// when that retry would run off the end/start of the buffer), and a
// second failure is a genuine no-match — this is not a blanket "search the
// whole rest of the buffer" wraparound.
func regexAddress(buf *Buffer, dot Range, pattern string, sign int) (Range, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Range{}, errRegex(err)
	}
	text := string(buf.Data)
	if sign < 0 {
		return regexBackward(text, re, dot.Lo)
	}
	return regexForward(text, re, dot.Hi)
}

// findForwardFrom searches text for the first match at or after the rune
// offset fromRune, returning its bounds as rune offsets.
func findForwardFrom(text string, re *regexp.Regexp, fromRune, totalRunes int) (lo, hi int, ok bool) {
	if fromRune > totalRunes {
		return 0, 0, false
	}
	byteFrom := runeOffsetToByte(text, fromRune)
	loc := re.FindStringIndex(text[byteFrom:])
	if loc == nil {
		return 0, 0, false
	}
	return byteOffsetToRune(text, byteFrom+loc[0]), byteOffsetToRune(text, byteFrom+loc[1]), true
}

func regexForward(text string, re *regexp.Regexp, from int) (Range, error) {
	total := utf8.RuneCountInString(text)
	l := from
	lo, hi, ok := findForwardFrom(text, re, l, total)
	if !ok || (lo == hi && lo == l) {
		l++
		if l > total {
			l = 0
		}
		lo, hi, ok = findForwardFrom(text, re, l, total)
		if !ok {
			return Range{}, errNoMatch()
		}
	}
	return Range{Lo: lo, Hi: hi}, nil
}

// findLastBefore searches text for the last match strictly before the rune
// offset beforeRune, returning its bounds as rune offsets.
func findLastBefore(text string, re *regexp.Regexp, beforeRune int) (lo, hi int, ok bool) {
	byteBefore := runeOffsetToByte(text, beforeRune)
	matches := re.FindAllStringIndex(text[:byteBefore], -1)
	if len(matches) == 0 {
		return 0, 0, false
	}
	last := matches[len(matches)-1]
	return byteOffsetToRune(text, last[0]), byteOffsetToRune(text, last[1]), true
}

func regexBackward(text string, re *regexp.Regexp, before int) (Range, error) {
	total := utf8.RuneCountInString(text)
	l := before
	lo, hi, ok := findLastBefore(text, re, l)
	if !ok {
		lo, hi = l, l
	}
	if lo == hi && lo == l {
		l--
		if l < 0 {
			l = total
		}
		lo, hi, ok = findLastBefore(text, re, l)
		if !ok {
			return Range{}, errNoMatch()
		}
	}
	return Range{Lo: lo, Hi: hi}, nil
}

func runeOffsetToByte(s string, runeOff int) int {
	n := 0
	for i := range s {
		if n == runeOff {
			return i
		}
		n++
	}
	return len(s)
}

func byteOffsetToRune(s string, byteOff int) int {
	n := 0
	for i := range s {
		if i >= byteOff {
			return n
		}
		n++
	}
	return n
}
