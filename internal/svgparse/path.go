package svgparse

import (
	"errors"
	"fmt"
	"strconv"

	"sketchgetdp/internal/mesh"
	"sketchgetdp/pkg/geometry"
)

// ErrInvalidPath is returned for malformed path data.
var ErrInvalidPath = errors.New("svgparse: invalid path data")

// Subpath is one moveto-started run of a path.
type Subpath struct {
	Points []geometry.Point
	Closed bool
}

// pathLexer splits SVG path data into command letters and numbers.
type pathLexer struct {
	s   string
	pos int
}

func (l *pathLexer) skipSeparators() {
	for l.pos < len(l.s) {
		switch l.s[l.pos] {
		case ' ', '\t', '\n', '\r', ',':
			l.pos++
		default:
			return
		}
	}
}

// command returns the next command letter, if the next token is one.
func (l *pathLexer) command() (byte, bool) {
	l.skipSeparators()
	if l.pos >= len(l.s) {
		return 0, false
	}
	c := l.s[l.pos]
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		if c == 'e' || c == 'E' {
			return 0, false
		}
		l.pos++
		return c, true
	}
	return 0, false
}

// hasNumber reports whether a number follows.
func (l *pathLexer) hasNumber() bool {
	l.skipSeparators()
	if l.pos >= len(l.s) {
		return false
	}
	c := l.s[l.pos]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func (l *pathLexer) number() (float64, error) {
	l.skipSeparators()
	start := l.pos
	if l.pos < len(l.s) && (l.s[l.pos] == '-' || l.s[l.pos] == '+') {
		l.pos++
	}
	seenDot, seenExp := false, false
scan:
	for l.pos < len(l.s) {
		c := l.s[l.pos]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && !seenExp:
			seenExp = true
			if l.pos+1 < len(l.s) && (l.s[l.pos+1] == '-' || l.s[l.pos+1] == '+') {
				l.pos++
			}
		default:
			break scan
		}
		l.pos++
	}
	v, err := strconv.ParseFloat(l.s[start:l.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number at offset %d", ErrInvalidPath, start)
	}
	return v, nil
}

func (l *pathLexer) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		v, err := l.number()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ParsePathData flattens SVG path data into subpaths. Curves are sampled
// with samples steps per segment; arcs are replaced by a line to their end
// point.
func ParsePathData(d string, samples int) ([]Subpath, error) {
	if samples < 1 {
		samples = 1
	}
	l := &pathLexer{s: d}
	var (
		out      []Subpath
		cur      *Subpath
		pos      geometry.Point
		start    geometry.Point
		lastCtrl geometry.Point
		lastCmd  byte
		cmd      byte
		haveCmd  bool
	)

	emit := func(p geometry.Point) {
		if cur == nil {
			out = append(out, Subpath{Points: []geometry.Point{pos}})
			cur = &out[len(out)-1]
		}
		cur.Points = append(cur.Points, p)
		pos = p
	}
	curve := func(pts ...geometry.Point) {
		seg := mesh.Segment{Points: append([]geometry.Point{pos}, pts...)}
		for _, p := range seg.Sample(samples)[1:] {
			emit(p)
		}
	}

	for {
		if c, ok := l.command(); ok {
			cmd, haveCmd = c, true
		} else if !l.hasNumber() {
			if l.pos < len(l.s) {
				return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrInvalidPath, l.s[l.pos], l.pos)
			}
			break
		} else if !haveCmd || upper(cmd) == 'Z' {
			return nil, fmt.Errorf("%w: number without command at offset %d", ErrInvalidPath, l.pos)
		}

		rel := cmd >= 'a'
		base := geometry.Point{}
		if rel {
			base = pos
		}
		switch cmd {
		case 'M', 'm':
			v, err := l.numbers(2)
			if err != nil {
				return nil, err
			}
			pos = base.Add(geometry.Pt(v[0], v[1]))
			start = pos
			out = append(out, Subpath{Points: []geometry.Point{pos}})
			cur = &out[len(out)-1]
			// Further pairs are implicit lineto commands.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L', 'l':
			v, err := l.numbers(2)
			if err != nil {
				return nil, err
			}
			emit(base.Add(geometry.Pt(v[0], v[1])))
		case 'H', 'h':
			v, err := l.numbers(1)
			if err != nil {
				return nil, err
			}
			x := v[0]
			if rel {
				x += pos.X
			}
			emit(geometry.Pt(x, pos.Y))
		case 'V', 'v':
			v, err := l.numbers(1)
			if err != nil {
				return nil, err
			}
			y := v[0]
			if rel {
				y += pos.Y
			}
			emit(geometry.Pt(pos.X, y))
		case 'Q', 'q':
			v, err := l.numbers(4)
			if err != nil {
				return nil, err
			}
			c := base.Add(geometry.Pt(v[0], v[1]))
			curve(c, base.Add(geometry.Pt(v[2], v[3])))
			lastCtrl = c
		case 'T', 't':
			v, err := l.numbers(2)
			if err != nil {
				return nil, err
			}
			c := pos
			if lastCmd == 'Q' || lastCmd == 'T' {
				c = pos.Scale(2).Sub(lastCtrl)
			}
			curve(c, base.Add(geometry.Pt(v[0], v[1])))
			lastCtrl = c
		case 'C', 'c':
			v, err := l.numbers(6)
			if err != nil {
				return nil, err
			}
			c2 := base.Add(geometry.Pt(v[2], v[3]))
			curve(base.Add(geometry.Pt(v[0], v[1])), c2, base.Add(geometry.Pt(v[4], v[5])))
			lastCtrl = c2
		case 'S', 's':
			v, err := l.numbers(4)
			if err != nil {
				return nil, err
			}
			c1 := pos
			if lastCmd == 'C' || lastCmd == 'S' {
				c1 = pos.Scale(2).Sub(lastCtrl)
			}
			c2 := base.Add(geometry.Pt(v[0], v[1]))
			curve(c1, c2, base.Add(geometry.Pt(v[2], v[3])))
			lastCtrl = c2
		case 'A', 'a':
			v, err := l.numbers(7)
			if err != nil {
				return nil, err
			}
			emit(base.Add(geometry.Pt(v[5], v[6])))
		case 'Z', 'z':
			if cur != nil {
				if cur.Points[len(cur.Points)-1] != start {
					cur.Points = append(cur.Points, start)
				}
				cur.Closed = true
			}
			pos = start
			cur = nil
		default:
			return nil, fmt.Errorf("%w: unknown command %q", ErrInvalidPath, cmd)
		}
		lastCmd = upper(cmd)
	}
	return out, nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
