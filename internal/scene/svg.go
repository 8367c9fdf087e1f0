package scene

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// SVGOptions controls SVG export.
type SVGOptions struct {
	// Width and Height of the document. Zero sizes the document to the
	// drawing's bounds.
	Width, Height float64

	// IncludeGuides exports the guide layer too.
	IncludeGuides bool
}

// SVG returns the scene as an SVG document.
func (s *Scene) SVG(opts SVGOptions) string {
	var sb strings.Builder
	_ = s.WriteSVG(&sb, opts)
	return sb.String()
}

// WriteSVG writes the scene as an SVG document.
func (s *Scene) WriteSVG(w io.Writer, opts SVGOptions) error {
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		b := s.globalBounds(opts.IncludeGuides)
		width = math.Max(1, math.Ceil(b.Max.X))
		height = math.Max(1, math.Ceil(b.Max.Y))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(width), num(height), num(width), num(height))
	sb.WriteByte('\n')
	if s.Background != "" {
		fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>`, escape(s.Background))
		sb.WriteByte('\n')
	}

	for _, l := range s.layers {
		if !l.Visible || (l == s.guide && !opts.IncludeGuides) {
			continue
		}
		t := l.Transform
		fmt.Fprintf(&sb, `<g id="%s" transform="translate(%s %s) scale(%s)">`,
			escape(l.Name), num(t.Offset.X), num(t.Offset.Y), num(t.scale()))
		sb.WriteByte('\n')
		for _, it := range l.items {
			writeItem(&sb, it, 1)
		}
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func (s *Scene) globalBounds(includeGuides bool) Rect {
	var b Rect
	for _, l := range s.layers {
		if !l.Visible || (l == s.guide && !includeGuides) {
			continue
		}
		l.Walk(func(it *Item) {
			ib := it.Bounds()
			pad := it.Style.StrokeWidth / 2
			ib.Min = l.LocalToGlobal(ib.Min.Sub(Point{X: pad, Y: pad}))
			ib.Max = l.LocalToGlobal(ib.Max.Add(Point{X: pad, Y: pad}))
			b = b.Union(ib)
		})
	}
	return b
}

func writeItem(sb *strings.Builder, it *Item, depth int) {
	if !it.Visible {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	switch it.kind {
	case KindGroup:
		sb.WriteString("<g>\n")
		for _, c := range it.children {
			writeItem(sb, c, depth+1)
		}
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("</g>\n")
		return
	case KindCircle:
		fmt.Fprintf(sb, `<circle cx="%s" cy="%s" r="%s"`, num(it.center.X), num(it.center.Y), num(it.radius))
	case KindRectangle:
		fmt.Fprintf(sb, `<rect x="%s" y="%s" width="%s" height="%s"`,
			num(it.rect.Min.X), num(it.rect.Min.Y), num(it.rect.Width()), num(it.rect.Height()))
	case KindPath:
		fmt.Fprintf(sb, `<path d="%s"`, pathData(it))
	}
	writeStyle(sb, it.Style)
	sb.WriteString("/>\n")
}

func writeStyle(sb *strings.Builder, st Style) {
	fill := st.FillColor
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(sb, ` fill="%s"`, escape(fill))
	if st.StrokeColor != "" {
		fmt.Fprintf(sb, ` stroke="%s" stroke-width="%s"`, escape(st.StrokeColor), num(st.StrokeWidth))
		if st.StrokeCap != "" {
			fmt.Fprintf(sb, ` stroke-linecap="%s"`, escape(st.StrokeCap))
		}
		if st.StrokeJoin != "" {
			fmt.Fprintf(sb, ` stroke-linejoin="%s"`, escape(st.StrokeJoin))
		}
	}
}

// pathData returns the SVG path data of a path item.
func pathData(it *Item) string {
	if len(it.segments) == 0 {
		return ""
	}
	var sb strings.Builder
	first := it.segments[0].Point
	fmt.Fprintf(&sb, "M%s %s", num(first.X), num(first.Y))

	n := len(it.segments)
	curve := func(a, b Segment) {
		if straight(a, b) {
			fmt.Fprintf(&sb, " L%s %s", num(b.Point.X), num(b.Point.Y))
			return
		}
		c1 := a.Point.Add(a.HandleOut)
		c2 := b.Point.Add(b.HandleIn)
		fmt.Fprintf(&sb, " C%s %s %s %s %s %s",
			num(c1.X), num(c1.Y), num(c2.X), num(c2.Y), num(b.Point.X), num(b.Point.Y))
	}
	for i := 1; i < n; i++ {
		curve(it.segments[i-1], it.segments[i])
	}
	if it.closed && n > 1 {
		if !straight(it.segments[n-1], it.segments[0]) {
			curve(it.segments[n-1], it.segments[0])
		}
		sb.WriteString(" Z")
	}
	return sb.String()
}

// num formats a coordinate with at most three decimals.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

func escape(s string) string {
	return attrEscaper.Replace(s)
}
