package layoutfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"msgc/internal/layout"
)

// Pretty writes a human-readable table per message:
//
//	message Person  size 16/32  hasbits 2 (1 byte)  required 1
//	  id    1  int32   required  off 4/4  bit 1
//	  name  2  string  optional  off 8/8  bit 2
//
// Offsets are narrow/wide pairs. Oneof groups get a trailing line with the
// discriminator offset.
func Pretty(w io.Writer, path string, exports []*layout.MessageExport, opts PrettyOpts) {
	headerColor := color.New(color.FgCyan, color.Bold)
	pathColor := color.New(color.Faint)
	requiredColor := color.New(color.FgYellow)
	oneofColor := color.New(color.FgMagenta)
	if !opts.Color {
		for _, c := range []*color.Color{headerColor, pathColor, requiredColor, oneofColor} {
			c.DisableColor()
		}
	}

	if path != "" {
		fmt.Fprintln(w, pathColor.Sprint(path))
	}
	for i, export := range exports {
		if i > 0 || path != "" {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s\n",
			headerColor.Sprintf("message %s", export.Name),
			messageSummary(export))

		rows := make([][5]string, 0, len(export.Fields))
		for _, f := range export.Fields {
			label := f.Label
			if f.Oneof != "" {
				label = "oneof:" + f.Oneof
			}
			extra := ""
			if f.Hasbit > 0 {
				extra = "bit " + strconv.Itoa(f.Hasbit)
			}
			rows = append(rows, [5]string{
				f.Name + " " + strconv.Itoa(int(f.Number)),
				f.Kind,
				label,
				"off " + sizePair(f.Offset),
				extra,
			})
		}

		var widths [5]int
		for _, row := range rows {
			for c, cell := range row {
				if cw := runewidth.StringWidth(cell); cw > widths[c] {
					widths[c] = cw
				}
			}
		}
		for ri, row := range rows {
			line := "  "
			for c, cell := range row {
				line += runewidth.FillRight(cell, widths[c]+2)
			}
			line = truncate(strings.TrimRight(line, " "), opts.Width)
			if export.Fields[ri].Label == "required" {
				line = requiredColor.Sprint(line)
			}
			fmt.Fprintln(w, line)
		}

		for _, oneof := range export.Oneofs {
			line := truncate(fmt.Sprintf("  oneof %s  case off %s", oneof.Name, sizePair(oneof.CaseOffset)), opts.Width)
			fmt.Fprintln(w, oneofColor.Sprint(line))
		}
	}
}

func messageSummary(export *layout.MessageExport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "size %s", sizePair(export.Size))
	if export.HasbitCount > 0 {
		noun := "bytes"
		if export.HasbitBytes == 1 {
			noun = "byte"
		}
		fmt.Fprintf(&b, "  hasbits %d (%d %s)", export.HasbitCount, export.HasbitBytes, noun)
	}
	if export.RequiredCount > 0 {
		fmt.Fprintf(&b, "  required %d", export.RequiredCount)
	}
	return b.String()
}

func sizePair(s layout.Size) string {
	return strconv.FormatInt(s.Size32, 10) + "/" + strconv.FormatInt(s.Size64, 10)
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
