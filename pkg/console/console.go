// Package console reports the progress of long operations on a single terminal line.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Progress rewrites the same line after each step.
//
//	[#####     ] 3/6 Rendering recipes/tiramisu.nw
type Progress struct {
	output    io.Writer
	total     int
	current   int
	barWidth  int
	lineWidth int
}

// ProgressOption customizes a progress line.
type ProgressOption func(*Progress)

// NewProgress reports a task made of total steps.
func NewProgress(total int, options ...ProgressOption) *Progress {
	p := &Progress{
		output:    os.Stdout,
		total:     total,
		barWidth:  10,
		lineWidth: 80,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// ToWriter redirects the output.
func ToWriter(w io.Writer) ProgressOption {
	return func(p *Progress) {
		p.output = w
	}
}

// BarWidth sets the number of characters of the bar (0 hides the bar).
func BarWidth(characters int) ProgressOption {
	return func(p *Progress) {
		p.barWidth = characters
	}
}

// LineWidth truncates or pads the lines.
func LineWidth(characters int) ProgressOption {
	return func(p *Progress) {
		p.lineWidth = characters
	}
}

// Step reports the next step.
func (p *Progress) Step(message string) {
	if p.current < p.total {
		p.current++
	}

	var sb strings.Builder
	if p.barWidth > 0 {
		filled := p.barWidth
		if p.total > 0 {
			filled = p.current * p.barWidth / p.total
		}
		sb.WriteByte('[')
		sb.WriteString(strings.Repeat("#", filled))
		sb.WriteString(strings.Repeat(" ", p.barWidth-filled))
		sb.WriteString("] ")
	}
	fmt.Fprintf(&sb, "%d/%d %s", p.current, p.total, message)

	fmt.Fprint(p.output, p.pad(sb.String()), "\r")
}

// Done replaces the progress line by a final message.
// An empty message erases the line.
func (p *Progress) Done(message string) {
	fmt.Fprint(p.output, p.pad(message))
	if message == "" {
		fmt.Fprint(p.output, "\r")
		return
	}
	fmt.Fprint(p.output, "\n")
}

func (p *Progress) pad(line string) string {
	if len(line) > p.lineWidth {
		return line[:p.lineWidth]
	}
	return line + strings.Repeat(" ", p.lineWidth-len(line))
}
