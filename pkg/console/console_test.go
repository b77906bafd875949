package console_test

import (
	"bytes"
	"testing"

	"github.com/julien-sobczak/the-noteweaver/pkg/console"
	"gotest.tools/assert"
)

func TestProgress(t *testing.T) {
	var out bytes.Buffer

	p := console.NewProgress(2,
		// Override options for unit-testing purposes
		console.ToWriter(&out),
		console.LineWidth(30))

	p.Step("Rendering a.nw")
	p.Step("Rendering b.nw")
	p.Done("2 notes rendered")

	expected := "" +
		"[#####     ] 1/2 Rendering a.n\r" +
		"[##########] 2/2 Rendering b.n\r" +
		"2 notes rendered              \n"
	assert.Equal(t, out.String(), expected)
}

func TestProgressWithoutBar(t *testing.T) {
	var out bytes.Buffer

	p := console.NewProgress(3,
		console.BarWidth(0),
		console.ToWriter(&out),
		console.LineWidth(12))

	p.Step("a")
	p.Step("b")
	p.Step("c")
	p.Step("extra")
	p.Done("")

	expected := "" +
		"1/3 a       \r" +
		"2/3 b       \r" +
		"3/3 c       \r" +
		"3/3 extra   \r" +
		"            \r"
	assert.Equal(t, out.String(), expected)
}

func TestProgressWithoutSteps(t *testing.T) {
	var out bytes.Buffer

	p := console.NewProgress(0, console.ToWriter(&out), console.LineWidth(20))
	p.Step("nothing")

	assert.Equal(t, out.String(), "[##########] 0/0 not\r")
}
