package encode

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml/printer"
)

type ColorAttr int

const (
	KeyColor ColorAttr = iota
	StringColor
	NumberColor
	BoolColor
	AnchorColor
	AliasColor
)

// Colors maps the parts of an encoding to terminal color attributes.
type Colors struct {
	Map map[ColorAttr][]color.Attribute
}

func NewColors() *Colors {
	return &Colors{Map: map[ColorAttr][]color.Attribute{
		KeyColor:    {color.FgHiCyan},
		StringColor: {color.FgHiGreen},
		NumberColor: {color.FgHiMagenta},
		BoolColor:   {color.FgHiYellow},
		AnchorColor: {color.FgHiBlue},
		AliasColor:  {color.FgHiBlue, color.Bold},
	}}
}

func escape(attrs ...color.Attribute) string {
	s := ""
	for _, a := range attrs {
		s += fmt.Sprintf("\x1b[%dm", a)
	}
	return s
}

func (c *Colors) prop(a ColorAttr) printer.PrintFunc {
	attrs := c.Map[a]
	return func() *printer.Property {
		if len(attrs) == 0 {
			return &printer.Property{}
		}
		return &printer.Property{
			Prefix: escape(attrs...),
			Suffix: escape(color.Reset),
		}
	}
}

func (c *Colors) printer() *printer.Printer {
	return &printer.Printer{
		MapKey: c.prop(KeyColor),
		String: c.prop(StringColor),
		Number: c.prop(NumberColor),
		Bool:   c.prop(BoolColor),
		Anchor: c.prop(AnchorColor),
		Alias:  c.prop(AliasColor),
	}
}
