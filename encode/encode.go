package encode

import (
	"io"

	"github.com/goccy/go-yaml/lexer"

	"github.com/signadot/rpt/format"
	"github.com/signadot/rpt/report"
)

type EncodeOption func(*encState)

type encState struct {
	format format.Format
	colors *Colors
}

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *encState) { es.format = f }
}

// EncodeColors colors the output with c. A nil c leaves it plain.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *encState) { es.colors = c }
}

// Encode writes v, which must encode as JSON, to w.
func Encode(w io.Writer, v any, opts ...EncodeOption) error {
	es := &encState{}
	for _, o := range opts {
		o(es)
	}
	d, err := report.Encode(v, es.format)
	if err != nil {
		return err
	}
	if es.colors != nil {
		d = Colorize(d, es.colors)
	}
	_, err = w.Write(d)
	return err
}

// Colorize colors JSON or YAML text using c.
func Colorize(d []byte, c *Colors) []byte {
	toks := lexer.Tokenize(string(d))
	if len(toks) == 0 {
		return d
	}
	res := c.printer().PrintTokens(toks)
	if len(d) > 0 && d[len(d)-1] == '\n' && (res == "" || res[len(res)-1] != '\n') {
		res += "\n"
	}
	return []byte(res)
}
