package widget

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// An adjustFunc formats the value of a TextHtml formula part.
type adjustFunc func(v any, lang language.Tag) (string, error)

var gb = language.BritishEnglish

var adjusts = map[string]adjustFunc{
	"num, 0 dec, local":    num(0, 0, true),
	"num, 2 dec, local":    num(2, 2, true),
	"num, auto dec, local": num(0, 3, true),
	"num, 0 dec":           num(0, 0, false),
	"num, 2 dec":           num(2, 2, false),
	"num, auto dec":        num(0, 3, false),
	"angle, 0 dec, local":  angle,

	"date and time, local":        date("1/2/2006, 3:04:05 PM"),
	"date and time no sec, local": date("1/2/2006, 3:04 PM"),
	"date, local":                 date("1/2/2006"),
	"time, local":                 date("3:04:05 PM"),
	"time no sec, local":          date("3:04 PM"),

	"name": transName,
	"json": jsonAdjust,
}

// Adjusts returns the names of the available adjusts.
func Adjusts() []string {
	res := make([]string, 0, len(adjusts))
	for k := range adjusts {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Adjust formats v with the adjust id. lang is the document language used
// by local adjusts; empty means English.
func Adjust(id string, v any, lang string) (string, error) {
	a, ok := adjusts[id]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownAdjust, id)
	}
	tag := language.English
	if lang != "" {
		t, err := language.Parse(lang)
		if err == nil {
			tag = t
		}
	}
	return a(v, tag)
}

func num(minFrac, maxFrac int, local bool) adjustFunc {
	return func(v any, tag language.Tag) (string, error) {
		f, ok := v.(float64)
		if !ok {
			return "", fmt.Errorf("%w: expected number, got %T", ErrBadValue, v)
		}
		if !local {
			tag = gb
		}
		return formatNum(f, tag, minFrac, maxFrac), nil
	}
}

func angle(v any, tag language.Tag) (string, error) {
	f, ok := v.(float64)
	if !ok {
		return "", fmt.Errorf("%w: expected number, got %T", ErrBadValue, v)
	}
	return formatNum(f/math.Pi*180, tag, 0, 0), nil
}

func formatNum(f float64, tag language.Tag, minFrac, maxFrac int) string {
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(f,
		number.MinFractionDigits(minFrac),
		number.MaxFractionDigits(maxFrac)))
}

// date formats RFC 3339 timestamps in their own offset.
func date(layout string) adjustFunc {
	return func(v any, _ language.Tag) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%w: expected string, got %T", ErrBadValue, v)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadValue, err)
		}
		return t.Format(layout), nil
	}
}

// transName picks the translation of a name for the language, falling back
// to English and then to the first language.
func transName(v any, tag language.Tag) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case map[string]any:
		base, _ := tag.Base()
		for _, k := range []string{tag.String(), base.String(), "en"} {
			if s, ok := x[k]; ok {
				str, ok := s.(string)
				if !ok {
					return "", fmt.Errorf("%w: name %q is %T", ErrBadValue, k, s)
				}
				return str, nil
			}
		}
		keys := make([]string, 0, len(x))
		for k, s := range x {
			if _, ok := s.(string); !ok {
				return "", fmt.Errorf("%w: name %q is %T", ErrBadValue, k, s)
			}
			keys = append(keys, k)
		}
		if len(keys) == 0 {
			return "", nil
		}
		sort.Strings(keys)
		return x[keys[0]].(string), nil
	}
	return "", fmt.Errorf("%w: expected string or map of strings, got %T", ErrBadValue, v)
}

func jsonAdjust(v any, _ language.Tag) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadValue, err)
	}
	return string(b), nil
}
