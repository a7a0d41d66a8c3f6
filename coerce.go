package textdex

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"time"

	"github.com/kailas-cloud/textdex/internal/domain/record"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	htmlEntityRe = regexp.MustCompile(`&#?[a-zA-Z0-9]+;`)
)

// stripHTML removes markup tags and character entities.
func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	return htmlEntityRe.ReplaceAllString(s, "")
}

func textMarshaler(v reflect.Value) (encoding.TextMarshaler, bool) {
	if !v.CanInterface() {
		return nil, false
	}
	if tm, ok := v.Interface().(encoding.TextMarshaler); ok {
		return tm, true
	}
	if v.CanAddr() {
		if tm, ok := v.Addr().Interface().(encoding.TextMarshaler); ok {
			return tm, true
		}
	}
	return nil, false
}

// identityText renders a key field the way it is matched on delete and
// update: strings verbatim, numbers in their shortest exact form.
func identityText(v reflect.Value) (string, error) {
	if v.Type() == timeType {
		t, _ := v.Interface().(time.Time)
		return t.UTC().Format(record.DateLayout), nil
	}
	if tm, ok := textMarshaler(v); ok {
		b, err := tm.MarshalText()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits()), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	}
	return fmt.Sprint(v.Interface()), nil
}

// parseInt parses decimal integers, accepting integral floats such as the
// "30" or "3e+06" numeric fields read back as.
func parseInt(raw string, v reflect.Value) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
	if err == nil {
		return n, nil
	}
	f, ferr := strconv.ParseFloat(raw, 64)
	if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || v.OverflowInt(int64(f)) {
		return 0, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return int64(f), nil
}

func parseUint(raw string, v reflect.Value) (uint64, error) {
	n, err := strconv.ParseUint(raw, 10, v.Type().Bits())
	if err == nil {
		return n, nil
	}
	f, ferr := strconv.ParseFloat(raw, 64)
	if ferr != nil || f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || v.OverflowUint(uint64(f)) {
		return 0, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return uint64(f), nil
}
