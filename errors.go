package vizpipe

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error codes used by Err.Code:
const (
	SchemaErrCode    = "SchemaErr"
	TypeErrCode      = "TypeErr"
	ChannelErrCode   = "ChannelErr"
	ValueErrCode     = "ValueErr"
	HierarchyErrCode = "HierarchyErr"
	ArgumentErrCode  = "ArgumentErr"
	SyntaxErrCode    = "SyntaxErr"
	RuntimeErrCode   = "RuntimeErr"
)

type Err struct {
	Code  string
	Title string
	Data  map[string]any
}

func (e Err) Error() string {
	fields := []string{
		e.Code + ": " + e.Title,
	}

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := e.Data[k]
		if err, ok := v.(error); ok {
			v = err.Error()
		}

		fields = append(fields, fmt.Sprintf("%s = %+v", k, v))
	}

	return strings.Join(fields, "; ")
}

// ErrIs reports whether any error in err's chain is an Err with the given code.
func ErrIs(err error, code string) bool {
	var e Err
	if !errors.As(err, &e) {
		return false
	}

	return e.Code == code
}

func SchemaErr(title string, data map[string]any) error {
	return Err{
		Code:  SchemaErrCode,
		Title: title,
		Data:  data,
	}
}

func TypeErr(title string, data map[string]any) error {
	return Err{
		Code:  TypeErrCode,
		Title: title,
		Data:  data,
	}
}

func ChannelErr(title string, data map[string]any) error {
	return Err{
		Code:  ChannelErrCode,
		Title: title,
		Data:  data,
	}
}

func ValueErr(title string, data map[string]any) error {
	return Err{
		Code:  ValueErrCode,
		Title: title,
		Data:  data,
	}
}

func HierarchyErr(title string, data map[string]any) error {
	return Err{
		Code:  HierarchyErrCode,
		Title: title,
		Data:  data,
	}
}

func ArgumentErr(title string, data map[string]any) error {
	return Err{
		Code:  ArgumentErrCode,
		Title: title,
		Data:  data,
	}
}

func SyntaxErr(title string, data map[string]any) error {
	return Err{
		Code:  SyntaxErrCode,
		Title: title,
		Data:  data,
	}
}

func RuntimeErr(title string, data map[string]any) error {
	return Err{
		Code:  RuntimeErrCode,
		Title: title,
		Data:  data,
	}
}
