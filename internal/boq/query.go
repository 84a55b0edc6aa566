package boq

import (
	"net/url"
	"strconv"
)

// Query parameter names for the detail page filter.
const (
	ParamFile     = "file"
	ParamItem     = "item"
	ParamType     = "type"
	ParamComplete = "complete"
)

// ParseFilter reads a FilterState from query values. A missing file key means
// all files; a present but empty key selects items without a file name.
func ParseFilter(v url.Values) FilterState {
	f := DefaultFilter()
	if v.Has(ParamFile) {
		f.SelectedFile = v.Get(ParamFile)
	}
	f.ItemSearch = v.Get(ParamItem)
	f.TypeSearch = v.Get(ParamType)
	if c := v.Get(ParamComplete); c != "" {
		f.OnlyComplete, _ = strconv.ParseBool(c)
		if c == "on" {
			f.OnlyComplete = true
		}
	}
	return f
}

// Query encodes the active predicates as query values.
func (f FilterState) Query() url.Values {
	v := url.Values{}
	if f.SelectedFile != AllFiles {
		v.Set(ParamFile, f.SelectedFile)
	}
	if f.ItemSearch != "" {
		v.Set(ParamItem, f.ItemSearch)
	}
	if f.TypeSearch != "" {
		v.Set(ParamType, f.TypeSearch)
	}
	if f.OnlyComplete {
		v.Set(ParamComplete, "true")
	}
	return v
}
