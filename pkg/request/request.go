// Package request exposes submitted form input to elements independently of
// how it arrived (query string, urlencoded body, multipart body or a plain
// map built in tests and CLIs).
package request

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// DefaultMaxMemory bounds the in-memory part of a parsed multipart body.
const DefaultMaxMemory = 32 << 20

// Input is the submitted request data an element reads on validate and save.
type Input interface {
	// Value returns the first value submitted under name.
	Value(name string) (string, bool)
	// Values returns every value submitted under name.
	Values(name string) []string
	// File returns the first file uploaded under name.
	File(name string) (*multipart.FileHeader, bool)
	// Has reports whether name was submitted as a value or file.
	Has(name string) bool
	// Names lists every submitted name in sorted order.
	Names() []string
}

// Form is the default Input backed by url.Values and multipart files.
type Form struct {
	values url.Values
	files  map[string][]*multipart.FileHeader
}

var _ Input = (*Form)(nil)

// FromValues wraps already parsed values.
func FromValues(values url.Values) *Form {
	return &Form{values: cloneValues(values)}
}

// FromMap builds input from loosely typed values. Slices become repeated
// values; nil entries are dropped.
func FromMap(data map[string]any) *Form {
	values := make(url.Values, len(data))
	for key, raw := range data {
		name := strings.TrimSpace(key)
		if name == "" || raw == nil {
			continue
		}
		switch typed := raw.(type) {
		case []string:
			values[name] = append([]string(nil), typed...)
		case []any:
			for _, item := range typed {
				values.Add(name, fmt.Sprint(item))
			}
		default:
			values.Set(name, fmt.Sprint(typed))
		}
	}
	return &Form{values: values}
}

// FromMultipart wraps a parsed multipart form.
func FromMultipart(form *multipart.Form) *Form {
	if form == nil {
		return &Form{values: url.Values{}}
	}
	files := make(map[string][]*multipart.FileHeader, len(form.File))
	for name, headers := range form.File {
		if len(headers) > 0 {
			files[name] = append([]*multipart.FileHeader(nil), headers...)
		}
	}
	return &Form{values: cloneValues(form.Value), files: files}
}

// FromRequest parses r according to its content type. maxMemory <= 0 uses
// DefaultMaxMemory.
func FromRequest(r *http.Request, maxMemory int64) (*Form, error) {
	if r == nil {
		return nil, errors.New("request: nil http request")
	}
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("request: parse multipart form: %w", err)
		}
		in := FromMultipart(r.MultipartForm)
		for key, vals := range r.URL.Query() {
			if _, exists := in.values[key]; !exists {
				in.values[key] = vals
			}
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("request: parse form: %w", err)
	}
	return FromValues(r.Form), nil
}

// Value returns the first value for name.
func (f *Form) Value(name string) (string, bool) {
	if f == nil {
		return "", false
	}
	vals, ok := f.values[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Values returns a copy of every value for name.
func (f *Form) Values(name string) []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.values[name]...)
}

// File returns the first uploaded file for name.
func (f *Form) File(name string) (*multipart.FileHeader, bool) {
	if f == nil {
		return nil, false
	}
	headers := f.files[name]
	if len(headers) == 0 || headers[0] == nil {
		return nil, false
	}
	return headers[0], true
}

// Has reports whether name carries a value or a file.
func (f *Form) Has(name string) bool {
	if f == nil {
		return false
	}
	if _, ok := f.values[name]; ok {
		return true
	}
	_, ok := f.files[name]
	return ok
}

// Names lists submitted names.
func (f *Form) Names() []string {
	if f == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(f.values)+len(f.files))
	for name := range f.values {
		seen[name] = struct{}{}
	}
	for name := range f.files {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set replaces the values of name. It is used by callers that enrich the
// submitted data before handing it to a form.
func (f *Form) Set(name string, values ...string) *Form {
	if f.values == nil {
		f.values = url.Values{}
	}
	f.values[name] = append([]string(nil), values...)
	return f
}

// AttachFile adds an uploaded file under name.
func (f *Form) AttachFile(name string, header *multipart.FileHeader) *Form {
	if header == nil {
		return f
	}
	if f.files == nil {
		f.files = make(map[string][]*multipart.FileHeader)
	}
	f.files[name] = append(f.files[name], header)
	return f
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, vals := range values {
		out[key] = append([]string(nil), vals...)
	}
	return out
}
