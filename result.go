package mlscrape

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attribute is one key/value pair from a listing's specification table.
type Attribute struct {
	Key   string
	Value string
}

// Characteristics is the ordered attribute table of a listing. It marshals
// to a JSON object whose keys keep table order.
type Characteristics []Attribute

// Get returns the value stored under key.
func (c Characteristics) Get(key string) (string, bool) {
	for _, a := range c {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Set stores value under key. An existing key keeps its position.
func (c *Characteristics) Set(key, value string) {
	for i := range *c {
		if (*c)[i].Key == key {
			(*c)[i].Value = value
			return
		}
	}
	*c = append(*c, Attribute{Key: key, Value: value})
}

// Keys returns the attribute keys in table order.
func (c Characteristics) Keys() []string {
	keys := make([]string, 0, len(c))
	for _, a := range c {
		keys = append(keys, a.Key)
	}
	return keys
}

// MarshalJSON encodes the table as a JSON object in table order.
func (c Characteristics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(a.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values, keeping key order.
func (c *Characteristics) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("characteristics: expected object, got %v", tok)
	}

	var out Characteristics
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("characteristics: expected key, got %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("characteristics: value for %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = out
	return nil
}

// Fields holds the content recovered from one listing page.
type Fields struct {
	Title           string
	Description     string
	Image           string
	Characteristics Characteristics
}

// ExtractionResult is the outcome of scraping one listing URL.
// A successful result always carries a description; a failed one always
// carries an error message.
type ExtractionResult struct {
	URL             string          `json:"url"`
	Success         bool            `json:"success"`
	Title           string          `json:"title,omitempty"`
	Description     string          `json:"description,omitempty"`
	Image           string          `json:"image,omitempty"`
	Characteristics Characteristics `json:"characteristics,omitempty"`
	Error           string          `json:"error,omitempty"`
	Code            string          `json:"code,omitempty"`
}

// NewSuccessResult builds a successful result from extracted fields.
func NewSuccessResult(url string, f *Fields) *ExtractionResult {
	return &ExtractionResult{
		URL:             url,
		Success:         true,
		Title:           f.Title,
		Description:     f.Description,
		Image:           f.Image,
		Characteristics: f.Characteristics,
	}
}

// NewFailedResult builds a failed result carrying the error's code and
// caller-safe message.
func NewFailedResult(url string, err error) *ExtractionResult {
	return &ExtractionResult{
		URL:     url,
		Success: false,
		Error:   ErrorMessage(err),
		Code:    ErrorCode(err),
	}
}

// Err returns the result's failure as an application error, or nil.
func (r *ExtractionResult) Err() error {
	if r.Success {
		return nil
	}
	code := r.Code
	if code == "" {
		code = EINTERNAL
	}
	return &Error{Code: code, Message: r.Error}
}

// BatchOutcome holds the results of one batch run in submission order.
type BatchOutcome struct {
	Success bool                `json:"success"`
	Total   int                 `json:"total"`
	Results []*ExtractionResult `json:"results"`
}

// Succeeded returns the number of successful results.
func (b *BatchOutcome) Succeeded() int {
	var n int
	for _, r := range b.Results {
		if r.Success {
			n++
		}
	}
	return n
}
