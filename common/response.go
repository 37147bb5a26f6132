package common

import (
	"encoding/json"
	"net/http"
)

// JSON:API media type used for every document written by the decorators
const ContentType = "application/vnd.api+json"

// Outbound response handed down the decorator chain and filled by the inner client
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func NewResponse() *Response {
	return &Response{StatusCode: http.StatusOK, Header: make(http.Header)}
}

// Clone returns a deep copy of the response
func (r *Response) Clone() *Response {
	c := &Response{StatusCode: r.StatusCode, Header: r.Header.Clone()}
	if c.Header == nil {
		c.Header = make(http.Header)
	}
	if r.Body != nil {
		c.Body = append([]byte(nil), r.Body...)
	}
	return c
}

// SetJSON replaces status and body with the JSON encoding of v
func (r *Response) SetJSON(status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set("Content-Type", ContentType)
	r.StatusCode = status
	r.Body = b
	return nil
}
