// ABOUTME: Request builder for the shared client: method, path, query, JSON or multipart body, per-call timeout
// ABOUTME: Bodies are kept as values so a request can be replayed once after a token refresh
package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"time"
)

// File is one multipart file part. Content is held in memory so the part can be resent.
type File struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

// Multipart is a form body of file parts and plain fields.
type Multipart struct {
	Files  []File
	Fields map[string]string
}

func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("write form file: %w", err)
		}
	}
	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Request describes one API call relative to the client's base URL.
type Request struct {
	Method    string
	Path      string
	Route     string
	Query     url.Values
	Body      any
	Multipart *Multipart
	Timeout   time.Duration
	Headers   map[string]string
	// Bare marks endpoints that answer without the response envelope.
	Bare bool

	retried bool
}

func newRequest(method, path string) *Request {
	return &Request{Method: method, Path: path}
}

func Get(path string) *Request    { return newRequest("GET", path) }
func Delete(path string) *Request { return newRequest("DELETE", path) }

func Post(path string, body any) *Request {
	r := newRequest("POST", path)
	r.Body = body
	return r
}

func Put(path string, body any) *Request {
	r := newRequest("PUT", path)
	r.Body = body
	return r
}

func Patch(path string, body any) *Request {
	r := newRequest("PATCH", path)
	r.Body = body
	return r
}

// WithQuery sets query parameters, skipping empty values.
func (r *Request) WithQuery(q url.Values) *Request {
	if r.Query == nil {
		r.Query = url.Values{}
	}
	for k, vs := range q {
		for _, v := range vs {
			if v != "" {
				r.Query.Add(k, v)
			}
		}
	}
	return r
}

// WithParam adds a single query parameter when v is non-empty.
func (r *Request) WithParam(k, v string) *Request {
	return r.WithQuery(url.Values{k: {v}})
}

func (r *Request) WithTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

// WithRoute sets the templated path used as the metrics label.
func (r *Request) WithRoute(route string) *Request {
	r.Route = route
	return r
}

func (r *Request) WithMultipart(m *Multipart) *Request {
	r.Multipart = m
	return r
}

func (r *Request) WithHeader(k, v string) *Request {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers[k] = v
	return r
}

// AsBare marks the endpoint as answering without an envelope.
func (r *Request) AsBare() *Request {
	r.Bare = true
	return r
}

// Retried reports whether this request is already the post-refresh replay.
func (r *Request) Retried() bool {
	return r.retried
}

func (r *Request) body() (io.Reader, string, error) {
	if r.Multipart != nil {
		return r.Multipart.encode()
	}
	if r.Body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}
