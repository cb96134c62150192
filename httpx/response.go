package httpx

import (
	"encoding/json"
	"net/http"
)

// Response wraps the outbound http.ResponseWriter, tracking whether a status
// line has already been written so the engine does not write an error body
// after the handler has already responded.
type Response struct {
	w           http.ResponseWriter
	status      int
	wroteHeader bool
}

// NewResponse wraps w for a single request/response cycle.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying http.ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// Status records the status code to use for the next write, returning the
// Response for chaining (res.Status(201).JSON(body)).
func (res *Response) Status(code int) *Response {
	res.status = code
	return res
}

// Header sets a response header.
func (res *Response) Header(key, value string) *Response {
	res.w.Header().Set(key, value)
	return res
}

// Written reports whether a status line has been written to the
// underlying ResponseWriter.
func (res *Response) Written() bool { return res.wroteHeader }

// StatusCode returns the status code that has been recorded for this
// response (200 if none was set yet), for middleware that wants to log or
// inspect the outcome after the handler chain returns.
func (res *Response) StatusCode() int {
	if res.status == 0 {
		return http.StatusOK
	}
	return res.status
}

func (res *Response) writeHeader() {
	if res.wroteHeader {
		return
	}
	code := res.status
	if code == 0 {
		code = http.StatusOK
	}
	res.w.WriteHeader(code)
	res.wroteHeader = true
}

// JSON encodes body as JSON and writes it with the configured status code
// (200 if none was set).
func (res *Response) JSON(body any) error {
	res.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	res.writeHeader()
	return json.NewEncoder(res.w).Encode(body)
}

// Text writes body as a plain-text response.
func (res *Response) Text(body string) error {
	res.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	res.writeHeader()
	_, err := res.w.Write([]byte(body))
	return err
}

// NoContent writes only a status line (204 if none was set).
func (res *Response) NoContent() {
	if res.status == 0 {
		res.status = http.StatusNoContent
	}
	res.writeHeader()
}
