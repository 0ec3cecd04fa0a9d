package webclient

import (
	"net/http"
	"strings"
	"time"
)

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	Status     string
	FinalURL   string
	Redirected bool
	FetchedAt  time.Time
}

// HeaderMap flattens the response headers into a lower-cased name -> value
// map, the shape the indicator bag carries. Repeated headers (Set-Cookie)
// are joined with a newline so flag checks still see every instance.
func (r *Response) HeaderMap() map[string]string {
	out := make(map[string]string, len(r.Headers))
	for k, vs := range r.Headers {
		if len(vs) == 0 {
			continue
		}
		v := vs[0]
		for _, extra := range vs[1:] {
			v += "\n" + extra
		}
		out[strings.ToLower(k)] = v
	}
	return out
}
