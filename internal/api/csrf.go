package api

import (
	"net/http"
	"net/url"
)

// csrfTransport copies the CSRF cookie into the request header on unsafe
// methods. Safe methods go through untouched.
type csrfTransport struct {
	next    http.RoundTripper
	jar     http.CookieJar
	referer string
}

func (t *csrfTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isSafeMethod(req.Method) {
		return t.next.RoundTrip(req)
	}

	token := csrfToken(t.jar, req.URL)
	if token == "" {
		return t.next.RoundTrip(req)
	}

	r := req.Clone(req.Context())
	r.Header.Set(CSRFHeader, token)
	if r.Header.Get("Referer") == "" {
		r.Header.Set("Referer", t.referer)
	}
	return t.next.RoundTrip(r)
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

func csrfToken(jar http.CookieJar, u *url.URL) string {
	for _, c := range jar.Cookies(u) {
		if c.Name == CSRFCookie {
			return c.Value
		}
	}
	return ""
}
