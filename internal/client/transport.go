package client

import (
	"io"
	"net/http"
)

// unauthorizedInterceptor is the one place a 401 on an authenticated call
// is handled: the session is cleared and the caller gets ErrUnauthenticated.
type unauthorizedInterceptor struct {
	base    http.RoundTripper
	session *Session
}

func (t *unauthorizedInterceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if err := t.session.Clear(); err != nil {
		return nil, err
	}
	return nil, ErrUnauthenticated
}
