package server

import (
	"net/http"
	"time"
)

const sessionCookieName = "mtgnew_draft"

// sessionCookieHeader builds the Set-Cookie header attached to the websocket
// handshake so a client can resume its draft session after a reconnect.
func sessionCookieHeader(sessionID string) http.Header {
	header := http.Header{}
	cookie := &http.Cookie{
		Name:    sessionCookieName,
		Value:   sessionID,
		Path:    "/",
		Expires: time.Now().Add(time.Minute * 30),
	}
	if v := cookie.String(); v != "" {
		header.Add("Set-Cookie", v)
	}
	return header
}

// sessionFromCookie extracts a previously issued session id, if any.
func sessionFromCookie(r *http.Request) (string, bool) {
	for _, cookie := range r.Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie.Value, true
		}
	}
	return "", false
}
