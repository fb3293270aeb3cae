package client

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// cookieKey is where cookies live in a CookieStore.
const cookieKey = "stockbox.cookies"

// CookieStore persists the session cookie between runs of the console.
// session.FileStorage satisfies it.
type CookieStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// savedCookie is a jar entry plus the attributes the jar does not report
// back. A zero Expires is a cookie without a server expiry.
type savedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitzero"`
	Secure  bool      `json:"secure,omitempty"`
}

func (s savedCookie) expired(now time.Time) bool {
	return !s.Expires.IsZero() && !now.Before(s.Expires)
}

// WithCookieStore restores cookies for the base URL from s and writes them
// back after every response.
func WithCookieStore(s CookieStore) Option {
	return func(c *Client) { c.cookies = s }
}

func (c *Client) origin() (*url.URL, error) {
	u, err := url.Parse(c.rest.BaseURL)
	if err != nil {
		return nil, err
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, nil
}

func (c *Client) loadSavedCookies() []savedCookie {
	raw, ok, err := c.cookies.Get(cookieKey)
	if err != nil || !ok {
		if err != nil {
			c.log.Warn().Err(err).Msg("read saved cookies")
		}
		return nil
	}
	var saved []savedCookie
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		c.log.Warn().Err(err).Msg("decode saved cookies")
		return nil
	}
	return saved
}

func (c *Client) restoreCookies() {
	if c.cookies == nil {
		return
	}
	u, err := c.origin()
	if err != nil {
		return
	}
	now := time.Now()
	var cookies []*http.Cookie
	for _, s := range c.loadSavedCookies() {
		if s.expired(now) {
			c.log.Debug().Str("cookie", s.Name).Msg("dropping expired cookie")
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value, Path: "/", Expires: s.Expires, Secure: s.Secure})
	}
	if len(cookies) > 0 {
		c.jar.SetCookies(u, cookies)
	}
}

// saveCookies writes the jar's cookies for the base URL, carrying expiry and
// Secure over from earlier saves and from the Set-Cookie headers of resp.
func (c *Client) saveCookies(resp *http.Response) {
	if c.cookies == nil {
		return
	}
	u, err := c.origin()
	if err != nil {
		return
	}
	now := time.Now()
	attrs := make(map[string]savedCookie)
	for _, s := range c.loadSavedCookies() {
		attrs[s.Name] = s
	}
	if resp != nil {
		for _, ck := range resp.Cookies() {
			s := savedCookie{Name: ck.Name, Expires: ck.Expires, Secure: ck.Secure}
			if ck.MaxAge > 0 {
				s.Expires = now.Add(time.Duration(ck.MaxAge) * time.Second)
			}
			attrs[ck.Name] = s
		}
	}

	current := c.jar.Cookies(u)
	saved := make([]savedCookie, 0, len(current))
	for _, ck := range current {
		s := attrs[ck.Name]
		s.Name, s.Value = ck.Name, ck.Value
		if s.expired(now) {
			continue
		}
		saved = append(saved, s)
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return
	}
	if err := c.cookies.Set(cookieKey, string(data)); err != nil {
		c.log.Warn().Err(err).Msg("save cookies")
	}
}
