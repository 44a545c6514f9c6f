package parkctl

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/parkspot/internal/domain/session"
)

// cookiesKey holds the serialized jar next to the role marker.
const cookiesKey = "cookies"

// restoreCookies seeds jar with the cookies saved by a previous run.
func restoreCookies(ctx context.Context, store session.Store, jar http.CookieJar, u *url.URL) error {
	raw, ok, err := store.Get(ctx, cookiesKey)
	if err != nil || !ok || raw == "" {
		return err
	}
	cookies, err := http.ParseCookie(raw)
	if err != nil {
		return err
	}
	jar.SetCookies(u, cookies)
	return nil
}

// saveCookies writes the jar's cookies for u, or removes the entry when the
// jar holds none.
func saveCookies(ctx context.Context, store session.Store, jar http.CookieJar, u *url.URL) error {
	cookies := jar.Cookies(u)
	if len(cookies) == 0 {
		return store.Delete(ctx, cookiesKey)
	}
	parts := make([]string, len(cookies))
	for i, c := range cookies {
		parts[i] = c.Name + "=" + c.Value
	}
	return store.Set(ctx, cookiesKey, strings.Join(parts, "; "))
}
