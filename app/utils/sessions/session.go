package sessions

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "storefront-session"

	visitorIDSessionKey = "visitorID"
	authTokenSessionKey = "authToken"
	userIDSessionKey    = "userID"
)

// SessionStore keeps the visitor's identity in a secure cookie: a generated
// visitor id that keys the local cart/favorites snapshots, plus the backend
// bearer token and user id once logged in.
type SessionStore interface {
	VisitorID(w http.ResponseWriter, r *http.Request) (string, error)

	AuthToken(r *http.Request) string
	UserID(r *http.Request) string
	SetLogin(w http.ResponseWriter, r *http.Request, userID, token string) error
	ClearLogin(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		log.Printf("Sessions: error getting session: %v", err)
	}
	return session
}

// VisitorID returns the stable per-visitor id, generating and saving one on
// the first request.
func (c *CookieSessionStore) VisitorID(w http.ResponseWriter, r *http.Request) (string, error) {
	session := c.getSession(r)
	if id, ok := session.Values[visitorIDSessionKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.New().String()
	session.Values[visitorIDSessionKey] = id
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

func (c *CookieSessionStore) AuthToken(r *http.Request) string {
	session := c.getSession(r)
	token, _ := session.Values[authTokenSessionKey].(string)
	return token
}

func (c *CookieSessionStore) UserID(r *http.Request) string {
	session := c.getSession(r)
	id, _ := session.Values[userIDSessionKey].(string)
	return id
}

func (c *CookieSessionStore) SetLogin(w http.ResponseWriter, r *http.Request, userID, token string) error {
	session := c.getSession(r)
	session.Values[userIDSessionKey] = userID
	session.Values[authTokenSessionKey] = token
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearLogin(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	delete(session.Values, userIDSessionKey)
	delete(session.Values, authTokenSessionKey)
	return session.Save(r, w)
}
