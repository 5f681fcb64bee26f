package middleware

import (
	"net/http"
	"strconv"

	"github.com/gorilla/securecookie"
)

const sessionName = "studio_admin_session"

// SessionManager signs (and, with a block key, encrypts) the admin
// session cookie.
type SessionManager struct {
	sc *securecookie.SecureCookie
}

func NewSessionManager(hashKey, blockKey []byte) *SessionManager {
	if len(blockKey) == 0 {
		blockKey = nil
	}
	return &SessionManager{sc: securecookie.New(hashKey, blockKey)}
}

func (s *SessionManager) SetAdminID(w http.ResponseWriter, adminID uint) error {
	value := map[string]string{"uid": strconv.FormatUint(uint64(adminID), 10)}
	encoded, err := s.sc.Encode(sessionName, value)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   12 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *SessionManager) AdminID(r *http.Request) (uint, bool) {
	c, err := r.Cookie(sessionName)
	if err != nil {
		return 0, false
	}
	value := map[string]string{}
	if err := s.sc.Decode(sessionName, c.Value, &value); err != nil {
		return 0, false
	}
	uid, err := strconv.ParseUint(value["uid"], 10, 64)
	if err != nil || uid == 0 {
		return 0, false
	}
	return uint(uid), true
}
