// file: internal/server/handlers.go
// version: 1.2.0
// guid: 6f7a8b9c-0d1e-2f3a-4b5c-6d7e8f9a0b1c

package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inpsyde/users-table/internal/users"
	ulid "github.com/oklog/ulid/v2"
)

// sessionCookieName identifies the browser session the anti-forgery token is
// bound to. The cookie carries no authentication weight.
const sessionCookieName = "users_table_session"

const sessionCookieMaxAge = int(30 * 24 * time.Hour / time.Second)

// tablePageData is the template payload of the users table page.
type tablePageData struct {
	Users   []users.User
	AjaxURL string
	Nonce   string
}

// sessionID returns the session identifier from the request cookie, minting
// and setting a fresh one when absent.
func (s *Server) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookieName); err == nil && id != "" {
		return id
	}
	id := ulid.Make().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, id, sessionCookieMaxAge, "/", "", false, true)
	return id
}

// usersTablePage renders the full table view. Upstream failures surface as an
// empty table, never as an error page.
func (s *Server) usersTablePage(c *gin.Context) {
	session := s.sessionID(c)
	collection := s.users.GetAll(c.Request.Context())

	c.HTML(http.StatusOK, "users.html.tmpl", tablePageData{
		Users:   collection,
		AjaxURL: "/ajax/user-details",
		Nonce:   s.nonces.Issue(session),
	})
}

// userDetails serves the AJAX detail lookup. The nonce is checked before any
// data access; an unmatched id gets an explicit not-found envelope rather
// than an empty response.
func (s *Server) userDetails(c *gin.Context) {
	session, err := c.Cookie(sessionCookieName)
	if err != nil || !s.nonces.Verify(session, c.Query("nonce")) {
		c.JSON(http.StatusForbidden, NewErrorEnvelope("invalid or expired nonce", "bad_nonce"))
		return
	}

	id, err := strconv.Atoi(c.Query("user_id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorEnvelope("user_id must be a positive integer", "bad_user_id"))
		return
	}

	user, found := s.users.FindByID(c.Request.Context(), id)
	if !found {
		log.Printf("[DEBUG] detail lookup missed for user id %d", id)
		c.JSON(http.StatusNotFound, NewErrorEnvelope("user not found", "not_found"))
		return
	}

	c.JSON(http.StatusOK, NewSuccessEnvelope(user))
}
