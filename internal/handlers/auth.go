package handlers

import (
	"net/http"

	"github.com/tabbitapp/tabbit/internal/auth"
)

// handleLogin checks the admin password and issues a session cookie
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		h.respondError(w, Unauthorized("invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondSuccess(w, "logged in")
}

// handleLogout invalidates the session and clears the cookie
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	respondSuccess(w, "logged out")
}
