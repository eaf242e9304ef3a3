package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/voxdrop/voxdrop/internal/common"
	"github.com/voxdrop/voxdrop/internal/store"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps the service error taxonomy onto HTTP statuses.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidIdentity):
		writeJSONError(w, http.StatusBadRequest, "invalid username")
	case errors.Is(err, common.ErrInvalidInput):
		writeJSONError(w, http.StatusBadRequest, "missing required field")
	case errors.Is(err, common.ErrUsernameTaken):
		writeJSONError(w, http.StatusBadRequest, "username taken")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrAccountNotFound):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, common.ErrStoreUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, "try again later")
	default:
		s.logger.Error(ctx, "request failed", "error", err.Error())
		writeJSONError(w, http.StatusInternalServerError, "server error")
	}
}

func (s *Server) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, tok, err := s.inbox.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.setTokenCookie(w, tok)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "username": key})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tok, err := s.inbox.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.setTokenCookie(w, tok)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleInbox(w http.ResponseWriter, r *http.Request) {
	key := accountKeyFromContext(r.Context())
	msgs := s.inbox.ReadInbox(r.Context(), key)
	writeJSON(w, http.StatusOK, msgs)
}

// handleReceive accepts a multipart delivery addressed to the username in
// the path. The attachment field is "video"; transcript, character and
// voice ride along as opaque sender metadata.
func (s *Server) handleReceive(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	ref, size, err := s.uploads.Save(r, "video")
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	meta := map[string]string{
		"sizeBytes": strconv.FormatInt(size, 10),
		"origin":    r.RemoteAddr,
	}
	if v := r.FormValue("character"); v != "" {
		meta["character"] = v
	}
	if v := r.FormValue("voice"); v != "" {
		meta["voice"] = v
	}

	msg := store.MessageRecord{
		AttachmentRef: ref,
		Transcript:    r.FormValue("transcript"),
		SenderMeta:    meta,
	}

	if err := s.inbox.Deliver(r.Context(), username, msg); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleCheckAvailable(w http.ResponseWriter, r *http.Request) {
	available, err := s.inbox.CheckAvailable(r.Context(), r.PathValue("username"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"available": available})
}
