package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/playlist"
	"github.com/desertthunder/tubelist/internal/shared"
)

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type uploadResponse struct {
	Message  string `json:"message"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": "tubelist"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.AvatarURL = strings.TrimSpace(req.AvatarURL)
	if req.Username == "" || req.Password == "" || req.DisplayName == "" || req.AvatarURL == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if err := ValidateUsername(req.Username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save user")
		return
	}

	account := models.Account{
		User:         models.User{Username: req.Username, DisplayName: req.DisplayName, AvatarURL: req.AvatarURL},
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(r.Context(), account); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "Username already exists")
			return
		}
		s.logger.Error("create user", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save user")
		return
	}

	token, err := s.tokens.Issue(account.Username)
	if err != nil {
		s.logger.Error("issue token", "username", account.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	s.logger.Info("user registered", "username", account.Username)
	writeJSON(w, http.StatusCreated, models.AuthResponse{
		Message: "User registered successfully",
		User:    account.User,
		Token:   token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	account, err := s.store.GetUser(r.Context(), req.Username)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("load user", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if err != nil || !CheckPassword(account.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := s.tokens.Issue(account.Username)
	if err != nil {
		s.logger.Error("issue token", "username", account.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Message: "Login successful", User: account.User, Token: token})
}

// handleLogout acknowledges the logout. Tokens are stateless and simply expire.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// ownerOnly reports whether the authenticated user may access {username}, writing 403 otherwise.
func (s *Server) ownerOnly(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := chi.URLParam(r, "username")
	if authenticatedUser(r.Context()) != username {
		writeError(w, http.StatusForbidden, "token does not belong to "+username)
		return "", false
	}
	return username, true
}

func (s *Server) handleGetPlaylists(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownerOnly(w, r)
	if !ok {
		return
	}

	playlists, err := s.store.GetPlaylists(r.Context(), username)
	if err != nil {
		s.logger.Error("load playlists", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load playlists")
		return
	}

	s.logger.Debug("loaded playlists", "username", username, "count", len(playlists))
	writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) handlePutPlaylists(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownerOnly(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '[' {
		writeError(w, http.StatusBadRequest, "Playlists must be an array")
		return
	}

	var playlists []models.Playlist
	if err := json.Unmarshal(body, &playlists); err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlists: "+err.Error())
		return
	}
	for _, p := range playlists {
		if err := p.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		for j := range p.Videos {
			p.Videos[j].Rating = playlist.ClampRating(p.Videos[j].Rating)
		}
	}

	if err := s.store.PutPlaylists(r.Context(), username, playlists); err != nil {
		s.logger.Error("save playlists", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save playlists")
		return
	}

	s.logger.Debug("saved playlists", "username", username, "count", len(playlists))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Playlists saved successfully"})
}

// isMP3 accepts audio/mpeg, audio/mp3 or a .mp3 extension.
func isMP3(filename, contentType string) bool {
	switch strings.ToLower(contentType) {
	case "audio/mpeg", "audio/mp3":
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".mp3")
}

// storeUpload copies r to path. A partially written file is removed on failure.
func storeUpload(path string, r io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	original := filepath.Base(header.Filename)
	if original == "." || original == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	if !isMP3(original, header.Header.Get("Content-Type")) {
		writeError(w, http.StatusBadRequest, shared.ErrUnsupportedMedia.Error())
		return
	}

	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), shared.GenerateID(), original)
	if err := storeUpload(filepath.Join(s.uploadsDir, name), file); err != nil {
		s.logger.Error("write upload", "file", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	s.logger.Info("file uploaded", "username", authenticatedUser(r.Context()), "file", name, "bytes", header.Size)
	writeJSON(w, http.StatusOK, uploadResponse{
		Message:  "File uploaded successfully",
		URL:      "/mp3/" + url.PathEscape(name),
		Filename: name,
	})
}
