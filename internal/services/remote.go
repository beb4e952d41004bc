package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

const defaultServerURL = "http://127.0.0.1:3000"

// RemoteService is the HTTP client for the companion server.
type RemoteService struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteService creates a client for the server at baseURL.
func NewRemoteService(baseURL string, client *http.Client) *RemoteService {
	if baseURL == "" {
		baseURL = defaultServerURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &RemoteService{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client}
}

// BaseURL returns the server root used for requests.
func (s *RemoteService) BaseURL() string { return s.baseURL }

// RegisterRequest is the payload accepted by POST /api/register.
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// Health checks that the server is reachable.
func (s *RemoteService) Health(ctx context.Context) error {
	return s.do(ctx, http.MethodGet, "/health", "", nil, nil)
}

// Register creates an account and returns the new session.
func (s *RemoteService) Register(ctx context.Context, r RegisterRequest) (models.Session, error) {
	var resp models.AuthResponse
	if err := s.do(ctx, http.MethodPost, "/api/register", "", r, &resp); err != nil {
		return models.Session{}, err
	}
	return models.Session{User: resp.User, Token: resp.Token}, nil
}

// Login exchanges credentials for a session.
func (s *RemoteService) Login(ctx context.Context, username, password string) (models.Session, error) {
	body := map[string]string{"username": username, "password": password}

	var resp models.AuthResponse
	if err := s.do(ctx, http.MethodPost, "/api/login", "", body, &resp); err != nil {
		return models.Session{}, err
	}
	return models.Session{User: resp.User, Token: resp.Token}, nil
}

// Logout tells the server the session is ending.
func (s *RemoteService) Logout(ctx context.Context, session models.Session) error {
	return s.do(ctx, http.MethodPost, "/api/logout", session.Token, nil, nil)
}

// Users lists the public profiles of all accounts.
func (s *RemoteService) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.do(ctx, http.MethodGet, "/api/users", "", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetPlaylists fetches the full playlist collection of the session's user.
func (s *RemoteService) GetPlaylists(ctx context.Context, session models.Session) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := s.do(ctx, http.MethodGet, playlistsPath(session.Username), session.Token, nil, &playlists); err != nil {
		return nil, err
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	return playlists, nil
}

// PutPlaylists replaces the full playlist collection of the session's user.
func (s *RemoteService) PutPlaylists(ctx context.Context, session models.Session, playlists []models.Playlist) error {
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	return s.do(ctx, http.MethodPut, playlistsPath(session.Username), session.Token, playlists, nil)
}

// Upload sends an audio file as multipart field "file" and returns where the server stored it.
func (s *RemoteService) Upload(ctx context.Context, session models.Session, filename string, r io.Reader) (models.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", "audio/mpeg")

	part, err := mw.CreatePart(h)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.UploadResult{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.UploadResult{}, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/upload", &buf)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	var result models.UploadResult
	if err := s.send(req, &result); err != nil {
		return models.UploadResult{}, err
	}
	return result, nil
}

func playlistsPath(username string) string {
	return "/api/playlists/" + url.PathEscape(username)
}

func (s *RemoteService) do(ctx context.Context, method, path, token string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return s.send(req, result)
}

func (s *RemoteService) send(req *http.Request, result any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrServiceUnavailable, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}
	return nil
}

// statusError builds an error from a non-2xx response, preferring the server's "error" message.
func statusError(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(resp.StatusCode)
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		msg = errResp.Error
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w (status %d): %s", shared.ErrAPIRequest, shared.ErrNotAuthenticated, resp.StatusCode, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w (status %d): %s", shared.ErrAPIRequest, shared.ErrForbidden, resp.StatusCode, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w (status %d): %s", shared.ErrAPIRequest, shared.ErrAlreadyExists, resp.StatusCode, msg)
	default:
		return fmt.Errorf("%w (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, msg)
	}
}
