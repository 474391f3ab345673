package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/amberique/storefront/app/models"
)

type AuthAPI interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*models.AuthSession, error)
	GoogleLogin(ctx context.Context, credential string) (*models.AuthSession, error)
}

type AuthService struct {
	client  *http.Client
	baseURL string
}

func NewAuthService(baseURL string) *AuthService {
	return &AuthService{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
	}
}

// SendOTP asks the backend to email a one-time code.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	_, err := s.post(ctx, "/api/auth/otp/send/", map[string]string{"email": email})
	if err != nil {
		return fmt.Errorf("failed to send OTP: %w", err)
	}
	return nil
}

// VerifyOTP exchanges the emailed code for a session.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*models.AuthSession, error) {
	body, err := s.post(ctx, "/api/auth/otp/verify/", map[string]string{"email": email, "code": code})
	if err != nil {
		return nil, fmt.Errorf("failed to verify OTP: %w", err)
	}
	return parseSession(body)
}

// GoogleLogin exchanges a Google identity credential for a session.
func (s *AuthService) GoogleLogin(ctx context.Context, credential string) (*models.AuthSession, error) {
	body, err := s.post(ctx, "/api/auth/google/", map[string]string{"credential": credential})
	if err != nil {
		return nil, fmt.Errorf("failed to exchange Google credential: %w", err)
	}
	return parseSession(body)
}

func parseSession(body []byte) (*models.AuthSession, error) {
	var session models.AuthSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse auth response: %w", err)
	}
	if session.Token == "" {
		return nil, fmt.Errorf("auth response carried no token")
	}
	return &session, nil
}

func (s *AuthService) post(ctx context.Context, path string, payload map[string]string) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode auth payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("AuthService: request to %s failed: %v", path, err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("AuthService: %s returned status %d, body: %s", path, resp.StatusCode, string(body))
		return nil, fmt.Errorf("auth API error: status %d", resp.StatusCode)
	}
	return body, nil
}
