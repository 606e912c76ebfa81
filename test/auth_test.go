//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/2beens/fittrack/internal/auth"
)

func (s *IntegrationTestSuite) TestAuth_SignUpSignInSignOut() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := s.newClient()
	email := gofakeit.Email()

	// not signed in yet
	resp, _ := s.do(ctx, client, http.MethodGet, "/workouts", nil)
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/auth", resp.Header.Get("Location"))

	signIn := s.signUpAndIn(ctx, client, email)
	s.Require().NotNil(signIn.Identity)
	s.Equal(email, signIn.Identity.Email)

	resp, _ = s.do(ctx, client, http.MethodGet, "/workouts", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	// same token through the header works for a client without cookies
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+"/workouts", nil)
	s.Require().NoError(err)
	req.Header.Set(auth.TokenHeader, signIn.Token)
	req.Header.Set("User-Agent", "test-agent")
	headerResp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	headerResp.Body.Close()
	s.Equal(http.StatusOK, headerResp.StatusCode)

	resp, respBytes := s.do(ctx, client, http.MethodPost, "/auth/signout", nil)
	s.Equal(http.StatusOK, resp.StatusCode, string(respBytes))

	resp, _ = s.do(ctx, client, http.MethodGet, "/workouts", nil)
	s.Equal(http.StatusSeeOther, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestAuth_Failures() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := s.newClient()
	email := gofakeit.Email()
	s.signUpAndIn(ctx, client, email)

	resp, _ := s.do(ctx, s.newClient(), http.MethodPost, "/auth/signup", map[string]string{
		"email":    email,
		"password": "testpass",
	})
	s.Equal(http.StatusConflict, resp.StatusCode)

	resp, respBytes := s.do(ctx, s.newClient(), http.MethodPost, "/auth/signin", map[string]string{
		"email":    email,
		"password": "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var authResp auth.Response
	s.Require().NoError(json.Unmarshal(respBytes, &authResp))
	s.Empty(authResp.Token)
	s.Require().NotNil(authResp.Notice)
	s.Equal("error", authResp.Notice.Level)
}

func (s *IntegrationTestSuite) TestNotFoundAndVersion() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := s.newClient()

	resp, _ := s.do(ctx, client, http.MethodGet, "/no/such/page", nil)
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/404", resp.Header.Get("Location"))

	resp, respBytes := s.do(ctx, client, http.MethodGet, "/404", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Contains(string(respBytes), "not_found")

	resp, respBytes = s.do(ctx, client, http.MethodGet, "/version", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("test-version-info", string(respBytes))
}
