//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/2beens/fittrack/internal/auth"
)

type noticeBody struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type pageBody struct {
	Page     string          `json:"page"`
	Identity bool            `json:"identity"`
	Rows     json.RawMessage `json:"rows"`
	Charts   []struct {
		Title  string `json:"title"`
		Empty  bool   `json:"empty"`
		Points []struct {
			Label string  `json:"label"`
			Value float64 `json:"value"`
		} `json:"points"`
	} `json:"charts"`
	Form   json.RawMessage `json:"form"`
	Notice *noticeBody     `json:"notice"`
}

func (s *IntegrationTestSuite) do(
	ctx context.Context,
	client *http.Client,
	method, path string,
	body any,
) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), reader)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, respBytes
}

func (s *IntegrationTestSuite) page(ctx context.Context, client *http.Client, method, path string, body any) (int, pageBody) {
	resp, respBytes := s.do(ctx, client, method, path, body)
	var page pageBody
	s.Require().NoError(json.Unmarshal(respBytes, &page), string(respBytes))
	return resp.StatusCode, page
}

// signUpAndIn registers a fresh account on client and signs it in; the
// session cookie stays in the client's jar.
func (s *IntegrationTestSuite) signUpAndIn(ctx context.Context, client *http.Client, email string) auth.Response {
	creds := map[string]string{"email": email, "password": "testpass"}

	resp, _ := s.do(ctx, client, http.MethodPost, "/auth/signup", creds)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp, respBytes := s.do(ctx, client, http.MethodPost, "/auth/signin", creds)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(respBytes))

	var signIn auth.Response
	s.Require().NoError(json.Unmarshal(respBytes, &signIn))
	s.Require().NotEmpty(signIn.Token)
	return signIn
}
