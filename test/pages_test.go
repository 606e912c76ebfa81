//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

func (s *IntegrationTestSuite) TestPages_WorkoutLifecycle() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := s.newClient()
	s.signUpAndIn(ctx, client, gofakeit.Email())

	status, page := s.page(ctx, client, http.MethodGet, "/workouts", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("workouts", page.Page)
	s.True(page.Identity)
	s.JSONEq(`[]`, string(page.Rows))

	status, page = s.page(ctx, client, http.MethodPost, "/workouts", map[string]any{
		"date":          "2024-06-01",
		"exercise_name": "Squat",
		"sets":          5,
		"reps":          5,
		"weight":        100,
	})
	s.Equal(http.StatusCreated, status)
	s.Require().NotNil(page.Notice)
	s.Equal("Workout added successfully", page.Notice.Message)

	var rows []map[string]any
	s.Require().NoError(json.Unmarshal(page.Rows, &rows))
	s.Require().Len(rows, 1)
	s.Equal("Squat", rows[0]["exercise_name"])
	id, ok := rows[0]["id"].(string)
	s.Require().True(ok)

	status, page = s.page(ctx, client, http.MethodPut, "/workouts/"+id, map[string]any{"reps": 8})
	s.Equal(http.StatusOK, status)
	s.Require().NoError(json.Unmarshal(page.Rows, &rows))
	s.Require().Len(rows, 1)
	s.EqualValues(8, rows[0]["reps"])
	s.Equal("Squat", rows[0]["exercise_name"])

	status, page = s.page(ctx, client, http.MethodDelete, "/workouts/"+id, nil)
	s.Equal(http.StatusConflict, status)
	s.Require().NoError(json.Unmarshal(page.Rows, &rows))
	s.Len(rows, 1)

	status, page = s.page(ctx, client, http.MethodDelete, "/workouts/"+id+"?confirm=true", nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[]`, string(page.Rows))
}

func (s *IntegrationTestSuite) TestPages_OwnershipIsolation() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	alice := s.newClient()
	s.signUpAndIn(ctx, alice, gofakeit.Email())
	bob := s.newClient()
	s.signUpAndIn(ctx, bob, gofakeit.Email())

	status, page := s.page(ctx, alice, http.MethodPost, "/sleep", map[string]any{
		"date":        "2024-06-01",
		"duration_hr": 7.5,
	})
	s.Require().Equal(http.StatusCreated, status)

	var rows []map[string]any
	s.Require().NoError(json.Unmarshal(page.Rows, &rows))
	s.Require().Len(rows, 1)
	id := rows[0]["id"].(string)

	status, page = s.page(ctx, bob, http.MethodGet, "/sleep", nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[]`, string(page.Rows))

	status, _ = s.page(ctx, bob, http.MethodGet, "/sleep/"+id+"/edit", nil)
	s.Equal(http.StatusNotFound, status)

	status, _ = s.page(ctx, bob, http.MethodDelete, "/sleep/"+id+"?confirm=true", nil)
	s.NotEqual(http.StatusOK, status)

	status, page = s.page(ctx, alice, http.MethodGet, "/sleep", nil)
	s.Equal(http.StatusOK, status)
	s.Require().NoError(json.Unmarshal(page.Rows, &rows))
	s.Len(rows, 1)
}

func (s *IntegrationTestSuite) TestPages_WeightChart() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := s.newClient()
	s.signUpAndIn(ctx, client, gofakeit.Email())

	for _, entry := range []map[string]any{
		{"date": "2024-06-01", "weight": 79.6},
		{"date": "2024-05-30", "weight": 80.2},
	} {
		status, _ := s.page(ctx, client, http.MethodPost, "/weight", entry)
		s.Require().Equal(http.StatusCreated, status)
	}

	status, page := s.page(ctx, client, http.MethodGet, "/weight", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Require().Len(page.Charts, 1)

	chart := page.Charts[0]
	s.False(chart.Empty)
	s.Require().Len(chart.Points, 2)
	s.Equal("May 30", chart.Points[0].Label)
	s.Equal(80.2, chart.Points[0].Value)
	s.Equal("Jun 01", chart.Points[1].Label)
	s.Equal(79.6, chart.Points[1].Value)
}

func (s *IntegrationTestSuite) TestPages_InvalidRecord() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := s.newClient()
	s.signUpAndIn(ctx, client, gofakeit.Email())

	status, page := s.page(ctx, client, http.MethodPost, "/water", map[string]any{
		"date":      "2024-06-01",
		"amount_ml": -250,
	})
	s.Equal(http.StatusBadRequest, status)
	s.Require().NotNil(page.Notice)
	s.Equal("error", page.Notice.Level)
	s.NotEmpty(page.Form)

	status, page = s.page(ctx, client, http.MethodGet, "/water", nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[]`, string(page.Rows))
}

func (s *IntegrationTestSuite) TestPages_Dashboard() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := s.newClient()
	s.signUpAndIn(ctx, client, gofakeit.Email())

	resp, respBytes := s.do(ctx, client, http.MethodGet, "/", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(respBytes))

	var dashboard struct {
		Page     string `json:"page"`
		Identity bool   `json:"identity"`
		Cards    []struct {
			Title string `json:"title"`
			Value string `json:"value"`
		} `json:"cards"`
	}
	s.Require().NoError(json.Unmarshal(respBytes, &dashboard))
	s.Equal("dashboard", dashboard.Page)
	s.True(dashboard.Identity)
	s.Require().Len(dashboard.Cards, 4)
	for _, card := range dashboard.Cards[:3] {
		s.Equal("Not recorded", card.Value, card.Title)
	}
	s.Equal("Not yet", dashboard.Cards[3].Value)
}
