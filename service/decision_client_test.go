package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel-portal/models"
)

func TestHTTPDecisionClient_Analyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)

		assert.Equal(t, "statement.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.7", string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"final_decision": "REJECT",
			"risk_analysis": {
				"final_decision": "REJECT",
				"math_analysis": {"ratio": 0.91, "status": "FAIL_AFFORDABILITY"},
				"compliance_analysis": {"category": "HIGH_RISK", "reasons": ["High Risk Entity: Casino"]}
			},
			"legal_opinion": "Reason: casino transfers.",
			"wealth_plan": null,
			"client_data": {"client_name": "Tan", "source_of_wealth": "Unknown", "total_income": 0}
		}`)
	}))
	defer srv.Close()

	client := NewHTTPDecisionClient(srv.URL, DecisionWithTimeout(5*time.Second))
	resp, err := client.Analyze(context.Background(), "/tmp/uploads/statement.pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)

	assert.Equal(t, models.DecisionReject, resp.FinalDecision)
	assert.Equal(t, "Reason: casino transfers.", models.Text(resp.LegalOpinion))
	assert.Nil(t, resp.WealthPlan)
	require.NotNil(t, resp.RiskAnalysis.ComplianceAnalysis)
	assert.Equal(t, []string{"High Risk Entity: Casino"}, resp.RiskAnalysis.ComplianceAnalysis.Reasons)
	assert.Equal(t, "Unknown", resp.ClientData.SourceOfWealth)
}

func TestHTTPDecisionClient_UpstreamError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail message", http.StatusBadRequest, `{"detail": "Only PDF uploads are supported."}`, "Only PDF uploads are supported."},
		{"no detail", http.StatusInternalServerError, `oops`, "Backend error"},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail": [{"msg": "field required"}]}`, "Backend error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewHTTPDecisionClient(srv.URL).Analyze(context.Background(), "s.pdf", strings.NewReader("x"))
			require.Error(t, err)

			var upstreamErr *UpstreamError
			require.True(t, errors.As(err, &upstreamErr))
			assert.Equal(t, tt.status, upstreamErr.StatusCode)
			assert.Equal(t, tt.want, upstreamErr.Error())
		})
	}
}

func TestHTTPDecisionClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	}))
	defer srv.Close()

	_, err := NewHTTPDecisionClient(srv.URL).Analyze(context.Background(), "s.pdf", strings.NewReader("x"))
	assert.ErrorContains(t, err, "failed to decode response")
}

func TestHTTPDecisionClient_NilStatement(t *testing.T) {
	_, err := NewHTTPDecisionClient("http://127.0.0.1:0").Analyze(context.Background(), "s.pdf", nil)
	assert.ErrorContains(t, err, "statement is required")
}

// stalledServer holds every request until the client gives up or the test ends
func stalledServer(t *testing.T) *httptest.Server {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	return srv
}

func TestHTTPDecisionClient_Timeout(t *testing.T) {
	srv := stalledServer(t)
	client := NewHTTPDecisionClient(srv.URL, DecisionWithTimeout(100*time.Millisecond))

	start := time.Now()
	_, err := client.Analyze(context.Background(), "s.pdf", strings.NewReader("%PDF"))
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorContains(t, err, "deadline exceeded")
	assert.Less(t, elapsed, 2*time.Second)

	var upstreamErr *UpstreamError
	assert.False(t, errors.As(err, &upstreamErr))
}

func TestHTTPDecisionClient_CallerDeadline(t *testing.T) {
	srv := stalledServer(t)
	client := NewHTTPDecisionClient(srv.URL, DecisionWithTimeout(time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Analyze(ctx, "s.pdf", strings.NewReader("%PDF"))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
