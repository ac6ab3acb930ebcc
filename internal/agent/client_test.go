package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltwiz/voltwiz/internal/agent"
	"github.com/voltwiz/voltwiz/pkg/domain"
	"github.com/voltwiz/voltwiz/pkg/ports"
)

func TestInvoke_PostsRolePath(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody ports.AgentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"flowType":"simple_question","confidence":0.9}`))
	}))
	defer srv.Close()

	c := agent.New(srv.URL, agent.WithAPIKey("sekret"))
	raw, err := c.Invoke(context.Background(), ports.AgentRequest{
		Role:     domain.RoleAnalysis,
		UserText: "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, "/v1/roles/analysis", gotPath)
	assert.Equal(t, "Bearer sekret", gotAuth)
	assert.Equal(t, domain.RoleAnalysis, gotBody.Role)
	assert.JSONEq(t, `{"flowType":"simple_question","confidence":0.9}`, string(raw))
}

func TestInvoke_NonJSONReplyIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	_, err := agent.New(srv.URL).Invoke(context.Background(), ports.AgentRequest{Role: domain.RoleValidation})
	assert.ErrorIs(t, err, domain.ErrMalformedAgentReply)
}

func TestInvoke_ServerErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := agent.New(srv.URL).Invoke(context.Background(), ports.AgentRequest{Role: domain.RoleConversation})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestInvoke_HonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := agent.New(srv.URL).Invoke(ctx, ports.AgentRequest{Role: domain.RoleUnderstanding})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
