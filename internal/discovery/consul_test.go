package discovery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	registered *api.AgentServiceRegistration
	deregister string
}

func (a *fakeAgent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/v1/agent/service/register":
		var reg api.AgentServiceRegistration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		a.registered = &reg
	case strings.HasPrefix(r.URL.Path, "/v1/agent/service/deregister/"):
		a.deregister = strings.TrimPrefix(r.URL.Path, "/v1/agent/service/deregister/")
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestConsulClient_RegisterAndDeregister(t *testing.T) {
	agent := &fakeAgent{}
	server := httptest.NewServer(agent)
	defer server.Close()

	client, err := NewConsulClient(strings.TrimPrefix(server.URL, "http://"))
	require.NoError(t, err)

	require.NoError(t, client.RegisterService("order-service-1", "order-service", "orders.local", "8082"))
	require.NotNil(t, agent.registered)
	assert.Equal(t, "order-service-1", agent.registered.ID)
	assert.Equal(t, 8082, agent.registered.Port)
	assert.Equal(t, "http://orders.local:8082/health", agent.registered.Check.HTTP)

	require.NoError(t, client.DeregisterService("order-service-1"))
	assert.Equal(t, "order-service-1", agent.deregister)
}

func TestConsulClient_RegisterRejectsBadPort(t *testing.T) {
	client, err := NewConsulClient("127.0.0.1:1")
	require.NoError(t, err)

	err = client.RegisterService("id", "order-service", "host", "http")
	assert.ErrorContains(t, err, "invalid service port")
}
