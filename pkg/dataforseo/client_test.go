package dataforseo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeopleAlsoAsk(t *testing.T) {
	tests := []struct {
		name       string
		keyword    string
		statusCode int
		response   string
		wantErr    bool
		want       []string
	}{
		{
			name:       "extracts paa questions",
			keyword:    "crm software",
			statusCode: http.StatusOK,
			response: `{"status_code": 20000, "tasks": [{"status_code": 20000, "result": [{"items": [
				{"type": "organic"},
				{"type": "people_also_ask", "items": [
					{"title": "what is crm software used for"},
					{"title": "how much does crm software cost"}
				]}
			]}]}]}`,
			want: []string{"what is crm software used for", "how much does crm software cost"},
		},
		{
			name:       "no paa block",
			keyword:    "crm software",
			statusCode: http.StatusOK,
			response:   `{"status_code": 20000, "tasks": [{"status_code": 20000, "result": [{"items": [{"type": "organic"}]}]}]}`,
			want:       nil,
		},
		{
			name:    "empty keyword",
			keyword: "",
			wantErr: true,
		},
		{
			name:       "server error",
			keyword:    "crm software",
			statusCode: http.StatusUnauthorized,
			response:   `{"status_message": "invalid credentials"}`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				login, password, ok := r.BasicAuth()
				require.True(t, ok)
				assert.Equal(t, "test-login", login)
				assert.Equal(t, "test-password", password)
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client := NewClient("test-login", "test-password", WithBaseURL(server.URL), WithRateLimit(1000))
			got, err := client.PeopleAlsoAsk(context.Background(), tt.keyword, "United States", "en")

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchVolume(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/keywords_data/google_ads/search_volume/live", r.URL.Path)
		_, _ = w.Write([]byte(`{"status_code": 20000, "tasks": [{"status_code": 20000, "result": [
			{"keyword": "crm software", "search_volume": 14800, "competition": "HIGH"},
			{"keyword": "sales pipeline tool", "search_volume": 1900, "competition": "MEDIUM"}
		]}]}`))
	}))
	defer server.Close()

	client := NewClient("test-login", "test-password", WithBaseURL(server.URL), WithRateLimit(1000))
	got, err := client.SearchVolume(context.Background(), []string{"crm software", "sales pipeline tool"}, "United States", "en")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 14800, got[0].SearchVolume)
	assert.Equal(t, "MEDIUM", got[1].Competition)
}

func TestSearchVolume_EmptyInput(t *testing.T) {
	client := NewClient("test-login", "test-password")
	got, err := client.SearchVolume(context.Background(), nil, "United States", "en")
	require.NoError(t, err)
	assert.Nil(t, got)
}
