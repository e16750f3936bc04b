package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderBody(t *testing.T) {
	tests := []struct {
		name     string
		sort     string
		withPage bool
		withSize bool
		expected string
		wantErr  bool
	}{
		{
			name:     "sort only",
			sort:     `"name"`,
			expected: `{"sort":"name"}`,
		},
		{
			name:     "with pagination",
			sort:     `[{"field":"annualTurnover","direction":"DESC"}]`,
			withPage: true,
			withSize: true,
			expected: `{"page":2,"size":10,"sort":[{"field":"annualTurnover","direction":"DESC"}]}`,
		},
		{
			name:    "invalid JSON",
			sort:    `name`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := buildOrderBody(tt.sort, tt.withPage, 2, tt.withSize, 10)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(body))
		})
	}
}

func TestRenderOrganizations(t *testing.T) {
	var out bytes.Buffer
	err := renderOrganizations(&out, []byte(`{
		"organizations":[
			{"id":1,"name":"Acme","fullName":"Acme Ltd","type":"COMMERCIAL","annualTurnover":1500},
			{"id":2,"name":"Globex","fullName":"Globex Corp"}
		],
		"totalPages":3,"totalElements":42,"page":0,"size":2}`))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "ANNUAL TURNOVER")
	assert.Contains(t, text, "Acme")
	assert.Contains(t, text, "COMMERCIAL")
	assert.Contains(t, text, "1500")
	assert.Contains(t, text, "Globex")
	assert.Contains(t, text, "Page 0 of 3 (size 2), 42 organization(s) total")
}

func TestRenderOrganizationsFallsBackToRaw(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderOrganizations(&out, []byte(`{"status":"ok"}`)))
	assert.Contains(t, out.String(), `"status": "ok"`)

	out.Reset()
	require.NoError(t, renderOrganizations(&out, []byte(`plain text`)))
	assert.Equal(t, "plain text", out.String())
}

func TestGatewayClientPost(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		if r.URL.Path == "/orgdirectory/order" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("Missing sort criteria"))
			return
		}
		_, _ = w.Write([]byte(`{"organizations":[]}`))
	}))
	defer srv.Close()

	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = nil
	client := newGatewayClientWith(srv.URL+"/", "abc", rc)

	data, err := client.post(context.Background(), "/orgdirectory/filter/turnover", []byte(`{"minAnnualTurnover":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"organizations":[]}`, string(data))
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "/orgdirectory/filter/turnover", gotPath)
	assert.Equal(t, `{"minAnnualTurnover":1}`, string(gotBody))

	_, err = client.post(context.Background(), "/orgdirectory/order", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing sort criteria")
}
