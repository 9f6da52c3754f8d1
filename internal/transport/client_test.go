package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal-client/pkg/config"
	appErrors "github.com/noah-isme/campus-portal-client/pkg/errors"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, token string) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := config.ClientConfig{BaseURL: server.URL + "/api", Timeout: 5 * time.Second}
	return New(cfg, staticToken(token), nil, NewMetrics()), server
}

func TestClientAttachesBearerAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var gotAuth, gotReqID string
	router.GET("/api/rooms", func(c *gin.Context) {
		gotAuth = c.GetHeader("Authorization")
		gotReqID = c.GetHeader("X-Request-ID")
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{}})
	})

	client, _ := newTestClient(t, router, "tok-123")
	_, err := client.Get(context.Background(), "/rooms", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestClientOmitsBearerWhenSignedOut(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var gotAuth string
	router.GET("/api/rooms", func(c *gin.Context) {
		gotAuth = c.GetHeader("Authorization")
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{}})
	})

	client, _ := newTestClient(t, router, "")
	_, err := client.Get(context.Background(), "/rooms", nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientNoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/api/rooms/r1", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	client, _ := newTestClient(t, router, "tok")
	payload, err := client.Delete(context.Background(), "/rooms/r1")
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestClientServerMessageShapes(t *testing.T) {
	cases := []struct {
		name    string
		handler gin.HandlerFunc
		want    string
	}{
		{
			name: "nested error object",
			handler: func(c *gin.Context) {
				c.JSON(http.StatusConflict, gin.H{"error": gin.H{"message": "room occupied"}})
			},
			want: "room occupied",
		},
		{
			name: "flat message",
			handler: func(c *gin.Context) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "bad page size"})
			},
			want: "bad page size",
		},
		{
			name: "error string",
			handler: func(c *gin.Context) {
				c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
			},
			want: "not allowed",
		},
		{
			name: "plain text",
			handler: func(c *gin.Context) {
				c.String(http.StatusBadGateway, "upstream unavailable")
			},
			want: "upstream unavailable",
		},
		{
			name: "empty body falls back to status",
			handler: func(c *gin.Context) {
				c.Status(http.StatusInternalServerError)
			},
			want: "HTTP 500",
		},
	}

	gin.SetMode(gin.TestMode)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/api/fail", tc.handler)
			client, _ := newTestClient(t, router, "tok")

			_, err := client.Get(context.Background(), "/fail", nil)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrRequestFailed.Code, appErr.Code)
			assert.Equal(t, tc.want, appErr.Message)
		})
	}
}

func TestClientQueryParameters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var gotPage, gotSize string
	router.GET("/api/students", func(c *gin.Context) {
		gotPage = c.Query("page")
		gotSize = c.Query("pageSize")
		c.JSON(http.StatusOK, gin.H{"items": []gin.H{}})
	})

	client, _ := newTestClient(t, router, "tok")
	query := url.Values{}
	query.Set("page", "1")
	query.Set("pageSize", "100")
	_, err := client.Get(context.Background(), "/students", query)
	require.NoError(t, err)
	assert.Equal(t, "1", gotPage)
	assert.Equal(t, "100", gotSize)
}

func TestClientTextSuccessBecomesJSONString(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/import", func(c *gin.Context) {
		c.String(http.StatusOK, "imported 12 rows")
	})

	client, _ := newTestClient(t, router, "tok")
	payload, err := client.Post(context.Background(), "/import", nil)
	require.NoError(t, err)
	var text string
	require.NoError(t, json.Unmarshal(payload, &text))
	assert.Equal(t, "imported 12 rows", text)
}

func TestClientUploadMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var gotFilename, gotNote, gotContent string
	router.POST("/api/students/import", func(c *gin.Context) {
		file, err := c.FormFile("file")
		require.NoError(t, err)
		gotFilename = file.Filename
		gotNote = c.PostForm("note")
		opened, err := file.Open()
		require.NoError(t, err)
		defer opened.Close()
		buf := make([]byte, file.Size)
		_, _ = opened.Read(buf)
		gotContent = string(buf)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"imported": 2}})
	})

	client, _ := newTestClient(t, router, "tok")
	payload, err := client.Upload(context.Background(), "/students/import", "file", "students.xlsx",
		strings.NewReader("xlsx-bytes"), map[string]string{"note": "fall intake"})
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, "students.xlsx", gotFilename)
	assert.Equal(t, "fall intake", gotNote)
	assert.Equal(t, "xlsx-bytes", gotContent)
}

func TestClientDownloadSpreadsheet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/students/template", func(c *gin.Context) {
		c.Header("Content-Disposition", `attachment; filename="template.xlsx"`)
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			[]byte{0x50, 0x4b, 0x03, 0x04})
	})

	client, _ := newTestClient(t, router, "tok")
	blob, err := client.Download(context.Background(), "/students/template", nil)
	require.NoError(t, err)
	assert.Equal(t, BlobSpreadsheet, blob.Kind)
	assert.Equal(t, "template.xlsx", blob.Filename)
	assert.Equal(t, []byte{0x50, 0x4b, 0x03, 0x04}, blob.Data)
}

func TestClientDownloadStripsFilenamePath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/students/export", func(c *gin.Context) {
		// A hostile backend must not steer where the client writes.
		c.Header("Content-Disposition", `attachment; filename="../../etc/passwd"`)
		c.Data(http.StatusOK, "application/octet-stream", []byte{0x01})
	})

	client, _ := newTestClient(t, router, "tok")
	blob, err := client.Download(context.Background(), "/students/export", nil)
	require.NoError(t, err)
	assert.Equal(t, "passwd", blob.Filename)
}

func TestClientDownloadTextReparsesJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/export/status", func(c *gin.Context) {
		// Mislabeled JSON happens on some legacy endpoints.
		c.Data(http.StatusOK, "text/plain", []byte(`{"state":"done"}`))
	})

	client, _ := newTestClient(t, router, "tok")
	blob, err := client.Download(context.Background(), "/export/status", nil)
	require.NoError(t, err)
	assert.Equal(t, BlobText, blob.Kind)

	raw, ok := blob.JSON()
	require.True(t, ok)
	assert.JSONEq(t, `{"state":"done"}`, string(raw))
}

func TestClientMetricsRecorded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{}})
	})

	metrics := NewMetrics()
	server := httptest.NewServer(router)
	defer server.Close()
	client := New(config.ClientConfig{BaseURL: server.URL + "/api"}, staticToken("tok"), nil, metrics)

	_, err := client.Get(context.Background(), "/rooms", nil)
	require.NoError(t, err)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "api_client_requests_total")
	assert.Contains(t, names, "api_client_request_duration_seconds")
}
