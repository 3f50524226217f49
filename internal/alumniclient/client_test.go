package alumniclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni/internal/alumni"
)

func TestCreate(t *testing.T) {
	var got alumni.Record
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/student", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		switch got.AlumniID {
		case "dup":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"success":false,"message":"Alumni ID already exists"}`))
		case "html":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		default:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"success":true,"message":"Inserted successfully","id":"x"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "tok")
	ctx := context.Background()

	resp, err := c.Create(ctx, alumni.Record{AlumniID: "A1", Name: "Ann"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Ann", got.Name)

	resp, err = c.Create(ctx, alumni.Record{AlumniID: "dup"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Alumni ID already exists", resp.Message)

	_, err = c.Create(ctx, alumni.Record{AlumniID: "html"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCreateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, "").Create(context.Background(), alumni.Record{AlumniID: "A1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alumni service request failed")
}

func TestListAcceptsBothShapes(t *testing.T) {
	bodies := map[string]string{
		"array":    `[{"id":"1","alumni_id":"A1"},{"id":"2","alumni_id":"A2"}]`,
		"envelope": `{"success":true,"students":[{"id":"1","alumni_id":"A1"},{"id":"2","alumni_id":"A2"}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/students", r.URL.Path)
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			ids, err := New(srv.URL, "").ExistingIDs(context.Background())
			require.NoError(t, err)
			assert.True(t, ids.Has("A1"))
			assert.True(t, ids.Has("A2"))
			assert.Len(t, ids, 2)
		})
	}
}

func TestListErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"db down"}`))
	}))
	defer srv.Close()
	_, err := New(srv.URL, "").List(context.Background())
	assert.ErrorContains(t, err, "db down")

	srv500 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv500.Close()
	_, err = New(srv500.URL, "").List(context.Background())
	assert.ErrorContains(t, err, "500")
}

func TestExportAndHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/students/export":
			assert.Equal(t, "csv", r.URL.Query().Get("format"))
			_, _ = w.Write([]byte("Alumni ID,Name\n"))
		case "/healthz":
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	var buf bytes.Buffer
	require.NoError(t, c.Export(context.Background(), "csv", &buf))
	assert.Equal(t, "Alumni ID,Name\n", buf.String())
	assert.NoError(t, c.Health(context.Background()))
}
