package sheet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *HTTPSource {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewHTTPSource(srv.URL, srv.Client())
}

func TestHTTPSourceFetchDecodesRows(t *testing.T) {
	t.Parallel()

	src := serve(t, http.StatusOK, `[{"Title":"A","Year":2023,"Active":true,"Note":null},{"Title":"B"}]`)
	rows, err := src.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Record{"Title": "A", "Year": "2023", "Active": "true", "Note": ""}, rows[0])
	assert.Equal(t, "B", rows[1].Get("Title"))
}

func TestHTTPSourceFetchEmptyArray(t *testing.T) {
	t.Parallel()

	rows, err := serve(t, http.StatusOK, `[]`).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestHTTPSourceFetchNonSuccessStatus(t *testing.T) {
	t.Parallel()

	_, err := serve(t, http.StatusNotFound, `{"error":"missing"}`).Fetch(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestHTTPSourceFetchMalformedShape(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"rows":[]}`, `"text"`, `[1,2]`, `[{"nested":{"a":1}}]`} {
		_, err := serve(t, http.StatusOK, body).Fetch(context.Background())
		require.Error(t, err, body)
		assert.True(t, errors.Is(err, ErrMalformed), body)
	}
}

func TestHTTPSourceFetchInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := serve(t, http.StatusOK, `[{"Title":`).Fetch(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformed))
}

func TestHTTPSourceFetchUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	_, err := NewHTTPSource(endpoint, nil).Fetch(context.Background())
	require.Error(t, err)
}

func TestOpenSheetURLEscapesSheetName(t *testing.T) {
	t.Parallel()

	got := OpenSheetURL("abc123", "Certificates Manager")
	assert.Equal(t, "https://opensheet.elk.sh/abc123/Certificates%20Manager", got)
}
