package liveset

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const setBody = `{"set_data":[{"song_number":5,"title":"Amazing Grace","lyrics":"*1.* Amazing grace\\nHow sweet","writer":"John Newton"}]}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.URL+"/liveset/V2", srv.Client())
}

func TestFetchSetSuccess(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/liveset/V2/S1234/data", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(setBody))
	})

	content, err := client.FetchSet(context.Background(), " 1234 ")
	require.NoError(t, err)
	require.Len(t, content.SetData, 1)

	song := content.SetData[0]
	assert.Equal(t, 5, song.SongNumber)
	assert.Equal(t, "Amazing Grace", song.Title)
	assert.Equal(t, "John Newton", song.Writer)
	assert.Equal(t, `*1.* Amazing grace\nHow sweet`, song.Lyrics)
}

func TestFetchSetGzip(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte(setBody))
		_ = zw.Close()

		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	})

	content, err := client.FetchSet(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, content.SetData, 1)
}

func TestFetchSetEmptySet(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"set_data":[]}`))
	})

	content, err := client.FetchSet(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, content.SetData)
}

func TestFetchSetErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `oops`, ErrStatus},
		{"not found", http.StatusNotFound, ``, ErrStatus},
		{"malformed json", http.StatusOK, `{"set_data":[`, ErrDecode},
		{"missing set_data", http.StatusOK, `{"songs":[]}`, ErrDecode},
		{"wrong song shape", http.StatusOK, `{"set_data":[{"song_number":"five"}]}`, ErrDecode},
		{"missing song fields", http.StatusOK, `{"set_data":[{"title":"x"}]}`, ErrDecode},
		{"null song fields", http.StatusOK, `{"set_data":[{"song_number":2,"title":null,"lyrics":"a","writer":null}]}`, ErrDecode},
		{"trailing garbage", http.StatusOK, `{"set_data":[]} garbage`, ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			content, err := client.FetchSet(context.Background(), "9")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, content)
		})
	}
}

func TestFetchSetNamesBadEntry(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"set_data":[` +
			`{"song_number":1,"title":"A","lyrics":"a","writer":"w"},` +
			`{"song_number":2,"title":"B","lyrics":"b","writer":null}]}`))
	})

	content, err := client.FetchSet(context.Background(), "3")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "set_data[1]")
	assert.Contains(t, err.Error(), "writer")
	assert.Nil(t, content)
}

func TestFetchSetAllowsEmptyStrings(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"set_data":[{"song_number":0,"title":"","lyrics":"","writer":""}]}` + "\n"))
	})

	content, err := client.FetchSet(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, []SongInSet{{}}, content.SetData)
}

func TestFetchSetTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClientWithHTTP(srv.URL, srv.Client())
	srv.Close()

	_, err := client.FetchSet(context.Background(), "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequest)
}

func TestFetchSetRejectsBadSetNumber(t *testing.T) {
	client := NewClient("")

	for _, n := range []string{"", "  ", "12/34", "1?x=2"} {
		_, err := client.FetchSet(context.Background(), n)
		assert.ErrorIs(t, err, ErrInvalidSetNumber, "set number %q", n)
	}
}

func TestSetURL(t *testing.T) {
	assert.Equal(t, "https://api.worshipbuddy.org/liveset/V2/S42/data", NewClient("").SetURL("42"))
	assert.Equal(t, "http://local/api/S7/data", NewClient("http://local/api/").SetURL("7"))
}
