package runnertest

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) (int, string, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

func TestRunner_Listing(t *testing.T) {
	r := New("Booking.jmx", "Search.jmx")
	server := NewServer(r)
	defer server.Close()

	status, _, body := get(t, server.URL+ListingPath+"?tool=JMeter&a=42")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1,Booking.jmx,2,Search.jmx\r\n<!DOCTYPE html><html><body></body></html>", body)

	r.UseJSON(true)
	_, contentType, body := get(t, server.URL+ListingPath)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `[{"name":"Booking.jmx"},{"name":"Search.jmx"}]`, body)
}

func TestRunner_Submit(t *testing.T) {
	r := New()
	server := NewServer(r)
	defer server.Close()

	status, _, _ := get(t, server.URL+SubmitPath+"?name=Peak+Load.jmx&accountID=42")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []Submission{{Name: "Peak Load.jmx", AccountID: "42"}}, r.Submissions())

	status, _, _ = get(t, server.URL+SubmitPath)
	assert.Equal(t, http.StatusBadRequest, status)

	r.FailSubmissions(http.StatusInternalServerError)
	status, _, _ = get(t, server.URL+SubmitPath+"?name=Booking.jmx&accountID=42")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Len(t, r.Submissions(), 1)
}

func TestRunner_StatusAndHealth(t *testing.T) {
	server := NewServer(New())
	defer server.Close()

	status, _, body := get(t, server.URL+StatusPath+"?cancel=no")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<!DOCTYPE html>")

	status, _, _ = get(t, server.URL+"/health")
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = get(t, server.URL+"/other")
	assert.Equal(t, http.StatusNotFound, status)
}
