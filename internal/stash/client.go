package stash

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"

	graphql "github.com/hasura/go-graphql-client"

	"github.com/stashapp/stash/pkg/plugin/common"
)

// sanitize drops null properties from JSON request bodies; stash rejects
// explicit nulls for optional input fields. Bodies it cannot rewrite are
// sent unchanged.
func sanitize(req *http.Request) {
	if req.Method != http.MethodPost || req.Body == nil {
		return
	}

	if req.Header.Get("Content-Type") != "application/json" {
		return
	}

	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		return
	}
	req.Body.Close()

	var data interface{}
	if err := json.Unmarshal(bodyBytes, &data); err != nil {
		req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		return
	}

	cleaned := filter(data)
	cleanedBytes, err := json.Marshal(cleaned)
	if err != nil {
		req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		return
	}

	req.Body = io.NopCloser(bytes.NewBuffer(cleanedBytes))
	req.ContentLength = int64(len(cleanedBytes))
}

// filter returns v without nil map values, at any depth
func filter(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		cleaned := make(map[string]interface{})
		for k, v2 := range val {
			if v2 == nil {
				continue
			}
			cleaned[k] = filter(v2)
		}
		return cleaned
	case []interface{}:
		for i, v2 := range val {
			val[i] = filter(v2)
		}
		return val
	default:
		return val
	}
}

// NewClient creates a GraphQL client for an explicit Stash endpoint with request sanitization
func NewClient(url string, httpClient graphql.Doer, options ...graphql.ClientOption) *graphql.Client {
	client := graphql.NewClient(url, httpClient, options...)
	return client.WithRequestModifier(sanitize)
}

// Client connects to the Stash server the plugin was launched by, reusing
// its session cookie.
func Client(conn common.StashServerConnection) *graphql.Client {
	endpoint := &url.URL{
		Scheme: conn.Scheme,
		Host:   net.JoinHostPort(conn.Host, strconv.Itoa(conn.Port)),
		Path:   "/graphql",
	}
	if endpoint.Scheme == "" {
		endpoint.Scheme = "http"
	}

	jar, _ := cookiejar.New(nil)
	if conn.SessionCookie != nil {
		jar.SetCookies(endpoint, []*http.Cookie{conn.SessionCookie})
	}

	return NewClient(endpoint.String(), &http.Client{Jar: jar})
}
