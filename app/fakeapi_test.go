package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"

	"github.com/rorycl/endpoint/config"
)

// recorded is a request seen by the fake api.
type recorded struct {
	Method    string
	Path      string
	Host      string
	Tokens    []string
	UserAgent string
	Form      createForm
}

// createForm is the create body as the api decodes it.
type createForm struct {
	Image   string `schema:"image,required"`
	Env     string `schema:"env"`
	Command string `schema:"command"`
}

// fakeAPI stands in for the endpoint api. Routes are registered per test and
// every request is recorded.
type fakeAPI struct {
	t        *testing.T
	router   *mux.Router
	server   *httptest.Server
	mu       sync.Mutex
	requests []recorded
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{t: t, router: mux.NewRouter()}
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			Method:    r.Method,
			Path:      r.URL.Path,
			Host:      r.Host,
			Tokens:    r.Header.Values("X-PA-AUTH-TOKEN"),
			UserAgent: r.Header.Get("User-Agent"),
		}
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				t.Errorf("form parse error: %v", err)
			}
			if err := decoder.Decode(&rec.Form, r.PostForm); err != nil {
				t.Errorf("form decode error: %v", err)
			}
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()
		f.router.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

// handle registers a handler replying with status and body for a method and
// path.
func (f *fakeAPI) handle(method, path string, status int, body string) {
	f.router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}).Methods(method)
}

func (f *fakeAPI) calls() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.requests...)
}

// client returns an http client sending every request to the fake api,
// whatever host the request names.
func (f *fakeAPI) client() *http.Client {
	target, err := url.Parse(f.server.URL)
	if err != nil {
		f.t.Fatal(err)
	}
	return &http.Client{Transport: redirectTransport{target: target}}
}

type redirectTransport struct {
	target *url.URL
}

func (rt redirectTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

// refusedTransport fails every request as an unreachable api would.
type refusedTransport struct{}

func (refusedTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connect: connection refused")
}

// testConfig returns the configuration used by the app tests.
func testConfig(t *testing.T, token string) *config.Config {
	t.Helper()
	cfg, err := config.Load("mock.mock", token, false)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}
