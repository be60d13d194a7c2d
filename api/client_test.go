package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/teal-bauer/aemctl/internal/config"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := NewClient(config.Config{Username: "admin", Password: "admin", BaseURL: ts.URL + "/"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, ts
}

func TestNewClientRequiresCredentials(t *testing.T) {
	tests := []config.Config{
		{},
		{Username: "admin"},
		{Password: "admin"},
		{Username: "", Password: "x", BaseURL: "http://aem"},
	}
	for _, cfg := range tests {
		_, err := NewClient(cfg)
		if !IsKind(err, KindNotConfigured) {
			t.Errorf("NewClient(%+v) error = %v, want NotConfigured", cfg, err)
		}
		if err != nil && !strings.Contains(err.Error(), "config set") {
			t.Errorf("message should point at config set, got %q", err.Error())
		}
	}
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	c, err := NewClient(config.Config{Username: "a", Password: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if c.BaseURL() != config.DefaultBaseURL {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
}

func TestRequestsCarryAuthAndHeaders(t *testing.T) {
	var (
		user, pass, accept, ctype, reqID string
		ok                               bool
	)
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok = r.BasicAuth()
		accept = r.Header.Get("Accept")
		ctype = r.Header.Get("Content-Type")
		reqID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))

	if _, err := c.GetNode(context.Background(), "/content.1.json"); err != nil {
		t.Fatal(err)
	}
	if !ok || user != "admin" || pass != "admin" {
		t.Errorf("basic auth = %q/%q (%v)", user, pass, ok)
	}
	if accept != "application/json" || ctype != "application/json" {
		t.Errorf("headers Accept=%q Content-Type=%q", accept, ctype)
	}
	if reqID == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		body   string
		kind   ErrorKind
		msg    string
	}{
		{401, "", KindAuthentication, "Authentication failed"},
		{403, "", KindForbidden, "Access denied"},
		{404, "", KindNotFound, "Resource not found"},
		{500, "", KindServer, "AEM server error"},
		{409, `{"error":{"message":"node exists"}}`, KindAPI, "API error (409): node exists"},
		{400, `{"message":"bad input"}`, KindAPI, "API error (400): bad input"},
		{502, "<html>gateway</html>", KindAPI, "API error (502): <html>gateway</html>"},
	}
	for _, tt := range tests {
		c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		}))

		_, err := c.GetPage(context.Background(), "/content/site")
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: expected *Error, got %v", tt.status, err)
		}
		if apiErr.Kind != tt.kind {
			t.Errorf("status %d: kind = %v, want %v", tt.status, apiErr.Kind, tt.kind)
		}
		if apiErr.StatusCode != tt.status {
			t.Errorf("status %d: StatusCode = %d", tt.status, apiErr.StatusCode)
		}
		if !strings.HasPrefix(apiErr.Error(), tt.msg) {
			t.Errorf("status %d: message = %q, want prefix %q", tt.status, apiErr.Error(), tt.msg)
		}
	}
}

func TestUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()

	c, err := NewClient(config.Config{Username: "a", Password: "b", BaseURL: base})
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.ListTags(context.Background(), "")
	if !IsKind(err, KindUnreachable) {
		t.Fatalf("expected Unreachable, got %v", err)
	}
	if !strings.Contains(err.Error(), base) || !strings.Contains(err.Error(), "Is the instance running?") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestListAssets(t *testing.T) {
	var gotPath string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"jcr:primaryType":"sling:Folder","b":{"jcr:primaryType":"dam:Asset"},"a":{"jcr:primaryType":"dam:Asset"},"c":{"jcr:primaryType":"dam:Asset"}}`))
	}))

	rows, err := c.ListAssets(context.Background(), "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/content/dam.infinity.json" {
		t.Errorf("request path = %q", gotPath)
	}
	if len(rows) != 2 || rows[0].Text("name") != "b" || rows[1].Text("name") != "a" {
		t.Errorf("unexpected rows %v", rows)
	}
}

func TestListPagesAndTagsSuffixes(t *testing.T) {
	var paths []string
	body := `{"one":{},"two":{},"three":{}}`
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(body))
	}))

	pages, err := c.ListPages(context.Background(), "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 {
		t.Errorf("pages limit: got %d rows", len(pages))
	}

	tags, err := c.ListTags(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 3 {
		t.Errorf("tags should not be limited, got %d rows", len(tags))
	}

	want := []string{"/content.1.json", "/content/cq:tags.1.json"}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestGetAssetAddsPath(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/content/dam/img.png.infinity.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"jcr:primaryType":"dam:Asset","jcr:content":{"jcr:title":"Img"}}`))
	}))

	doc, err := c.GetAsset(context.Background(), "/content/dam/img.png")
	if err != nil {
		t.Fatal(err)
	}
	out, _ := json.Marshal(doc)
	want := `{"jcr:primaryType":"dam:Asset","jcr:content":{"jcr:title":"Img"},"path":"/content/dam/img.png"}`
	if string(out) != want {
		t.Errorf("doc = %s\nwant  %s", out, want)
	}
}

func TestCreatePage(t *testing.T) {
	var (
		method, path, ctype string
		form                map[string][]string
	)
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		ctype = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		form = r.PostForm
		w.WriteHeader(http.StatusCreated)
	}))

	created, err := c.CreatePage(context.Background(), PageSpec{
		Parent: "/content/site",
		Name:   "about",
		Title:  "About",
	})
	if err != nil {
		t.Fatal(err)
	}

	if method != http.MethodPost || path != "/content/site" {
		t.Errorf("request = %s %s", method, path)
	}
	if ctype != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", ctype)
	}
	expect := map[string]string{
		":name":                       "about",
		"jcr:primaryType":             "cq:Page",
		"jcr:content/jcr:primaryType": "cq:PageContent",
		"jcr:content/jcr:title":       "About",
		"jcr:content/cq:template":     DefaultTemplate,
	}
	for k, v := range expect {
		if got := form[k]; len(got) != 1 || got[0] != v {
			t.Errorf("form[%q] = %v, want %q", k, got, v)
		}
	}
	if _, ok := form["jcr:content/jcr:description"]; ok {
		t.Error("description should be omitted when empty")
	}
	if _, ok := form["jcr:content/root/text/text"]; ok {
		t.Error("body should be omitted when empty")
	}

	if *created != (CreatedPage{Path: "/content/site/about", Title: "About", Template: DefaultTemplate}) {
		t.Errorf("created = %+v", created)
	}
}

func TestCreatePageWithBody(t *testing.T) {
	var form map[string][]string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		form = r.PostForm
	}))

	_, err := c.CreatePage(context.Background(), PageSpec{
		Parent:      "/content/site",
		Name:        "news",
		Title:       "News",
		Template:    "/conf/site/templates/article",
		Description: "Latest",
		BodyHTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatal(err)
	}
	checks := map[string]string{
		"jcr:content/cq:template":                  "/conf/site/templates/article",
		"jcr:content/jcr:description":              "Latest",
		"jcr:content/root/text/text":               "<p>hi</p>",
		"jcr:content/root/text/sling:resourceType": "foundation/components/text",
	}
	for k, v := range checks {
		if got := form[k]; len(got) != 1 || got[0] != v {
			t.Errorf("form[%q] = %v, want %q", k, got, v)
		}
	}
}

func TestCreateTag(t *testing.T) {
	var (
		path string
		form map[string][]string
	)
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		r.ParseForm()
		form = r.PostForm
	}))

	created, err := c.CreateTag(context.Background(), "", "news", "News", "")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/content/cq:tags/news" {
		t.Errorf("path = %q", path)
	}
	if form["jcr:primaryType"][0] != "cq:Tag" || form["jcr:title"][0] != "News" {
		t.Errorf("form = %v", form)
	}
	if _, ok := form["jcr:description"]; ok {
		t.Error("description should be omitted when empty")
	}

	out, _ := json.Marshal(created)
	if string(out) != `{"path":"/content/cq:tags/news","name":"news","title":"News"}` {
		t.Errorf("created = %s", out)
	}
}

func TestDeleteTag(t *testing.T) {
	var calls int32
	var method, path string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		method, path = r.Method, r.URL.Path
	}))

	if err := c.DeleteTag(context.Background(), "/content/cq:tags/x"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 || method != http.MethodDelete || path != "/content/cq:tags/x" {
		t.Errorf("calls=%d %s %s", calls, method, path)
	}
}

func TestUploadAsset(t *testing.T) {
	var path, partType, partName, fileName, content string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		fileName = r.FormValue("fileName")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		partName = hdr.Filename
		partType = hdr.Header.Get("Content-Type")
		data, _ := io.ReadAll(f)
		content = string(data)
		w.Write([]byte("<html>created</html>"))
	}))

	up, err := c.UploadAsset(context.Background(), "/content/dam/site/", "logo.png", strings.NewReader("PNGDATA"), "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/content/dam/site.createasset.html" {
		t.Errorf("path = %q", path)
	}
	if partName != "logo.png" || fileName != "logo.png" {
		t.Errorf("file names = %q, %q", partName, fileName)
	}
	if partType != "image/png" {
		t.Errorf("part Content-Type = %q", partType)
	}
	if content != "PNGDATA" {
		t.Errorf("content = %q", content)
	}
	if up.Response != "<html>created</html>" {
		t.Errorf("response = %q", up.Response)
	}
	if up.Path != "/content/dam/site/logo.png" || up.MimeType != "image/png" {
		t.Errorf("uploaded = %+v", up)
	}
}

func TestUploadAssetDefaults(t *testing.T) {
	var path, partType string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		_, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		partType = hdr.Header.Get("Content-Type")
	}))

	up, err := c.UploadAsset(context.Background(), "", "blob.bin", strings.NewReader("x"), "")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/content/dam.createasset.html" {
		t.Errorf("path = %q", path)
	}
	if partType != DefaultMimeType {
		t.Errorf("part Content-Type = %q", partType)
	}
	if up.Path != "/content/dam/blob.bin" || up.MimeType != DefaultMimeType {
		t.Errorf("uploaded = %+v", up)
	}
}

func TestListRejectsNegativeLimit(t *testing.T) {
	var calls int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{}`))
	}))

	if _, err := c.ListAssets(context.Background(), "", -5); err == nil {
		t.Error("ListAssets accepted a negative limit")
	}
	if _, err := c.ListPages(context.Background(), "", -1); err == nil {
		t.Error("ListPages accepted a negative limit")
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("server received %d requests, want 0", n)
	}
}
