package handlers_test

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func uploadBody(name, typ string, extra string) string {
	body := fmt.Sprintf(`{"name":%q,"type":%q`, name, typ)
	if extra != "" {
		body += "," + extra
	}
	return body + "}"
}

func (e *testEnv) upload(t *testing.T, token, name, typ, extra string) map[string]any {
	t.Helper()

	w := e.do(t, http.MethodPost, "/files", uploadBody(name, typ, extra), map[string]string{"X-Token": token})

	if w.Code != http.StatusCreated {
		t.Fatalf("upload %s: status = %d, body %s", name, w.Code, w.Body.String())
	}

	return decodeBody(t, w)
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestUploadFolder(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "bob@dylan.com", "toto1234!")
	token := env.connect(t, "bob@dylan.com", "toto1234!")

	w := env.do(t, http.MethodPost, "/files", uploadBody("images", "folder", ""), map[string]string{"X-Token": token})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	// root parentId is the literal number 0, not a string
	if !strings.Contains(w.Body.String(), `"parentId":0`) {
		t.Errorf("parentId not rendered as number 0: %s", w.Body.String())
	}

	body := decodeBody(t, w)

	if body["name"] != "images" || body["type"] != "folder" || body["isPublic"] != false {
		t.Errorf("folder doc = %v", body)
	}
	if _, ok := body["id"].(string); !ok {
		t.Errorf("id should travel as a string: %v", body["id"])
	}

	if env.thumbs.Len() != 0 {
		t.Errorf("folder upload enqueued %d jobs", env.thumbs.Len())
	}
}

func TestUploadFileStoresContent(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "bob@dylan.com", "toto1234!")
	token := env.connect(t, "bob@dylan.com", "toto1234!")

	doc := env.upload(t, token, "myText.txt", "file", `"data":"`+b64("Hello Webstack!")+`"`)

	if env.thumbs.Len() != 1 {
		t.Errorf("thumb queue len = %d, want 1", env.thumbs.Len())
	}

	// content comes back through the data endpoint
	w := env.do(t, http.MethodGet, "/files/"+doc["id"].(string)+"/data", "", map[string]string{"X-Token": token})

	if w.Code != http.StatusOK {
		t.Fatalf("data status = %d, body %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "Hello Webstack!" {
		t.Errorf("content = %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestUploadValidationMessages(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "bob@dylan.com", "toto1234!")
	token := env.connect(t, "bob@dylan.com", "toto1234!")

	folder := env.upload(t, token, "docs", "folder", "")
	inner := env.upload(t, token, "inner.txt", "file", `"parentId":`+folder["id"].(string)+`,"data":"`+b64("x")+`"`)

	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"no name", `{"type":"file","data":"` + b64("x") + `"}`, "Missing name"},
		{"no type", `{"name":"f.txt"}`, "Missing type"},
		{"bad type", uploadBody("f.txt", "video", `"data":"`+b64("x")+`"`), "Missing type"},
		{"no data", uploadBody("f.txt", "file", ""), "Missing data"},
		{"folder parent missing", uploadBody("f.txt", "file", `"parentId":424242,"data":"`+b64("x")+`"`), "Parent not found"},
		{"parent is a file", uploadBody("f.txt", "file", `"parentId":` + inner["id"].(string) + `,"data":"` + b64("x") + `"`), "Parent is not a folder"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/files", tc.body, map[string]string{"X-Token": token})
			wantError(t, w, http.StatusBadRequest, tc.message)
		})
	}
}

func TestShowAndIndexAreOwnerScoped(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "bob@dylan.com", "toto1234!")
	env.register(t, "eve@dylan.com", "hunter2")
	bob := env.connect(t, "bob@dylan.com", "toto1234!")
	eve := env.connect(t, "eve@dylan.com", "hunter2")

	doc := env.upload(t, bob, "secret.txt", "file", `"data":"`+b64("hush")+`"`)
	id := doc["id"].(string)

	// the owner sees it
	w := env.do(t, http.MethodGet, "/files/"+id, "", map[string]string{"X-Token": bob})
	if w.Code != http.StatusOK {
		t.Fatalf("owner show status = %d", w.Code)
	}

	// everyone else gets a 404, never a 403
	w = env.do(t, http.MethodGet, "/files/"+id, "", map[string]string{"X-Token": eve})
	wantError(t, w, http.StatusNotFound, "Not found")

	// listings never leak across owners
	w = env.do(t, http.MethodGet, "/files", "", map[string]string{"X-Token": eve})
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("eve's listing = %d %s", w.Code, w.Body.String())
	}
}

func TestIndexPagination(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "bob@dylan.com", "toto1234!")
	token := env.connect(t, "bob@dylan.com", "toto1234!")

	for i := 0; i < 25; i++ {
		env.upload(t, token, fmt.Sprintf("f%02d.txt", i), "file", `"data":"`+b64("x")+`"`)
	}

	var first []map[string]any
	w := env.do(t, http.MethodGet, "/files", "", map[string]string{"X-Token": token})
	mustDecodeList(t, w, &first)
	if len(first) != 20 {
		t.Fatalf("page 0 len = %d, want 20", len(first))
	}

	var second []map[string]any
	w = env.do(t, http.MethodGet, "/files?page=1", "", map[string]string{"X-Token": token})
	mustDecodeList(t, w, &second)
	if len(second) != 5 {
		t.Fatalf("page 1 len = %d, want 5", len(second))
	}

	// junk page values fall back to the first page
	var junk []map[string]any
	w = env.do(t, http.MethodGet, "/files?page=abc", "", map[string]string{"X-Token": token})
	mustDecodeList(t, w, &junk)
	if len(junk) != 20 {
		t.Fatalf("junk page len = %d, want 20", len(junk))
	}

	// a nonexistent parent yields an empty page, not an error
	var empty []map[string]any
	w = env.do(t, http.MethodGet, "/files?parentId=424242", "", map[string]string{"X-Token": token})
	mustDecodeList(t, w, &empty)
	if len(empty) != 0 {
		t.Fatalf("bogus parent len = %d, want 0", len(empty))
	}
}

func TestPublishControlsAnonymousAccess(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "bob@dylan.com", "toto1234!")
	token := env.connect(t, "bob@dylan.com", "toto1234!")

	doc := env.upload(t, token, "note.txt", "file", `"data":"`+b64("published?")+`"`)
	id := doc["id"].(string)

	// private: anonymous and other-user reads fail closed
	w := env.do(t, http.MethodGet, "/files/"+id+"/data", "", nil)
	wantError(t, w, http.StatusNotFound, "Not found")

	// the owner can always read it
	w = env.do(t, http.MethodGet, "/files/"+id+"/data", "", map[string]string{"X-Token": token})
	if w.Code != http.StatusOK {
		t.Fatalf("owner read status = %d", w.Code)
	}

	// publish flips it open
	w = env.do(t, http.MethodPut, "/files/"+id+"/publish", "", map[string]string{"X-Token": token})
	if w.Code != http.StatusOK || decodeBody(t, w)["isPublic"] != true {
		t.Fatalf("publish = %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/files/"+id+"/data", "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "published?" {
		t.Fatalf("anonymous read after publish = %d %q", w.Code, w.Body.String())
	}

	// unpublish closes it again
	w = env.do(t, http.MethodPut, "/files/"+id+"/unpublish", "", map[string]string{"X-Token": token})
	if w.Code != http.StatusOK || decodeBody(t, w)["isPublic"] != false {
		t.Fatalf("unpublish = %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/files/"+id+"/data", "", nil)
	wantError(t, w, http.StatusNotFound, "Not found")
}

func TestPublishIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "bob@dylan.com", "toto1234!")
	env.register(t, "eve@dylan.com", "hunter2")
	bob := env.connect(t, "bob@dylan.com", "toto1234!")
	eve := env.connect(t, "eve@dylan.com", "hunter2")

	doc := env.upload(t, bob, "secret.txt", "file", `"data":"`+b64("hush")+`"`)
	id := doc["id"].(string)

	w := env.do(t, http.MethodPut, "/files/"+id+"/publish", "", map[string]string{"X-Token": eve})
	wantError(t, w, http.StatusNotFound, "Not found")
}

func TestFolderHasNoContent(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "bob@dylan.com", "toto1234!")
	token := env.connect(t, "bob@dylan.com", "toto1234!")

	doc := env.upload(t, token, "docs", "folder", "")

	w := env.do(t, http.MethodGet, "/files/"+doc["id"].(string)+"/data", "", map[string]string{"X-Token": token})
	wantError(t, w, http.StatusBadRequest, "A folder doesn't have content")
}

func TestContentSizeVariants(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "bob@dylan.com", "toto1234!")
	token := env.connect(t, "bob@dylan.com", "toto1234!")

	doc := env.upload(t, token, "pic.png", "image", `"data":"`+b64("png-bytes")+`"`)
	id := doc["id"].(string)

	// no variant generated yet: a valid size still 404s rather than
	// falling back to the original
	w := env.do(t, http.MethodGet, "/files/"+id+"/data?size=250", "", map[string]string{"X-Token": token})
	wantError(t, w, http.StatusNotFound, "Not found")

	// sizes outside the known set serve the original bytes
	for _, size := range []string{"300", "abc"} {
		w = env.do(t, http.MethodGet, "/files/"+id+"/data?size="+size, "", map[string]string{"X-Token": token})
		if w.Code != http.StatusOK || w.Body.String() != "png-bytes" {
			t.Fatalf("size=%s read = %d %q, want the original bytes", size, w.Code, w.Body.String())
		}
	}

	// simulate the worker having produced the variant
	f, err := env.files.Get(t.Context(), mustParseID(t, id))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if err := env.blobs.Write(f.LocalPath+"_250", []byte("small")); err != nil {
		t.Fatalf("blob Write error: %v", err)
	}

	w = env.do(t, http.MethodGet, "/files/"+id+"/data?size=250", "", map[string]string{"X-Token": token})
	if w.Code != http.StatusOK || w.Body.String() != "small" {
		t.Fatalf("variant read = %d %q", w.Code, w.Body.String())
	}
}

func TestJunkParentIDCoercesToRoot(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "bob@dylan.com", "toto1234!")
	token := env.connect(t, "bob@dylan.com", "toto1234!")

	// an unparseable parentId in the body creates the file at the root
	w := env.do(t, http.MethodPost, "/files",
		uploadBody("f.txt", "file", `"parentId":"junk","data":"`+b64("x")+`"`),
		map[string]string{"X-Token": token})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"parentId":0`) {
		t.Errorf("file not rooted: %s", w.Body.String())
	}

	// an unparseable parentId query lists the root, same as no parentId
	var list []map[string]any
	w = env.do(t, http.MethodGet, "/files?parentId=junk", "", map[string]string{"X-Token": token})
	mustDecodeList(t, w, &list)

	if len(list) != 1 || list[0]["name"] != "f.txt" {
		t.Fatalf("root listing via junk parentId = %v", list)
	}
}

func TestShowUnknownIDIs404(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "bob@dylan.com", "toto1234!")
	token := env.connect(t, "bob@dylan.com", "toto1234!")

	for _, id := range []string{"424242", "not-an-id"} {
		w := env.do(t, http.MethodGet, "/files/"+id, "", map[string]string{"X-Token": token})
		wantError(t, w, http.StatusNotFound, "Not found")
	}
}
