package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/ops"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// recentLimit caps the unsorted captures shown under the capture box.
const recentLimit = 10

// Handlers contains HTTP route handlers for the web UI.
// Every page first moves the navigation state to itself, then renders from the store.
type Handlers struct {
	st       *store.Store
	cfg      *config.Config
	renderer *Renderer
}

// HandleCapturePage handles GET /: the quick capture screen.
// ?shared= prefills the text box with content handed over by another app.
func (h *Handlers) HandleCapturePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.navigate(w, r, ops.NavigateInput{View: string(capture.ViewCapture)}) {
		return
	}

	templates, err := ops.ListTemplates(ctx, h.st)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	buckets, err := ops.ListBuckets(ctx, h.st)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	recent, err := ops.ListCaptures(ctx, h.st, ops.ListCapturesInput{
		BucketID:  capture.UnsortedBucketID,
		InboxOnly: true,
		Limit:     recentLimit,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "capture", CapturePageData{
		PageData:  h.renderer.page("Capture", "capture"),
		Text:      ops.DecodeShared(r.URL.Query().Get("shared")),
		MaxChars:  h.cfg.CaptureMaxChars,
		Kinds:     capture.Kinds,
		Templates: templates.Items,
		Buckets:   buckets.Items,
		Recent:    recent.Items,
	})
}

// HandleAddCapture handles POST /captures.
func (h *Handlers) HandleAddCapture(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	c, err := ops.AddCapture(r.Context(), h.st, h.cfg, ops.AddCaptureInput{
		Text:        r.FormValue("text"),
		Type:        r.FormValue("type"),
		BucketID:    r.FormValue("bucket_id"),
		FolderID:    r.FormValue("folder_id"),
		Description: r.FormValue("description"),
		Starred:     formBool(r, "starred"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.done(w, r, http.StatusCreated, nextPath(r, "/"), c)
}

// HandleCaptureDetail handles GET /captures/{id}.
func (h *Handlers) HandleCaptureDetail(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCapture(w, r, capture.ViewCaptureView)
	if !ok {
		return
	}

	s := h.st.State()
	bucket, _ := s.Bucket(c.BucketID)
	var folder *capture.Folder
	if f, ok := s.Folder(c.FolderID); ok {
		folder = &f
	}
	buckets, err := ops.ListBuckets(r.Context(), h.st)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData:     h.renderer.page(displayText(c.Text), "buckets"),
		Capture:      c,
		Bucket:       bucket,
		Folder:       folder,
		RenderedHTML: renderMarkdown(c.Description),
		Buckets:      buckets.Items,
		Folders:      s.FoldersIn(c.BucketID),
	})
}

// HandleCaptureEdit handles GET /captures/{id}/edit.
func (h *Handlers) HandleCaptureEdit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCapture(w, r, capture.ViewCaptureEdit)
	if !ok {
		return
	}

	h.renderer.renderPage(w, r, "edit", EditPageData{
		PageData: h.renderer.page("Edit capture", "buckets"),
		Capture:  c,
		Kinds:    capture.Kinds,
	})
}

// HandleUpdateCapture handles POST /captures/{id}: the edit form.
// Fields absent from the form are left unchanged.
func (h *Handlers) HandleUpdateCapture(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "capture")
	if !ok || !h.parseForm(w, r) {
		return
	}

	input := ops.UpdateCaptureInput{
		ID:          id,
		Text:        formPtr(r, "text"),
		Type:        formPtr(r, "type"),
		Description: formPtr(r, "description"),
	}
	if links := formPtr(r, "links"); links != nil {
		parsed := strings.Fields(*links)
		input.Links = &parsed
	}

	c, err := ops.UpdateCapture(r.Context(), h.st, h.cfg, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, http.StatusOK, "/captures/"+c.ID, c)
}

// HandleToggleStar handles POST /captures/{id}/star.
func (h *Handlers) HandleToggleStar(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, ops.ToggleStar)
}

// HandleToggleComplete handles POST /captures/{id}/complete.
func (h *Handlers) HandleToggleComplete(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, ops.ToggleComplete)
}

type toggleFunc func(ctx context.Context, st *store.Store, id string) (*capture.Capture, error)

func (h *Handlers) toggle(w http.ResponseWriter, r *http.Request, fn toggleFunc) {
	id, ok := h.pathID(w, r, "capture")
	if !ok || !h.parseForm(w, r) {
		return
	}

	c, err := fn(r.Context(), h.st, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, http.StatusOK, nextPath(r, "/captures/"+c.ID), c)
}

// HandleMoveCapture handles POST /captures/{id}/move.
func (h *Handlers) HandleMoveCapture(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "capture")
	if !ok || !h.parseForm(w, r) {
		return
	}

	c, err := ops.MoveCapture(r.Context(), h.st, ops.MoveCaptureInput{
		ID:       id,
		BucketID: r.FormValue("bucket_id"),
		FolderID: r.FormValue("folder_id"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, http.StatusOK, "/captures/"+c.ID, c)
}

// HandleDeleteCapture handles POST /captures/{id}/delete.
// Without a next field the browser lands on the capture's bucket.
func (h *Handlers) HandleDeleteCapture(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "capture")
	if !ok || !h.parseForm(w, r) {
		return
	}

	c, err := ops.GetCapture(r.Context(), h.st, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	result, err := ops.DeleteCapture(r.Context(), h.st, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, http.StatusOK, nextPath(r, "/buckets/"+c.BucketID), result)
}

// HandleBuckets handles GET /buckets.
func (h *Handlers) HandleBuckets(w http.ResponseWriter, r *http.Request) {
	if !h.navigate(w, r, ops.NavigateInput{View: string(capture.ViewBuckets)}) {
		return
	}

	result, err := ops.ListBuckets(r.Context(), h.st)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "buckets", BucketsPageData{
		PageData: h.renderer.page("Buckets", "buckets"),
		Buckets:  result.Items,
	})
}

// HandleAddBucket handles POST /buckets.
func (h *Handlers) HandleAddBucket(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	b, err := ops.AddBucket(r.Context(), h.st, ops.AddBucketInput{
		Name:  r.FormValue("name"),
		Icon:  r.FormValue("icon"),
		Color: r.FormValue("color"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, http.StatusCreated, "/buckets/"+b.ID, b)
}

// HandleBucketDetail handles GET /buckets/{id}: folders plus the bucket inbox.
func (h *Handlers) HandleBucketDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "bucket")
	if !ok {
		return
	}

	result, err := ops.GetBucket(r.Context(), h.st, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	none := ""
	if !h.navigate(w, r, ops.NavigateInput{
		View:     string(capture.ViewBucketDetail),
		BucketID: &id,
		FolderID: &none,
	}) {
		return
	}

	h.renderer.renderPage(w, r, "bucket", BucketPageData{
		PageData: h.renderer.page(result.Bucket.Name, "buckets"),
		Bucket:   result.Bucket,
		Folders:  result.Folders,
		Inbox:    result.Inbox,
	})
}

// HandleDeleteBucket handles POST /buckets/{id}/delete.
// The cascade removes folders and captures, so the form must send confirm=true.
func (h *Handlers) HandleDeleteBucket(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "bucket")
	if !ok || !h.parseForm(w, r) {
		return
	}
	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	result, err := ops.DeleteBucket(r.Context(), h.st, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, http.StatusOK, "/buckets", result)
}

// HandleAddFolder handles POST /buckets/{id}/folders.
func (h *Handlers) HandleAddFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "bucket")
	if !ok || !h.parseForm(w, r) {
		return
	}

	f, err := ops.AddFolder(r.Context(), h.st, ops.AddFolderInput{
		BucketID: id,
		Name:     r.FormValue("name"),
		Icon:     r.FormValue("icon"),
		Color:    r.FormValue("color"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, http.StatusCreated, "/buckets/"+id, f)
}

// HandleFolderDetail handles GET /folders/{id}.
func (h *Handlers) HandleFolderDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "folder")
	if !ok {
		return
	}

	result, err := ops.GetFolder(r.Context(), h.st, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if !h.navigate(w, r, ops.NavigateInput{
		View:     string(capture.ViewFolderDetail),
		BucketID: &result.Folder.BucketID,
		FolderID: &id,
	}) {
		return
	}

	h.renderer.renderPage(w, r, "folder", FolderPageData{
		PageData: h.renderer.page(result.Folder.Name, "buckets"),
		Folder:   result.Folder,
		Bucket:   result.Bucket,
		Captures: result.Captures,
	})
}

// HandleDeleteFolder handles POST /folders/{id}/delete. Its captures stay in the bucket inbox.
func (h *Handlers) HandleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "folder")
	if !ok || !h.parseForm(w, r) {
		return
	}

	folder, err := ops.GetFolder(r.Context(), h.st, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	result, err := ops.DeleteFolder(r.Context(), h.st, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, http.StatusOK, "/buckets/"+folder.Folder.BucketID, result)
}

// HandleSearch handles GET /search: substring search over text and description.
// The query is kept in the store so returning to search restores it.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query, present := r.URL.Query()["q"]
	var q string
	if present {
		q = strings.TrimSpace(query[0])
		h.st.Dispatch(store.SetSearchQuery{Query: q})
	} else {
		q = h.st.State().SearchQuery
	}
	if !h.navigate(w, r, ops.NavigateInput{View: string(capture.ViewSearch)}) {
		return
	}

	data := SearchPageData{
		PageData: h.renderer.page("Search", "search"),
		Query:    q,
		HasQuery: q != "",
	}
	if q == "" {
		h.renderer.renderPage(w, r, "search", data)
		return
	}

	result, err := ops.Search(r.Context(), h.st, ops.SearchInput{
		Query:    q,
		BucketID: r.URL.Query().Get("bucket_id"),
		Limit:    parseIntParam(r, "limit", 50),
		Offset:   parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data.Items = result.Items
	data.Pagination = result.Pagination
	h.renderer.renderPage(w, r, "search", data)
}

// loadCapture fetches the capture named in the path and points navigation at it.
func (h *Handlers) loadCapture(w http.ResponseWriter, r *http.Request, view capture.View) (*capture.Capture, bool) {
	id, ok := h.pathID(w, r, "capture")
	if !ok {
		return nil, false
	}

	c, err := ops.GetCapture(r.Context(), h.st, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return nil, false
	}
	if !h.navigate(w, r, ops.NavigateInput{
		View:      string(view),
		BucketID:  &c.BucketID,
		FolderID:  &c.FolderID,
		CaptureID: &c.ID,
	}) {
		return nil, false
	}
	return c, true
}

func (h *Handlers) navigate(w http.ResponseWriter, r *http.Request, input ops.NavigateInput) bool {
	if _, err := ops.Navigate(r.Context(), h.st, input); err != nil {
		h.renderer.renderError(w, r, err)
		return false
	}
	return true
}

func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request, entity string) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest(entity+" ID is required"))
		return "", false
	}
	return id, true
}

func (h *Handlers) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return false
	}
	return true
}

// done finishes a mutation: HX-Redirect for htmx, the result for JSON clients,
// and a 303 redirect for plain form posts.
func (h *Handlers) done(w http.ResponseWriter, r *http.Request, status int, location string, result any) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusOK)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, status, result)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// nextPath returns the form's "next" field when it is a local path, otherwise fallback.
func nextPath(r *http.Request, fallback string) string {
	next := r.FormValue("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}

// formBool parses a checkbox-style form value.
func formBool(r *http.Request, name string) bool {
	s := r.FormValue(name)
	return s == "true" || s == "1" || s == "on"
}

// formPtr returns a pointer to the form value when the field was submitted, nil otherwise.
func formPtr(r *http.Request, name string) *string {
	if _, ok := r.PostForm[name]; !ok {
		return nil
	}
	v := r.PostForm.Get(name)
	return &v
}

// displayText returns the first line of text, truncated for titles.
func displayText(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	runes := []rune(text)
	if len(runes) > 40 {
		return string(runes[:40]) + "..."
	}
	return text
}
