package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/media"
	"github.com/vbonduro/roboadmin/internal/service"
	"github.com/vbonduro/roboadmin/internal/session"
)

var postKinds = []domain.PostKind{domain.PostKindBlog, domain.PostKindBehindTheScenes}

func postBase(kind domain.PostKind) string {
	if kind == domain.PostKindBehindTheScenes {
		return "/behind-the-scenes"
	}
	return "/blog"
}

func postTitle(kind domain.PostKind) string {
	if kind == domain.PostKindBehindTheScenes {
		return "Behind the scenes"
	}
	return "Blog"
}

// postHandlers serves one post kind under its own base path.
type postHandlers struct {
	s    *Server
	kind domain.PostKind
}

func (h postHandlers) data(extra map[string]any) map[string]any {
	extra["Kind"] = string(h.kind)
	extra["Base"] = postBase(h.kind)
	extra["Title"] = postTitle(h.kind)
	extra["IsBlog"] = h.kind == domain.PostKindBlog
	return extra
}

func (h postHandlers) nav() string {
	return string(h.kind)
}

func (h postHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	posts, err := h.s.svc.Posts.List(r.Context(), h.kind, q)
	if err != nil {
		h.s.fail(w, r, "failed to list posts", err)
		return
	}
	h.s.list(w, r, h.nav(), h.data(map[string]any{"Posts": posts, "Query": q}),
		"pages/posts.html", "partials/post_rows.html")
}

func (h postHandlers) detail(w http.ResponseWriter, r *http.Request) {
	post, err := h.s.svc.Posts.Get(r.Context(), h.kind, chi.URLParam(r, "id"))
	if err != nil {
		h.s.fail(w, r, "failed to load post", err)
		return
	}
	if err := h.s.renderPage(w,
		h.s.page(w, r, h.nav(), h.data(map[string]any{"Post": post})),
		"base.html", "pages/post_detail.html",
	); err != nil {
		h.s.logger.Error("render page error", "error", err)
	}
}

func (h postHandlers) new(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, nil, service.PostInput{}, nil)
}

func (h postHandlers) edit(w http.ResponseWriter, r *http.Request) {
	post, err := h.s.svc.Posts.Get(r.Context(), h.kind, chi.URLParam(r, "id"))
	if err != nil {
		h.s.fail(w, r, "failed to load post", err)
		return
	}
	h.render(w, r, http.StatusOK, post, service.PostInputFrom(post), nil)
}

func (h postHandlers) create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.input(w, r, nil)
	if !ok {
		return
	}
	if err := h.s.svc.Posts.Create(r.Context(), h.kind, in); err != nil {
		h.failed(w, r, nil, in, err)
		return
	}
	h.s.sessions.AddFlash(w, r, session.FlashSuccess, "Post published.")
	redirect(w, r, postBase(h.kind))
}

func (h postHandlers) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.s.svc.Posts.Get(r.Context(), h.kind, id)
	if err != nil {
		h.s.fail(w, r, "failed to load post", err)
		return
	}

	in, ok := h.input(w, r, post)
	if !ok {
		return
	}
	if err := h.s.svc.Posts.Update(r.Context(), h.kind, id, in); err != nil {
		h.failed(w, r, post, in, err)
		return
	}
	h.s.sessions.AddFlash(w, r, session.FlashSuccess, "Post updated.")
	redirect(w, r, postBase(h.kind))
}

func (h postHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	err := h.s.svc.Posts.Delete(r.Context(), h.kind, chi.URLParam(r, "id"))
	if err == nil {
		h.s.evict(r)
	}
	h.s.afterDelete(w, r, "post", postBase(h.kind), err)
}

func (h postHandlers) input(w http.ResponseWriter, r *http.Request, post *domain.Post) (service.PostInput, bool) {
	var in service.PostInput
	if err := decodeForm(r, &in); err != nil {
		h.s.logger.Warn("bad post form", "error", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return in, false
	}
	file, err := h.s.formFile(r, "file", media.KindImage, media.KindVideo)
	if err != nil {
		h.failed(w, r, post, in, err)
		return in, false
	}
	in.Media = file
	return in, true
}

func (h postHandlers) failed(w http.ResponseWriter, r *http.Request, post *domain.Post, in service.PostInput, err error) {
	errs, ok := formErrors(err, "file")
	status := http.StatusUnprocessableEntity
	if !ok {
		h.s.logger.Error("save post failed", "kind", h.kind, "error", err)
		errs = service.ValidationErrors{service.FormField: "Failed to save the post. Please try again."}
		status = http.StatusBadGateway
	}
	h.render(w, r, status, post, in, errs)
}

func (h postHandlers) render(w http.ResponseWriter, r *http.Request, status int, post *domain.Post, in service.PostInput, errs service.ValidationErrors) {
	data := h.s.page(w, r, h.nav(), h.data(map[string]any{
		"Post":   post,
		"Input":  in,
		"Errors": errs,
	}))
	if err := h.s.renderPageStatus(w, status, data, "base.html", "pages/post_form.html"); err != nil {
		h.s.logger.Error("render page error", "error", err)
	}
}
