package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/PressureTank/TextGen/backend/generator"
	"github.com/PressureTank/TextGen/backend/template"
)

const (
	msgRequired     = "O nome e o conteúdo são obrigatórios!"
	msgAdded        = "Texto adicionado com sucesso!"
	msgUpdated      = "Texto atualizado com sucesso!"
	msgDeleted      = "Texto excluído com sucesso!"
	msgNotFound     = "Texto não encontrado."
	msgEditNotFound = "Texto não encontrado para edição."
)

// templateID reads the {id} route variable. The route pattern only admits
// digits, so the sole failure is an id too large for int64.
func templateID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

// loadTemplate fetches the template named by the route. When it does not
// exist the client is redirected to the list with notFoundMsg and ok is false.
func (s *Server) loadTemplate(w http.ResponseWriter, r *http.Request, notFoundMsg string) (*template.Template, bool) {
	id, ok := templateID(r)
	if !ok {
		s.redirect(w, r, "/", notFoundMsg)
		return nil, false
	}
	t, err := s.db.GetTemplate(r.Context(), id)
	if errors.Is(err, template.ErrNotFound) {
		s.redirect(w, r, "/", notFoundMsg)
		return nil, false
	} else if err != nil {
		s.serverError(w, r, err)
		return nil, false
	}
	return t, true
}

func (s *Server) ListHandler(w http.ResponseWriter, r *http.Request) {
	templates, err := s.db.GetTemplates(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "index", page{Title: "Textos", Templates: templates})
}

func (s *Server) AddFormHandler(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "form", page{Title: "Novo texto", Action: "/add"})
}

func (s *Server) AddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	name, content := r.PostForm.Get("name"), r.PostForm.Get("content")

	if err := template.Validate(name, content); err != nil {
		s.render(w, r, "form", page{
			Title:    "Novo texto",
			Messages: []string{msgRequired},
			Action:   "/add",
			Name:     name,
			Content:  content,
		})
		return
	}

	if _, err := s.db.AddTemplate(r.Context(), name, content); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.redirect(w, r, "/", msgAdded)
}

func (s *Server) EditFormHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTemplate(w, r, msgEditNotFound)
	if !ok {
		return
	}
	s.render(w, r, "form", page{
		Title:   "Editar texto",
		Action:  "/edit/" + strconv.FormatInt(t.ID, 10),
		Name:    t.Name,
		Content: t.Content,
	})
}

func (s *Server) EditHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTemplate(w, r, msgEditNotFound)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	name, content := r.PostForm.Get("name"), r.PostForm.Get("content")

	if err := template.Validate(name, content); err != nil {
		s.render(w, r, "form", page{
			Title:    "Editar texto",
			Messages: []string{msgRequired},
			Action:   "/edit/" + strconv.FormatInt(t.ID, 10),
			Name:     name,
			Content:  content,
		})
		return
	}

	err := s.db.UpdateTemplate(r.Context(), t.ID, name, content)
	if errors.Is(err, template.ErrNotFound) {
		s.redirect(w, r, "/", msgEditNotFound)
		return
	} else if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.redirect(w, r, "/", msgUpdated)
}

// DeleteHandler removes the template without asking for confirmation.
func (s *Server) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := templateID(r)
	if ok {
		if err := s.db.DeleteTemplate(r.Context(), id); err != nil {
			s.serverError(w, r, err)
			return
		}
	}
	s.redirect(w, r, "/", msgDeleted)
}

func (s *Server) GenerateFormHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTemplate(w, r, msgNotFound)
	if !ok {
		return
	}
	s.render(w, r, "generate", page{
		Title:        t.Name,
		ID:           t.ID,
		Placeholders: generator.Extract(t.Content),
		Preview:      generator.Generate(t.Content, nil, s.clock()),
	})
}

func (s *Server) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTemplate(w, r, msgNotFound)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	values := generator.FormValues(r.PostForm, generator.Extract(t.Content))
	s.render(w, r, "generated", page{
		Title:     t.Name,
		ID:        t.ID,
		Generated: generator.Generate(t.Content, values, s.clock()),
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
