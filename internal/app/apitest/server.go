// Package apitest runs an in-memory content API for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "secret"
)

// Request is what the fake saw for one call.
type Request struct {
	Method      string
	Path        string
	ContentType string
	Auth        string
	RequestID   string
	Body        map[string]interface{}
	Fields      map[string]string
	FileName    string
	FileSize    int
}

type failure struct {
	status  int
	message string
}

type Server struct {
	*httptest.Server

	// Token is issued on login and required on writes when not empty.
	Token string

	mu       sync.Mutex
	docs     map[string][]map[string]interface{}
	nextID   int
	failures map[string]failure
	requests []Request
}

// NewServer starts the fake. The API lives under /api.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		docs:     map[string][]map[string]interface{}{},
		failures: map[string]failure{},
	}

	r := gin.New()
	api := r.Group("/api")
	api.Use(s.record, s.injectFailures)

	api.POST("/auth/login", s.login)
	api.GET("/auth/me", s.requireAuth, s.me)

	api.GET("/:resource", s.list)
	api.GET("/:resource/:id", s.get)
	api.POST("/:resource", s.requireAuth, s.create)
	api.PUT("/:resource/:id", s.requireAuth, s.update)
	api.DELETE("/:resource/:id", s.requireAuth, s.remove)

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL is the API root to configure clients with.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Seed stores documents for a resource, assigning ids when missing.
func (s *Server) Seed(resource string, docs ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		raw, _ := json.Marshal(d)
		var doc map[string]interface{}
		_ = json.Unmarshal(raw, &doc)
		if id, _ := doc["_id"].(string); id == "" {
			doc["_id"] = s.newID()
		}
		s.docs[resource] = append(s.docs[resource], doc)
	}
}

// Fail makes every call of method on resource answer with status and message.
func (s *Server) Fail(method, resource string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+resource] = failure{status: status, message: message}
}

// Recover clears an injected failure.
func (s *Server) Recover(method, resource string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+resource)
}

// Docs returns the stored documents of a resource.
func (s *Server) Docs(resource string) []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]interface{}, 0, len(s.docs[resource]))
	for _, doc := range s.docs[resource] {
		out = append(out, copyDoc(doc))
	}
	return out
}

func copyDoc(doc map[string]interface{}) map[string]interface{} {
	cp := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		cp[k] = v
	}
	return cp
}

// Requests returns every recorded call matching method and path prefix.
func (s *Server) Requests(method, pathPrefix string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) newID() string {
	s.nextID++
	return fmt.Sprintf("%024d", s.nextID)
}

func (s *Server) record(c *gin.Context) {
	rec := Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		ContentType: c.ContentType(),
		Auth:        c.GetHeader("Authorization"),
		RequestID:   c.GetHeader("X-Request-ID"),
	}

	switch rec.ContentType {
	case gin.MIMEJSON:
		raw, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		_ = json.Unmarshal(raw, &rec.Body)
	case gin.MIMEMultipartPOSTForm:
		if form, err := c.MultipartForm(); err == nil {
			rec.Fields = map[string]string{}
			for k, v := range form.Value {
				rec.Fields[k] = v[0]
			}
			for _, files := range form.File {
				rec.FileName = files[0].Filename
				rec.FileSize = int(files[0].Size)
			}
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()
	c.Next()
}

func (s *Server) injectFailures(c *gin.Context) {
	resource := strings.Split(strings.TrimPrefix(c.Request.URL.Path, "/api/"), "/")[0]

	s.mu.Lock()
	f, ok := s.failures[c.Request.Method+" "+resource]
	s.mu.Unlock()

	if ok {
		c.AbortWithStatusJSON(f.status, gin.H{"success": false, "message": f.message})
		return
	}
	c.Next()
}

func (s *Server) requireAuth(c *gin.Context) {
	if s.Token != "" && c.GetHeader("Authorization") != "Bearer "+s.Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "No autorizado"})
		return
	}
	c.Next()
}

func (s *Server) login(c *gin.Context) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Email != AdminEmail || creds.Password != AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Credenciales inválidas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   s.Token,
		"user":    gin.H{"_id": "admin-1", "name": "Admin", "email": AdminEmail, "role": "admin"},
	})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"_id": "admin-1", "name": "Admin", "email": AdminEmail, "role": "admin"},
	})
}

func (s *Server) list(c *gin.Context) {
	docs := s.Docs(c.Param("resource"))
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(docs), "data": docs})
}

func (s *Server) get(c *gin.Context) {
	for _, doc := range s.Docs(c.Param("resource")) {
		if doc["_id"] == c.Param("id") {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": doc})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No encontrado"})
}

func (s *Server) create(c *gin.Context) {
	resource := c.Param("resource")
	doc, ok := s.readDoc(c, resource)
	if !ok {
		return
	}

	s.mu.Lock()
	doc["_id"] = s.newID()
	s.docs[resource] = append(s.docs[resource], doc)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": copyDoc(doc)})
}

func (s *Server) update(c *gin.Context) {
	resource, id := c.Param("resource"), c.Param("id")
	patch, ok := s.readDoc(c, resource)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs[resource] {
		if doc["_id"] == id {
			for k, v := range patch {
				doc[k] = v
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "data": copyDoc(doc)})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No encontrado"})
}

func (s *Server) remove(c *gin.Context) {
	resource, id := c.Param("resource"), c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.docs[resource]
	for i, doc := range docs {
		if doc["_id"] == id {
			s.docs[resource] = append(docs[:i:i], docs[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Eliminado"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No encontrado"})
}

// readDoc decodes a JSON body, or the multipart form the clients resource uses.
func (s *Server) readDoc(c *gin.Context, resource string) (map[string]interface{}, bool) {
	doc := map[string]interface{}{}

	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return nil, false
		}
		return doc, true
	}

	if name, ok := c.GetPostForm("name"); ok {
		doc["name"] = name
	}
	if active, ok := c.GetPostForm("isActive"); ok {
		doc["isActive"] = active == "true"
	}
	if order, ok := c.GetPostForm("order"); ok {
		n, _ := strconv.Atoi(order)
		doc["order"] = n
	}
	if file, err := c.FormFile("logo"); err == nil {
		doc["logo"] = "/uploads/" + resource + "/" + file.Filename
	} else if c.Request.Method == http.MethodPost {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "El logo es requerido"})
		return nil, false
	}
	return doc, true
}
