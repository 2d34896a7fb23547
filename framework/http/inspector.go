package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kofrasa/service-locator/framework/locator"
	"github.com/kofrasa/service-locator/framework/routing"
)

// Inspector serves a read-only JSON view of a locator. It never constructs
// services; registered values are listed by key only.
//
//	GET /health            {"data": {"initialized": true, "services": 2, "values": 1}}
//	GET /services?prefix=  {"data": [{"key": ..., "type": ..., "capabilities": [...], "resolved": false}]}
//	GET /services/{key}    {"data": {...}} or 404
//	GET /values            {"data": ["date"]}
type Inspector struct {
	locator *locator.Locator
}

// NewInspector creates an Inspector for l.
func NewInspector(l *locator.Locator) *Inspector {
	return &Inspector{locator: l}
}

// Routes mounts the inspector endpoints on r.
//
//	router.Prefix("/debug", inspector.Routes)
func (i *Inspector) Routes(r *routing.Router) {
	r.Get("/health", i.health)
	r.Get("/services", i.services)
	r.Get("/services/{key}", i.service)
	r.Get("/values", i.values)
}

func (i *Inspector) health(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(map[string]any{
		"initialized": i.locator.Initialized(),
		"services":    len(i.locator.Keys()),
		"values":      len(i.locator.ValueKeys()),
	})
}

func (i *Inspector) services(w http.ResponseWriter, r *http.Request) {
	prefix := NewRequest(r).Query("prefix")

	out := make([]locator.Descriptor, 0)
	for _, key := range i.locator.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if d, ok := i.locator.Describe(key); ok {
			out = append(out, d)
		}
	}
	NewResponse(w).Success(out)
}

func (i *Inspector) service(w http.ResponseWriter, r *http.Request) {
	key := NewRequest(r).RouteParam("key")
	d, ok := i.locator.Describe(key)
	if !ok {
		NewResponse(w).NotFound(fmt.Sprintf("service [%s] not found", key))
		return
	}
	NewResponse(w).Success(d)
}

func (i *Inspector) values(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(i.locator.ValueKeys())
}
