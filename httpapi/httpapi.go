// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2024 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

// Package httpapi serves a small debug HTTP API over the condition
// engine: POST a unit file's text, get back its per-condition dump and
// overall verdict. Routing follows the teacher's daemon package
// (a *mux.Router dispatching named *Command routes); unlike the
// teacher's full REST surface this one exists only for interactive
// debugging of why a unit would or wouldn't start, so it stays to a
// couple of routes.
package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/juju/ratelimit"

	"github.com/snapcore/unitcond/auditlog"
	"github.com/snapcore/unitcond/condition"
	"github.com/snapcore/unitcond/loader"
	"github.com/snapcore/unitcond/logger"
)

// Command mirrors the teacher's daemon.Command: a route path plus the
// handler for each method it accepts. Unset methods answer 405.
type Command struct {
	Path string
	GET  http.HandlerFunc
	POST http.HandlerFunc
}

func (cmd *Command) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var handler http.HandlerFunc
	switch r.Method {
	case "GET":
		handler = cmd.GET
	case "POST":
		handler = cmd.POST
	}
	if handler == nil {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	handler(w, r)
}

// Server evaluates unit file text posted to it against facts, with a
// token-bucket limiter guarding the evaluate endpoint from runaway
// clients and an optional audit trail of every evaluation performed.
type Server struct {
	router  *mux.Router
	facts   condition.Facts
	limiter *ratelimit.Bucket
	audit   *auditlog.Log
}

// New builds a Server evaluating against facts. rate and capacity
// configure the evaluate endpoint's token bucket (see
// ratelimit.NewBucketWithRate); audit may be nil to disable history
// recording.
func New(facts condition.Facts, rate float64, capacity int64, audit *auditlog.Log) *Server {
	s := &Server{
		facts:   facts,
		limiter: ratelimit.NewBucketWithRate(rate, capacity),
		audit:   audit,
	}
	s.router = mux.NewRouter()
	s.addRoutes()
	return s
}

func (s *Server) addRoutes() {
	for _, cmd := range []*Command{
		{Path: "/v1/evaluate", POST: s.rateLimited(s.evaluate)},
		{Path: "/v1/recent", GET: s.recent},
	} {
		s.router.Handle(cmd.Path, cmd).Name(cmd.Path)
	}
	s.router.NotFoundHandler = http.HandlerFunc(notFound)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "not found", http.StatusNotFound)
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// rateLimited wraps h so a request is rejected with 429 when the
// bucket has no token available, instead of blocking the request.
func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter.TakeAvailable(1) == 0 {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		h(w, r)
	}
}

// evaluateResponse is the JSON body returned from /v1/evaluate.
type evaluateResponse struct {
	Verdict bool   `json:"verdict"`
	Dump    string `json:"dump"`
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	list, err := loader.FromReader(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	env := os.Environ()
	verdict := list.Evaluate(env, s.facts, nil)

	var buf bytes.Buffer
	if err := list.Dump(&buf, ""); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	unit := strings.TrimSpace(r.URL.Query().Get("unit"))
	if s.audit != nil {
		if err := s.audit.Record(auditlog.Entry{
			Time:    time.Now(),
			Unit:    unit,
			Verdict: verdict,
			Dump:    buf.String(),
		}); err != nil {
			logger.Noticef("httpapi: cannot record evaluation: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(evaluateResponse{Verdict: verdict, Dump: buf.String()})
}

func (s *Server) recent(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		http.Error(w, "audit log not enabled", http.StatusNotImplemented)
		return
	}
	entries, err := s.audit.Recent(50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
