package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Route names used to generate links
const (
	RouteGetUsers    = "GetUsers"
	RouteGetUserByID = "GetUserById"
	RouteGetGame     = "GetGame"
)

// Links builds absolute URIs for named routes
type Links struct {
	router *mux.Router
}

// NewLinks creates a link builder over the router's named routes
func NewLinks(router *mux.Router) *Links {
	return &Links{router: router}
}

// Users returns the link to a page of the user list
func (l *Links) Users(r *http.Request, pageNumber, pageSize int) string {
	query := url.Values{}
	query.Set("pageNumber", strconv.Itoa(pageNumber))
	query.Set("pageSize", strconv.Itoa(pageSize))
	return l.build(r, RouteGetUsers, query)
}

// User returns the link to a single user
func (l *Links) User(r *http.Request, id uuid.UUID) string {
	return l.build(r, RouteGetUserByID, nil, "userId", id.String())
}

// Game returns the link to a single game
func (l *Links) Game(r *http.Request, id uuid.UUID) string {
	return l.build(r, RouteGetGame, nil, "gameId", id.String())
}

func (l *Links) build(r *http.Request, name string, query url.Values, pairs ...string) string {
	route := l.router.Get(name)
	if route == nil {
		return ""
	}
	u, err := route.URL(pairs...)
	if err != nil {
		return ""
	}
	u.Scheme = requestScheme(r)
	u.Host = r.Host
	u.RawQuery = query.Encode()
	return u.String()
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
