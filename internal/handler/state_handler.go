package handler

import (
	"net/http"

	"chatsync/internal/app/session"
	"chatsync/internal/app/user"
	"chatsync/internal/pkg/resp"
)

type healthResponse struct {
	Status     string `json:"status"`
	Connection string `json:"connection"`
}

type sessionResponse struct {
	Username   string `json:"username"`
	State      string `json:"state"`
	Connection string `json:"connection"`
	ServerURL  string `json:"serverUrl"`
}

// HandleHealth reports liveness together with the connection state.
func HandleHealth(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, healthResponse{
			Status:     "ok",
			Connection: deps.Conn.State().String(),
		})
	}
}

// HandleGetSession returns the local identity and lifecycle states.
func HandleGetSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, sessionResponse{
			Username:   deps.Session.Username(),
			State:      deps.Session.State().String(),
			Connection: deps.Conn.State().String(),
			ServerURL:  deps.Conn.URL(),
		})
	}
}

// HandleGetRoster returns a snapshot of the roster in server order.
func HandleGetRoster(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roster := deps.Session.Roster()
		if roster == nil {
			roster = []user.Profile{}
		}
		resp.RespondSuccess(w, r, roster)
	}
}

// HandleGetFeed returns the feed with each sender resolved against the current roster.
func HandleGetFeed(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feed := deps.Session.FeedView()
		if feed == nil {
			feed = []session.FeedEntry{}
		}
		resp.RespondSuccess(w, r, feed)
	}
}
