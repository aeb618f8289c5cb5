package api

import (
	"net/http"
	"strings"

	"domainhub/sources/persistence/entities"
	"domainhub/sources/platform"
	"domainhub/sources/realtime"

	"github.com/gorilla/mux"
)

func (x *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TelegramUsername string `json:"telegram_username"`
		Content          string `json:"content"`
	}
	if err := decode(r, &req); err != nil {
		WriteError(w, x.log, err)
		return
	}

	if err := platform.RequireFields("Telegram username and content are required",
		"telegram_username", req.TelegramUsername,
		"content", req.Content,
	); err != nil {
		WriteError(w, x.log, err)
		return
	}

	comment := &entities.Comment{
		TelegramUsername: strings.TrimPrefix(strings.TrimSpace(req.TelegramUsername), "@"),
		Content:          strings.TrimSpace(req.Content),
	}
	if err := x.comments.CreateComment(r.Context(), x.log, comment); err != nil {
		WriteError(w, x.log, err)
		return
	}

	x.notifier.Notify(r.Context(), realtime.NewCommentEvent(comment))
	WriteData(w, http.StatusCreated, "Comment created successfully", comment)
}

func (x *Server) getComments(w http.ResponseWriter, r *http.Request) {
	comments, err := x.comments.ListComments(r.Context(), x.log)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteData(w, http.StatusOK, "", comments)
}

func (x *Server) countNewComments(w http.ResponseWriter, r *http.Request) {
	count, err := x.comments.CountNewComments(r.Context(), x.log)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteJSON(w, http.StatusOK, countResponse{Success: true, Count: count})
}

func (x *Server) markCommentRead(w http.ResponseWriter, r *http.Request) {
	if err := x.comments.MarkCommentRead(r.Context(), x.log, mux.Vars(r)["id"]); err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Comment marked as read")
}

func (x *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	if err := x.comments.DeleteComment(r.Context(), x.log, mux.Vars(r)["id"]); err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Comment deleted successfully")
}
