package handler

import (
	"net/http"
	"strings"

	"chatsync/internal/pkg/errs"
	"chatsync/internal/pkg/logx"
	"chatsync/internal/pkg/req"
	"chatsync/internal/pkg/resp"
)

type postMessageRequest struct {
	Text *string `json:"text"`
}

type postMessageResponse struct {
	Queued bool `json:"queued"`
}

// HandlePostMessage submits text on behalf of an external view. Blank text is
// accepted and nothing is sent; a body without a text field is rejected.
func HandlePostMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body postMessageRequest
		if customErr := req.BindJSON(w, r, &body); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if body.Text == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		// Submit sends the trimmed text, so that is what must fit in a frame.
		text := strings.TrimSpace(*body.Text)
		if deps.Config.MaxFrameBytes > 0 && int64(len(text)) > deps.Config.MaxFrameBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageTooLong))
			return
		}

		if err := deps.Session.Submit(text); err != nil {
			logx.Warn("Inspector submit failed", "error", err.Error())
			resp.RespondError(w, r, errs.FromError(err))
			return
		}

		resp.RespondStatus(w, r, http.StatusAccepted, postMessageResponse{Queued: true})
	}
}
