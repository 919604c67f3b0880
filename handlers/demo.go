package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lakshita2255/Voter-auth-project/cliparse"
	"github.com/Lakshita2255/Voter-auth-project/directory"
	"github.com/Lakshita2255/Voter-auth-project/middleware"
	"github.com/Lakshita2255/Voter-auth-project/models"
)

// DemoVoterLimit is how many voters the demo listing shows.
const DemoVoterLimit = 5

type DemoHandler struct {
	dir directory.IdentityDirectory
	cfg cliparse.Config
}

func NewDemoHandler(dir directory.IdentityDirectory, cfg cliparse.Config) *DemoHandler {
	return &DemoHandler{dir: dir, cfg: cfg}
}

// ListVoters handles GET /demo/voters
func (h *DemoHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	lister, ok := h.dir.(directory.Lister)
	if !h.cfg.DemoMode || !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Demo mode is disabled")
		return
	}

	voters, err := lister.List(r.Context(), DemoVoterLimit)
	if err != nil {
		slog.Error("failed to list demo voters", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Failed to list voters")
		return
	}

	resp := models.DemoVotersResponse{Voters: make([]models.DemoVoter, 0, len(voters))}
	for _, v := range voters {
		resp.Voters = append(resp.Voters, models.DemoVoter{
			FullName:   v.FullName,
			VoterID:    v.VoterID,
			NationalID: v.NationalID,
			Phone:      v.Phone,
			HasVoted:   v.HasVoted,
		})
	}
	resp.Total = len(resp.Voters)

	middleware.JSONResponse(w, http.StatusOK, resp)
}
