package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"duckhub/internal/badges"
	"duckhub/internal/db"
	"duckhub/internal/ducks"
	"duckhub/internal/livefeed"
	"duckhub/internal/ratings"
	"duckhub/internal/shop"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Points granted per qualifying action. Ratings accrue store points; badges
// pay out a bonus on top.
const (
	pointsPerRating = 10
	pointsPerBadge  = 50
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode unmarshals the request body into v and runs struct validation.
func (s *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("invalid request: %v", err)
	}
	return nil
}

type duckResponse struct {
	Image       string             `json:"image"`
	Attribution *ducks.Attribution `json:"attribution,omitempty"`
}

func (s *Server) handleDuck(w http.ResponseWriter, r *http.Request) {
	d, err := s.Ducks.Random()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "No duck images found")
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	writeJSON(w, http.StatusOK, duckResponse{
		Image:       fmt.Sprintf("%s://%s%s", scheme, r.Host, d.Path),
		Attribution: d.Attribution,
	})
}

type rateRequest struct {
	ImageURL string `json:"imageUrl" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=10"`
}

type rateResponse struct {
	Success       bool          `json:"success"`
	AverageRating float64       `json:"averageRating"`
	Count         int           `json:"count"`
	RatedCount    int           `json:"ratedCount"`
	NewBadge      *badges.Badge `json:"newBadge"`
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var req rateRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := s.Ratings.Record(req.ImageURL, req.Rating)
	if errors.Is(err, ratings.ErrValidation) {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 10")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record rating")
		return
	}
	ratingsTotal.Inc()

	ratedCount := s.Progress.RecordRated(sess, req.ImageURL)
	newBadge := s.awardRatingBadge(sess, ratedCount)

	if _, err := s.Shop.GrantPoints(sess, pointsPerRating); err != nil {
		s.Logger.Warnw("granting rating points", "error", err)
	}
	s.syncLeaderboard(sess)

	s.Recorder.Record(db.Event{
		SessionID: sess,
		Kind:      db.EventRating,
		ImageKey:  req.ImageURL,
		Rating:    req.Rating,
	})

	writeJSON(w, http.StatusOK, rateResponse{
		Success:       true,
		AverageRating: sum.Average,
		Count:         sum.Count,
		RatedCount:    ratedCount,
		NewBadge:      newBadge,
	})
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("imageUrl")
	if imageURL == "" {
		writeError(w, http.StatusBadRequest, "imageUrl is required")
		return
	}

	sum := s.Ratings.Get(imageURL)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   sum.Count,
		"average": sum.Average,
	})
}

type clickBadgeRequest struct {
	ClickCount int `json:"clickCount" validate:"required,min=1"`
}

type clickBadgeResponse struct {
	Success     bool          `json:"success"`
	NewBadge    *badges.Badge `json:"newBadge"`
	TotalClicks int           `json:"totalClicks"`
}

func (s *Server) handleClickBadge(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var req clickBadgeRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	total := s.Progress.RecordClicks(sess, req.ClickCount)

	var newBadge *badges.Badge
	if b := badges.EvaluateClicks(total, s.Progress.Earned(sess)); b != nil {
		s.Progress.MarkEarned(sess, b.Name)
		badgeAwardsTotal.WithLabelValues(b.Name).Inc()
		if _, err := s.Shop.GrantPoints(sess, pointsPerBadge); err != nil {
			s.Logger.Warnw("granting badge points", "error", err)
		}
		newBadge = b
	}
	s.syncLeaderboard(sess)

	s.Recorder.Record(db.Event{
		SessionID:  sess,
		Kind:       db.EventClick,
		ClickCount: total,
	})

	writeJSON(w, http.StatusOK, clickBadgeResponse{
		Success:     true,
		NewBadge:    newBadge,
		TotalClicks: total,
	})
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, badges.All())
}

func (s *Server) handleLeaderboardUser(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	entry, err := s.Board.GetOrCreate(sess)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create leaderboard entry")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type leaderboardUpdateRequest struct {
	Clicks     int `json:"clicks" validate:"min=0"`
	DucksRated int `json:"ducksRated" validate:"min=0"`
}

func (s *Server) handleLeaderboardUpdate(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var req leaderboardUpdateRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Server-tracked progress feeds the ratchet too, so a client that clears
	// its sessionStorage cannot shrink its own stats.
	s.Progress.RecordClicks(sess, req.Clicks)
	if _, err := s.Board.Sync(sess, s.Progress.Clicks(sess), max(req.DucksRated, s.Progress.RatedCount(sess))); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update leaderboard")
		return
	}
	s.broadcastLeaderboard()

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Board.List())
}

func (s *Server) handleLeaderboardLive(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.Logger.Warnw("websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	id := uuid.New().String()
	client := &livefeed.Client{ID: id, Conn: conn, Send: make(chan []byte, 16)}
	s.Feed.Register(client)
	defer s.Feed.Unregister(id)

	ctx := r.Context()
	go client.WritePump(ctx)

	// Initial snapshot so a fresh panel doesn't wait for the next change.
	if data, err := json.Marshal(livefeed.Update{Type: "leaderboard", Entries: s.Board.List()}); err == nil {
		select {
		case client.Send <- data:
		default:
		}
	}

	// Clients never send anything meaningful; reading just detects the close.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

func (s *Server) handleStoreItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, shop.Catalog())
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	inv := s.Shop.Inventory(sess)
	writeJSON(w, http.StatusOK, map[string]any{
		"points":    inv.Points,
		"inventory": inv.Items,
	})
}

type purchaseRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var req purchaseRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := s.Shop.Purchase(sess, req.ItemID)
	switch {
	case errors.Is(err, shop.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, "Unknown item")
		return
	case errors.Is(err, shop.ErrAlreadyOwned):
		writeError(w, http.StatusBadRequest, "Item already owned")
		return
	case errors.Is(err, shop.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, "Not enough points")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "purchase failed")
		return
	}
	purchasesTotal.WithLabelValues(req.ItemID).Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"newPoints": inv.Points,
		"inventory": inv.Items,
	})
}

type addPointsRequest struct {
	Points int `json:"points" validate:"required,gt=0"`
}

func (s *Server) handleAddPoints(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var req addPointsRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := s.Shop.GrantPoints(sess, req.Points)
	if errors.Is(err, shop.ErrValidation) {
		writeError(w, http.StatusBadRequest, "points must be a positive integer")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add points")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"newPoints": inv.Points,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "db_error",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

const duckPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>🦆 Random Duck</title>
  <style>
    body { font-family: sans-serif; text-align: center; padding: 2rem; background: #eafaf1; }
    img { max-width: 90vw; height: auto; border-radius: 8px; }
    button { margin-top: 1rem; padding: 10px 20px; font-size: 1rem; background-color: #66bb6a;
             border: none; border-radius: 5px; color: white; cursor: pointer; }
    button:hover { background-color: #4caf50; }
  </style>
</head>
<body>
  <h1>Here's a duck for you 🦆</h1>
  <img src="%s" alt="Random duck" />
  <br>
  <form method="get" action="/duck">
    <button type="submit">New Duck</button>
  </form>
</body>
</html>`

func (s *Server) handleDuckPage(w http.ResponseWriter, r *http.Request) {
	d, err := s.Ducks.Random()
	if err != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<h1>No ducks available 🦆😢</h1>")
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, duckPage, fmt.Sprintf("%s://%s%s", scheme, r.Host, d.Path))
}

// awardRatingBadge evaluates and records a rating badge for the session,
// paying out the badge point bonus. Returns nil when no new badge is due.
func (s *Server) awardRatingBadge(sess string, ratedCount int) *badges.Badge {
	b := badges.EvaluateRating(ratedCount, s.Progress.Earned(sess))
	if b == nil {
		return nil
	}
	s.Progress.MarkEarned(sess, b.Name)
	badgeAwardsTotal.WithLabelValues(b.Name).Inc()
	if _, err := s.Shop.GrantPoints(sess, pointsPerBadge); err != nil {
		s.Logger.Warnw("granting badge points", "error", err)
	}
	return b
}

// syncLeaderboard pushes the session's server-tracked progress into its
// leaderboard entry and notifies live watchers.
func (s *Server) syncLeaderboard(sess string) {
	if _, err := s.Board.Sync(sess, s.Progress.Clicks(sess), s.Progress.RatedCount(sess)); err != nil {
		s.Logger.Warnw("syncing leaderboard", "error", err)
		return
	}
	s.broadcastLeaderboard()
}

func (s *Server) broadcastLeaderboard() {
	if s.Feed.Count() == 0 {
		return
	}
	s.Feed.Broadcast(livefeed.Update{Type: "leaderboard", Entries: s.Board.List()})
}
