package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/internal/service/bot"
	"github.com/iamasit07/gomoku/internal/service/game"
	"github.com/iamasit07/gomoku/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router *gin.Engine
	sm     *game.SessionManager
	seats  *auth.SeatSigner
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	sm := game.NewSessionManager(bot.NewEngine(), game.WithAIDelay(-1))
	seats := auth.NewSeatSigner("test-secret", time.Hour)

	router := gin.New()
	NewGameHandler(sm, seats).RegisterRoutes(router.Group("/api"))
	return &testAPI{router: router, sm: sm, seats: seats}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d: %s", w.Code, status, w.Body.String())
	}
}

func (a *testAPI) createPvP(t *testing.T) gameResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/games", "", nil)
	expectStatus(t, w, http.StatusCreated)
	return decode[gameResponse](t, w)
}

func TestCreateGameIssuesSeatTokens(t *testing.T) {
	api := newTestAPI(t)

	pvp := api.createPvP(t)
	if pvp.Tokens["black"] == "" || pvp.Tokens["white"] == "" {
		t.Fatalf("PvP should hand out both seats, got %v", pvp.Tokens)
	}
	if pvp.Game.Info.Mode != domain.ModePvP || pvp.Game.Info.Status != domain.StatusReady {
		t.Fatalf("unexpected game info %+v", pvp.Game.Info)
	}

	w := api.do(t, http.MethodPost, "/api/games", "", gin.H{"mode": "PvE", "difficulty": "beginner", "human_color": "white"})
	expectStatus(t, w, http.StatusCreated)
	pve := decode[gameResponse](t, w)
	if _, ok := pve.Tokens["black"]; ok || pve.Tokens["white"] == "" {
		t.Fatalf("only the human seat gets a token, got %v", pve.Tokens)
	}
	if len(pve.Game.Moves) != 1 || pve.Game.Moves[0].Player != domain.Black {
		t.Fatalf("the engine should have opened as Black, got %+v", pve.Game.Moves)
	}
	if pve.Game.AI[domain.Black] != domain.Beginner {
		t.Fatalf("expected a beginner engine on Black, got %+v", pve.Game.AI)
	}

	for _, body := range []gin.H{{"mode": "chess"}, {"mode": "pve", "difficulty": "impossible"}, {"mode": "pve", "human_color": "red"}} {
		expectStatus(t, api.do(t, http.MethodPost, "/api/games", "", body), http.StatusBadRequest)
	}
}

func TestMoveAndUndoFlow(t *testing.T) {
	api := newTestAPI(t)
	g := api.createPvP(t)
	id := g.Game.GameID
	black, white := g.Tokens["black"], g.Tokens["white"]

	expectStatus(t, api.do(t, http.MethodPost, "/api/games/"+id+"/moves", "", gin.H{"x": 7, "y": 7}), http.StatusUnauthorized)

	w := api.do(t, http.MethodPost, "/api/games/"+id+"/moves", black, gin.H{"x": 7, "y": 7})
	expectStatus(t, w, http.StatusOK)
	res := decode[moveResponse](t, w)
	if res.Move.Move.X != 7 || res.Move.NextPlayer != domain.White || res.AIMove != nil {
		t.Fatalf("unexpected outcome %+v", res.MoveOutcome)
	}

	expectStatus(t, api.do(t, http.MethodPost, "/api/games/"+id+"/moves", black, gin.H{"x": 8, "y": 8}), http.StatusForbidden)
	expectStatus(t, api.do(t, http.MethodPost, "/api/games/"+id+"/moves", white, gin.H{"x": 7, "y": 7}), http.StatusBadRequest)
	expectStatus(t, api.do(t, http.MethodPost, "/api/games/"+id+"/moves", white, gin.H{"x": 15, "y": 0}), http.StatusBadRequest)
	expectStatus(t, api.do(t, http.MethodPost, "/api/games/"+id+"/moves", white, gin.H{}), http.StatusBadRequest)

	w = api.do(t, http.MethodPost, "/api/games/"+id+"/moves", white, gin.H{"position": "H9"})
	expectStatus(t, w, http.StatusOK)
	if res := decode[moveResponse](t, w); res.Move.Move.Y != 8 || res.Game.Info.MoveCount != 2 {
		t.Fatalf("expected H9 to be (7,8), got %+v", res.Move.Move)
	}

	w = api.do(t, http.MethodPost, "/api/games/"+id+"/undo", white, nil)
	expectStatus(t, w, http.StatusOK)
	undo := decode[struct {
		Game   game.GameState `json:"game"`
		Undone int            `json:"undone"`
	}](t, w)
	if undo.Undone != 1 || undo.Game.Info.MoveCount != 1 || undo.Game.Info.CurrentPlayer != domain.White {
		t.Fatalf("expected one ply taken back, got %+v", undo)
	}

	w = api.do(t, http.MethodGet, "/api/games/"+id, "", nil)
	expectStatus(t, w, http.StatusOK)
	if st := decode[game.GameState](t, w); st.LastMove == nil || st.LastMove.X != 7 || st.LastMove.Y != 7 {
		t.Fatalf("expected the centre as last move, got %+v", st.LastMove)
	}
}

func TestUnknownGameAndForeignToken(t *testing.T) {
	api := newTestAPI(t)
	g := api.createPvP(t)

	expectStatus(t, api.do(t, http.MethodGet, "/api/games/missing", "", nil), http.StatusNotFound)

	missing, _ := api.seats.GenerateSeatToken("missing", int(domain.Black))
	expectStatus(t, api.do(t, http.MethodPost, "/api/games/missing/moves", missing, gin.H{"x": 7, "y": 7}), http.StatusNotFound)
	expectStatus(t, api.do(t, http.MethodPost, "/api/games/"+g.Game.GameID+"/moves", missing, gin.H{"x": 7, "y": 7}), http.StatusUnauthorized)
}

func TestForbiddenMoveCarriesEvidence(t *testing.T) {
	api := newTestAPI(t)
	g := api.createPvP(t)
	id := g.Game.GameID

	seq := [][2]int{{5, 7}, {0, 0}, {6, 7}, {14, 0}, {7, 5}, {0, 14}, {7, 6}, {14, 14}}
	for i, m := range seq {
		token := g.Tokens["black"]
		if i%2 == 1 {
			token = g.Tokens["white"]
		}
		expectStatus(t, api.do(t, http.MethodPost, "/api/games/"+id+"/moves", token, gin.H{"x": m[0], "y": m[1]}), http.StatusOK)
	}

	w := api.do(t, http.MethodPost, "/api/games/"+id+"/moves", g.Tokens["black"], gin.H{"x": 7, "y": 7})
	expectStatus(t, w, http.StatusBadRequest)
	body := decode[struct {
		Error     string                 `json:"error"`
		Forbidden domain.ForbiddenResult `json:"forbidden"`
	}](t, w)
	if body.Forbidden.Kind != domain.ForbiddenDoubleThree || body.Forbidden.OpenThrees != 2 {
		t.Fatalf("expected double three evidence, got %+v", body)
	}
}

func TestHintExportImportReplay(t *testing.T) {
	api := newTestAPI(t)
	g := api.createPvP(t)
	id := g.Game.GameID

	w := api.do(t, http.MethodGet, "/api/games/"+id+"/hint", "", nil)
	expectStatus(t, w, http.StatusOK)
	hint := decode[struct {
		Move     domain.Point `json:"move"`
		Notation string       `json:"notation"`
	}](t, w)
	if hint.Move != (domain.Point{X: 7, Y: 7}) || hint.Notation != "H8" {
		t.Fatalf("expected H8 as the opening hint, got %+v", hint)
	}

	for i, m := range [][2]int{{7, 7}, {8, 8}, {6, 6}} {
		token := g.Tokens["black"]
		if i%2 == 1 {
			token = g.Tokens["white"]
		}
		expectStatus(t, api.do(t, http.MethodPost, "/api/games/"+id+"/moves", token, gin.H{"x": m[0], "y": m[1]}), http.StatusOK)
	}

	w = api.do(t, http.MethodGet, "/api/games/"+id+"/export", "", nil)
	expectStatus(t, w, http.StatusOK)
	data := decode[domain.GameData](t, w)
	if data.Version != domain.DataVersion || len(data.Moves) != 3 {
		t.Fatalf("unexpected export %+v", data)
	}

	w = api.do(t, http.MethodPost, "/api/games/import", "", gin.H{"data": data})
	expectStatus(t, w, http.StatusCreated)
	imported := decode[gameResponse](t, w)
	if imported.Game.GameID == id || len(imported.Game.Moves) != 3 || imported.Game.Info.CurrentPlayer != domain.White {
		t.Fatalf("unexpected imported game %+v", imported.Game)
	}
	if imported.Tokens["white"] == "" {
		t.Fatalf("imported PvP game should hand out seats, got %v", imported.Tokens)
	}

	data.Moves[2].X = 7
	data.Moves[2].Y = 7
	expectStatus(t, api.do(t, http.MethodPost, "/api/games/import", "", gin.H{"data": data}), http.StatusBadRequest)

	w = api.do(t, http.MethodGet, "/api/games/"+id+"/replay?step=1", "", nil)
	expectStatus(t, w, http.StatusOK)
	if st := decode[game.GameState](t, w); len(st.Moves) != 1 || st.Board[7][7] != int(domain.Black) || st.Board[8][8] != 0 {
		t.Fatalf("unexpected replay state %+v", st)
	}
	w = api.do(t, http.MethodGet, "/api/games/"+id+"/replay", "", nil)
	expectStatus(t, w, http.StatusOK)
	if st := decode[game.GameState](t, w); len(st.Moves) != 3 {
		t.Fatalf("full replay should have every move, got %d", len(st.Moves))
	}
	expectStatus(t, api.do(t, http.MethodGet, "/api/games/"+id+"/replay?step=9", "", nil), http.StatusBadRequest)
	expectStatus(t, api.do(t, http.MethodGet, "/api/games/"+id+"/replay?step=abc", "", nil), http.StatusBadRequest)
}

func TestFinishedGameRefusesHint(t *testing.T) {
	api := newTestAPI(t)
	g := api.createPvP(t)
	id := g.Game.GameID

	for i, m := range [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}, {3, 0}, {3, 1}, {4, 0}} {
		token := g.Tokens["black"]
		if i%2 == 1 {
			token = g.Tokens["white"]
		}
		expectStatus(t, api.do(t, http.MethodPost, "/api/games/"+id+"/moves", token, gin.H{"x": m[0], "y": m[1]}), http.StatusOK)
	}

	expectStatus(t, api.do(t, http.MethodGet, "/api/games/"+id+"/hint", "", nil), http.StatusConflict)
	expectStatus(t, api.do(t, http.MethodPost, "/api/games/"+id+"/moves", g.Tokens["white"], gin.H{"x": 9, "y": 9}), http.StatusConflict)
}
