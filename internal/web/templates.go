package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/samber/lo"

	"github.com/jaminalder/codex-othello/internal/app"
	"github.com/jaminalder/codex-othello/internal/domain"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Othello</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}.cell{width:48px;height:48px;background:#2e7d32;border:1px solid #1b5e20;display:flex;align-items:center;justify-content:center}
.cell button{width:100%;height:100%;background:none;border:0;cursor:pointer}
.disc{width:38px;height:38px;border-radius:50%}.black .disc{background:#111}.white .disc{background:#eee}
.legal .hint{width:10px;height:10px;border-radius:50%;background:rgba(0,0,0,.35)}
.last{outline:2px solid #ffeb3b}
</style>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Othello</h1>
<form action="/game" method="post">
  <select name="mode">
    <option value="ai-white">Play Black against the computer</option>
    <option value="ai-black">Play White against the computer</option>
    <option value="human">Two players</option>
  </select>
  <button>New game</button>
</form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="status">{{.Status}}</div>
  <div class="score">Black: {{.Black}} White: {{.White}}</div>
  {{range .Rows}}
  <div class="row">
    {{range .}}
    <div class="cell {{.Class}}{{if .Legal}} legal{{end}}{{if .Last}} last{{end}}">
      {{if .Class}}<span class="disc"></span>{{else}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/{{$.ID}}/play">
        <input type="hidden" name="r" value="{{.Row}}">
        <input type="hidden" name="c" value="{{.Col}}">
        <button type="submit" title="{{.Name}}">{{if .Legal}}<span class="hint"></span>{{end}}</button>
      </form>
      {{end}}
    </div>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/game/{{.ID}}/restart" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/{{.ID}}/restart">
    <button type="submit">Restart</button>
  </form>
</div>
`

type cellView struct {
	Row, Col int
	Name     string
	Class    string
	Legal    bool
	Last     bool
}

type boardView struct {
	ID     string
	Rows   [][]cellView
	Black  int
	White  int
	Status string
	Error  string
}

func newBoardView(gs app.GameState, errMsg string) boardView {
	g := &gs.Game
	legal := g.LegalMoves(g.Turn)
	v := boardView{
		ID:     gs.ID,
		Black:  g.TileCount(domain.Black),
		White:  g.TileCount(domain.White),
		Status: statusText(g),
		Error:  errMsg,
		Rows:   make([][]cellView, domain.Size),
	}
	for r := range v.Rows {
		v.Rows[r] = make([]cellView, domain.Size)
		for c := range v.Rows[r] {
			p := domain.Pos{Row: r, Col: c}
			cv := cellView{Row: r, Col: c, Name: p.String(), Last: p == g.LastMove}
			switch g.Board[r][c] {
			case domain.BlackDisc:
				cv.Class = "black"
			case domain.WhiteDisc:
				cv.Class = "white"
			default:
				// hints are only shown to humans
				cv.Legal = !g.AIReadyToMove() && lo.Contains(legal, p)
			}
			v.Rows[r][c] = cv
		}
	}
	return v
}

func statusText(g *domain.Game) string {
	b, w := g.TileCount(domain.Black), g.TileCount(domain.White)
	switch g.Result {
	case domain.Draw:
		return fmt.Sprintf("Draw! %d:%d", b, w)
	case domain.BlackWin, domain.WhiteWin:
		winner, loser := g.Winner(), g.Winner().Opponent()
		label := winner.String() + " won!"
		if g.AI != domain.NoSide {
			label = "You won!"
			if winner == g.AI {
				label = "AI won!"
			}
		}
		return fmt.Sprintf("%s %d:%d", label, g.TileCount(winner), g.TileCount(loser))
	}
	if g.Passed != domain.NoSide {
		return fmt.Sprintf("%v has no moves, %v plays again", g.Passed, g.Turn)
	}
	return fmt.Sprintf("%v to move", g.Turn)
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
		return c.Value
	}
	v := app.NewPlayerID()
	http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return v
}
