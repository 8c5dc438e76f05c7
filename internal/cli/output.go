package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case UserPage:
		o.printUserPage(v)
	case CreatedResult:
		fmt.Printf("Created: %s\n", v.ID)
	case Game:
		o.printGame(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID            string  `json:"id"`
	Login         string  `json:"login"`
	FullName      string  `json:"fullName"`
	GamesPlayed   int     `json:"gamesPlayed"`
	CurrentGameID *string `json:"currentGameId"`
}

// Pagination mirrors the X-Pagination header
type Pagination struct {
	PreviousPageLink *string `json:"previousPageLink"`
	NextPageLink     *string `json:"nextPageLink"`
	TotalCount       int     `json:"totalCount"`
	PageSize         int     `json:"pageSize"`
	CurrentPage      int     `json:"currentPage"`
	TotalPages       int     `json:"totalPages"`
}

// UserPage combines a page of users with its pagination header
type UserPage struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// CreatedResult reports the id of a created resource
type CreatedResult struct {
	ID string `json:"id"`
}

// Player response type
type Player struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Decision string `json:"decision"`
	Score    int    `json:"score"`
}

// Game response type
type Game struct {
	ID               string   `json:"id"`
	Status           string   `json:"status"`
	CurrentTurnIndex int      `json:"currentTurnIndex"`
	Players          []Player `json:"players"`
}

// HealthResult response type
type HealthResult struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Login, u.ID)
	if u.FullName != "" {
		fmt.Printf("Name: %s\n", u.FullName)
	}
	fmt.Printf("Games Played: %d\n", u.GamesPlayed)
	if u.CurrentGameID != nil {
		fmt.Printf("Current Game: %s\n", *u.CurrentGameID)
	}
}

func (o *Output) printUserPage(p UserPage) {
	fmt.Printf("Users (page %d of %d, %d total):\n", p.Pagination.CurrentPage, p.Pagination.TotalPages, p.Pagination.TotalCount)
	for _, u := range p.Users {
		fmt.Printf("  - %s (%s) games: %d\n", u.Login, u.ID, u.GamesPlayed)
	}
	if p.Pagination.PreviousPageLink != nil {
		fmt.Printf("Previous: %s\n", *p.Pagination.PreviousPageLink)
	}
	if p.Pagination.NextPageLink != nil {
		fmt.Printf("Next: %s\n", *p.Pagination.NextPageLink)
	}
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Turn: %d\n", g.CurrentTurnIndex)
	fmt.Printf("Players (%d):\n", len(g.Players))
	for _, p := range g.Players {
		fmt.Printf("  - %s (%s) decision: %s score: %d\n", p.Name, p.UserID, p.Decision, p.Score)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Uptime: %ds\n", h.UptimeSeconds)
}
