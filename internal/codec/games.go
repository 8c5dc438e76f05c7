package codec

import "github.com/mcoot/webgame/internal/model"

var (
	gameStatusEnum     = EnumTableOf("GameStatus", model.GameStatuses())
	playerDecisionEnum = EnumTableOf("PlayerDecision", model.PlayerDecisions())
)

var playerSchema = NewSchema("player",
	Field{Name: "userId", Type: TypeUUID},
	Field{Name: "name", Type: TypeString},
	Field{Name: "decision", Type: TypeEnum, Enum: playerDecisionEnum},
	Field{Name: "score", Type: TypeInt},
)

var gameSchema = NewSchema("game",
	Field{Name: "_id", Type: TypeUUID},
	Field{Name: "status", Type: TypeEnum, Enum: gameStatusEnum},
	Field{Name: "currentTurnIndex", Type: TypeInt},
	Field{Name: "players", Type: TypeDocumentArray, Elem: playerSchema, Optional: true},
)

// Games is the document codec for model.Game
var Games = &Codec[model.Game]{
	schema:     gameSchema,
	toValues:   gameValues,
	fromValues: gameFromValues,
}

func gameValues(g *model.Game) Values {
	v := Values{
		"_id":              g.ID,
		"status":           int(g.Status),
		"currentTurnIndex": g.CurrentTurnIndex,
	}
	// nil players stay absent; an empty slice is written as an empty array
	if g.Players != nil {
		players := make([]Values, len(g.Players))
		for i, p := range g.Players {
			players[i] = Values{
				"userId":   p.UserID,
				"name":     p.Name,
				"decision": int(p.Decision),
				"score":    p.Score,
			}
		}
		v["players"] = players
	}
	return v
}

func gameFromValues(v Values) *model.Game {
	g := &model.Game{
		ID:               v.id("_id"),
		Status:           model.GameStatus(v.num("status")),
		CurrentTurnIndex: v.num("currentTurnIndex"),
	}
	if docs, ok := v.docs("players"); ok {
		g.Players = make([]model.Player, len(docs))
		for i, d := range docs {
			g.Players[i] = model.Player{
				UserID:   d.id("userId"),
				Name:     d.str("name"),
				Decision: model.PlayerDecision(d.num("decision")),
				Score:    d.num("score"),
			}
		}
	}
	return g
}
