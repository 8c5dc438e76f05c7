package codec

import "github.com/mcoot/webgame/internal/model"

var userSchema = NewSchema("user",
	Field{Name: "_id", Type: TypeUUID},
	Field{Name: "login", Type: TypeString},
	Field{Name: "firstName", Type: TypeString},
	Field{Name: "lastName", Type: TypeString},
	Field{Name: "gamesPlayed", Type: TypeInt},
	Field{Name: "currentGameId", Type: TypeUUID, Optional: true},
)

// Users is the document codec for model.User
var Users = &Codec[model.User]{
	schema:     userSchema,
	toValues:   userValues,
	fromValues: userFromValues,
}

func userValues(u *model.User) Values {
	v := Values{
		"_id":         u.ID,
		"login":       u.Login,
		"firstName":   u.FirstName,
		"lastName":    u.LastName,
		"gamesPlayed": u.GamesPlayed,
	}
	if u.CurrentGameID != nil {
		v["currentGameId"] = *u.CurrentGameID
	}
	return v
}

func userFromValues(v Values) *model.User {
	return &model.User{
		ID:            v.id("_id"),
		Login:         v.str("login"),
		FirstName:     v.str("firstName"),
		LastName:      v.str("lastName"),
		GamesPlayed:   v.num("gamesPlayed"),
		CurrentGameID: v.optionalID("currentGameId"),
	}
}
