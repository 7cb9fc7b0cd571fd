package domain

// MaxTeams is the hard ceiling on simultaneous teams, imposed by the
// scoreboard colour space: one colour per team id, 15 colours total.
const MaxTeams = 15

// teamColours maps team id to scoreboard colour, one-to-one.
var teamColours = [MaxTeams]string{
	"red",
	"blue",
	"yellow",
	"green",
	"aqua",
	"gold",
	"light_purple",
	"dark_red",
	"dark_blue",
	"dark_green",
	"dark_aqua",
	"dark_purple",
	"gray",
	"dark_gray",
	"black",
}

// Team is a scoreboard team. Teams exist only between team formation and
// match reset; a team whose last non-eliminated member is removed is
// implicitly eliminated.
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Colour returns the scoreboard colour bound to the team's id.
func (t *Team) Colour() string {
	return TeamColour(t.ID)
}

// TeamColour returns the scoreboard colour for a team id, or "white" for
// ids outside the palette.
func TeamColour(id int) string {
	if id < 0 || id >= MaxTeams {
		return "white"
	}
	return teamColours[id]
}
