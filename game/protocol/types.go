package protocol

// MsgType identifies the kind of a chat channel message
type MsgType string

const (
	WordToGuess      MsgType = "WORD_TO_GUESS"
	Message          MsgType = "MESSAGE"
	YouGuessedIt     MsgType = "YOU_GUESSED_IT"
	NextWord         MsgType = "NEXT_WORD"
	CleanCanvas      MsgType = "CLEAN_CANVAS"
	CleanWordToGuess MsgType = "CLEAN_WORD_TO_GUESS"
	Scoreboard       MsgType = "SCOREBOARD"
)

// MsgTypes lists every kind the server may send, in declaration order
var MsgTypes = []MsgType{
	WordToGuess,
	Message,
	YouGuessedIt,
	NextWord,
	CleanCanvas,
	CleanWordToGuess,
	Scoreboard,
}

// Valid reports whether t is one of the known message kinds
func (t MsgType) Valid() bool {
	for _, known := range MsgTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ChatMessage is a chat channel frame
type ChatMessage struct {
	Type    MsgType `json:"msgType"`
	Content string  `json:"msgContent"`
}

// Cartesian is a 2D point or size in canvas pixels
type Cartesian struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawingMessage is one line segment sent over the drawing channel.
// Size is the canvas size of the sender and serves as the coordinate frame.
type DrawingMessage struct {
	From  Cartesian `json:"from"`
	To    Cartesian `json:"to"`
	Size  Cartesian `json:"size"`
	Color string    `json:"color"`
}

// Score is one scoreboard entry
type Score struct {
	Username  string `json:"username"`
	IsDrawing bool   `json:"isDrawing"`
	Points    int    `json:"points"`
}

// Credentials is the body of the REST login request
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
