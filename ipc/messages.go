package ipc

// These constants must stay in sync with the message types on the host side.
const (
	TypeHello     = "hello"
	TypeAck       = "ack"
	TypeGameState = "game_state"
	TypeIntents   = "intents"
)

type HelloMessage struct {
	Player    string `json:"player"`
	Role      string `json:"role"`
	MapWidth  int    `json:"mapWidth"`
	MapHeight int    `json:"mapHeight"`
}

type AckMessage struct {
	Status string `json:"status"`
}

// IntentsMessage answers a game_state envelope with every maneuver the
// engine registered for that tick.
type IntentsMessage struct {
	Tick      int        `json:"tick"`
	Maneuvers []Maneuver `json:"maneuvers"`
}
