package gameserver

import (
	"github.com/GuySandler/orbitaldaggers/internal/game/player"
)

// Message type discriminators shared by inbound and outbound frames.
const (
	TypeJoinMap          = "join_map"
	TypePlayerUpdate     = "player_update"
	TypeHitPlayer        = "hit_player"
	TypeSpinChange       = "action_spin_change"
	TypeMatchAssetsReady = "match_assets_ready"

	TypeError                = "error"
	TypeMapJoinedAck         = "map_joined_ack"
	TypeLobbyUpdate          = "lobby_update"
	TypePlayerJoined         = "player_joined"
	TypeLoadMatch            = "load_match"
	TypeGameStateUpdate      = "game_state_update"
	TypeHPUpdate             = "hp_update"
	TypePlayerDied           = "player_died"
	TypeDaggerSpinUpdate     = "dagger_spin_update"
	TypeStartMatchSimulation = "start_match_simulation"
	TypePlayerLeft           = "player_left"
)

// clientMessage is the single inbound envelope. Optional scalar fields are
// pointers so absence is distinguishable from the zero value.
type clientMessage struct {
	Type string `json:"type"`

	// join_map
	MapID             string          `json:"map_id"`
	RequestedPlayerID string          `json:"requestedPlayerId"`
	InitialX          *float64        `json:"initialX"`
	InitialY          *float64        `json:"initialY"`
	Daggers           []player.Dagger `json:"daggers"`

	// player_update
	Data *player.StatePatch `json:"data"`

	// hit_player
	TargetID string `json:"targetId"`
	Damage   *int   `json:"damage"`

	// action_spin_change
	DaggerIndex *int     `json:"daggerIndex"`
	NewSpin     *float64 `json:"newSpin"`
}

// errorMessage tells a client its last frame was rejected.
type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// playerRef pairs a session id with its full snapshot, the shape used in
// roster listings.
type playerRef struct {
	PlayerID   string          `json:"playerId"`
	PlayerData player.Snapshot `json:"playerData"`
}

// mapJoinedAck confirms a join to the joiner. The lobby fields appear only
// for joins admitted into a versus lobby.
type mapJoinedAck struct {
	Type             string      `json:"type"`
	Status           string      `json:"status"`
	MapID            string      `json:"map_id"`
	YourID           string      `json:"yourId"`
	ExistingPlayers  []playerRef `json:"existingPlayers"`
	LobbyPlayerCount int         `json:"lobbyPlayerCount,omitempty"`
	LobbyMaxPlayers  int         `json:"lobbyMaxPlayers,omitempty"`
}

// lobbyUpdate reports lobby occupancy to every member.
type lobbyUpdate struct {
	Type        string `json:"type"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	StatusText  string `json:"statusText,omitempty"`
}

// playerJoined announces a new player to peers already present.
type playerJoined struct {
	Type       string          `json:"type"`
	PlayerID   string          `json:"playerId"`
	MapID      string          `json:"mapId"`
	PlayerData player.Snapshot `json:"playerData"`
}

// loadMatch instructs a full lobby to load match assets.
type loadMatch struct {
	Type            string      `json:"type"`
	MapID           string      `json:"map_id"`
	ExistingPlayers []playerRef `json:"existingPlayers"`
}

// reducedState is the per-tick relay payload: position and health only.
// Dagger configuration travels through dedicated spin updates instead.
type reducedState struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	HP    int     `json:"hp"`
	HPMax int     `json:"hp_max"`
}

// gameStateUpdate relays one player's movement and health to map peers.
type gameStateUpdate struct {
	Type       string       `json:"type"`
	PlayerData reducedState `json:"playerData"`
}

// hpUpdate announces an authoritative health change after a hit.
type hpUpdate struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	HP         int    `json:"hp"`
	HPMax      int    `json:"hp_max"`
	AttackerID string `json:"attackerId"`
}

// playerDied announces a death, exactly once per target.
type playerDied struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	KillerID string `json:"killerId"`
}

// daggerSpinUpdate relays a mid-match spin change to map peers.
type daggerSpinUpdate struct {
	Type        string  `json:"type"`
	PlayerID    string  `json:"playerId"`
	DaggerIndex int     `json:"daggerIndex"`
	NewSpin     float64 `json:"newSpin"`
}

// startMatchSimulation tells every lobby member to begin the match.
type startMatchSimulation struct {
	Type string `json:"type"`
}

// playerLeft announces a departure. Reason is set for error-path disconnects.
type playerLeft struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Reason   string `json:"reason,omitempty"`
}
