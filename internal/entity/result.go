package entity

import "time"

// GameResult is the archive record of a finished match.
type GameResult struct {
	GameID     string    `json:"game_id"`
	PlayerX    string    `json:"player_x"`
	PlayerO    string    `json:"player_o"`
	Winner     string    `json:"winner,omitempty"`
	IsDraw     bool      `json:"is_draw"`
	FinishedAt time.Time `json:"finished_at"`
}
